package cli

import "context"

// Run is the high-level entrypoint: parse, then execute. Suitable for
// black-box tests that drive the whole CLI with an argument slice.
func Run(ctx context.Context, args []string) (Result, error) {
	inv, err := ParseInvocation(args)
	if err != nil {
		return Result{ExitCode: ExitCodeOf(err)}, err
	}
	return Execute(ctx, inv)
}

// romdoctor checks that every external tool the build pipeline shells out
// to is resolvable, printing a pass/fail line per tool. It exits non-zero
// if any check failed.
package main

import (
	"flag"
	"os"

	"romforge/internal/config"
	"romforge/internal/doctor"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Build config file naming the tools to check.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	names := []string{cfg.Tools.Assembler, cfg.Tools.Codec, cfg.Tools.Emulator}
	if failed := doctor.Report(os.Stdout, doctor.Check(names)); failed > 0 {
		os.Exit(1)
	}
}

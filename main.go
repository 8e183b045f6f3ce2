package main

import (
	"flag"
	"fmt"
	"os"

	"ghvault/internal/di"
	"ghvault/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug logging")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "ghvault: %s\n", err)
		os.Exit(1)
	}
}

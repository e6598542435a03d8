package main

import (
	"flag"
	"log"

	"chronicle/internal/di"
	"chronicle/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "duplicate logs to stderr")
	flag.Parse()

	_, err := di.InitApp(flags)
	if err != nil {
		log.Fatalf("failed to start: %s", err)
	}
}

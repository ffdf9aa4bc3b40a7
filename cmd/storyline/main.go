package main

import (
	"os"

	"storyline/internal/cli"
	"storyline/internal/log"
)

func main() {
	if os.Getenv("STORYLINE_DEBUG") != "" {
		log.SetLevel(log.LevelDebug)
	}
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

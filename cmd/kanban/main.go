package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/kanban/internal/cli"
)

var version = "dev"

func main() {
	setupLogging()
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}

// setupLogging initializes structured logging from environment.
func setupLogging() {
	level, parseErr := zerolog.ParseLevel(os.Getenv("KANBAN_LOG_LEVEL"))
	if parseErr != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("KANBAN_LOG_FORMAT") == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

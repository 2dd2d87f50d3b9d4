package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	setupLogging()

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("tenant-service failed")
	}
}

// setupLogging initializes structured logging from environment.
func setupLogging() {
	level, err := zerolog.ParseLevel(os.Getenv("TENANT_LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("TENANT_LOG_FORMAT") == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:           "tenant-service",
		Short:         "Tenant registry HTTP service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, newMigrateCmd(), newWatchCmd())
	return root
}

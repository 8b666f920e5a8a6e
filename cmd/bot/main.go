package main

import (
	"fmt"
	"os"

	"github.com/KirkDiggler/giveawaybot/internal/common/logger"
	"github.com/KirkDiggler/giveawaybot/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const programName = "giveawaybot"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var globalFlags = struct {
	debug   bool
	envFile string
}{}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := cfg.LogLevel
	if globalFlags.debug {
		level = "debug"
	}

	return logger.New(&logger.Config{
		Level:  level,
		Format: cfg.LogFormat,
	}).With().Str("program", programName).Logger()
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Discord giveaway bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd)
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.envFile, "env-file", "", "path to a .env file (default .env when present)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.Load(globalFlags.envFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(versionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(1)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", programName, version)
		},
	}
}

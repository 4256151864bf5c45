package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/birdlog/internal/app"
	"github.com/at-ishikawa/birdlog/internal/config"
)

var (
	configFile string
	output     = outputText
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	output = outputText
	rootCommand := &cobra.Command{
		Use:           "birdlog",
		Short:         "Look up Swedish and Latin bird names and keep a species list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	rootCommand.PersistentFlags().Var(&output, "output", "output format: text or yaml")

	rootCommand.AddCommand(
		newLookupCommand(),
		newMediaCommand(),
		newValidateCommand(),
		newSpeciesCommand(),
		newCacheCommand(),
		newGeocodeCommand(),
		newMigrateCommand(),
	)
	return rootCommand
}

// setupLogger configures the default logger based on debug mode.
// Logs go to stderr so they never mix with yaml output.
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loader.Load() > %w", err)
	}
	return cfg, nil
}

// loadComponents returns components the caller must Close.
func loadComponents() (*app.Components, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	components, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("app.New() > %w", err)
	}
	return components, nil
}

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ShelterScanner/internal/app"
	"ShelterScanner/internal/config"
	"ShelterScanner/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "shelterscanner",
	Short:         "shelterscanner aggregates adoptable-pet listings and ranks them by urgency.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file (defaults to $SHELTER_SCANNER_CONFIG).")
}

// ExecuteContext runs the root command and exits non-zero on failure.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the application.
func bootstrap() (*app.Application, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	application, err := app.New(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return application, log, nil
}

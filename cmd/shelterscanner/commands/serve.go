package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--config <path>]",
	Short: "Runs scheduled ingestion and the HTTP API until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() {
			if err := application.Close(); err != nil {
				log.Error("close storage", "error", err)
			}
		}()

		return application.Serve(cmd.Context())
	},
}

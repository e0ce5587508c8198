package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [--config <path>]",
	Short: "Runs one ingestion pass over the configured locations and prints the report.",
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

		report, runErr := application.Ingest(cmd.Context())

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}

		// The report is printed even when every source was unreachable.
		return runErr
	},
}

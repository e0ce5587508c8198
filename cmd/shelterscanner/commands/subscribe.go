package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	subscribeRegions []string
	subscribeSpecies []string
)

func init() {
	subscribeCmd.Flags().StringSliceVar(&subscribeRegions, "region", nil, "Two-letter region code to watch (repeatable, empty means all).")
	subscribeCmd.Flags().StringSliceVar(&subscribeSpecies, "species", nil, "Species to watch: Dog, Cat or Unknown (repeatable, empty means all).")
	rootCmd.AddCommand(subscribeCmd)
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <email> [--region FL] [--species Dog]",
	Short: "Creates or replaces the critical-alert subscription for an email.",
	Args:  cobra.ExactArgs(1),
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

		sub, err := application.Subscribe(cmd.Context(), args[0], subscribeRegions, subscribeSpecies)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "subscribed %s regions=%v species=%v\n", sub.Email, sub.Regions, sub.Species)
		return nil
	},
}

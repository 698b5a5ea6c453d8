package commands

import (
	"bookitnow-backend/lib/serviceutil"
	"bookitnow-backend/services/scraper"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(blackoutsCmd)
}

var blackoutsCmd = &cobra.Command{
	Use:   "blackouts",
	Short: "Runs login and the room blackout flow only.",
	Run: func(cmd *cobra.Command, args []string) {
		service, _ := createService(false, 0)

		err := service.Run(cmd.Context(), scraper.RunOptions{
			DoBlackouts: true,
		})
		if err != nil {
			serviceutil.Fatal("blackout run failed", err)
		}
	},
}

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"bookitnow-backend/lib/serviceutil"
	"bookitnow-backend/lib/timezone"
	"bookitnow-backend/services/soundings"

	"github.com/spf13/cobra"
)

var soundingsWindow *string

func init() {
	soundingsWindow = soundingsCmd.Flags().String("window", "", "Limit output to the sunrise or sunset window.")
	rootCmd.AddCommand(soundingsCmd)
}

var soundingsCmd = &cobra.Command{
	Use:   "soundings [--window sunrise|sunset]",
	Short: "Fetches the latest wind soundings and prints the layer table.",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			table []soundings.Sounding
			err   error
		)
		switch *soundingsWindow {
		case "":
			table, err = soundings.Fetch(cmd.Context())
		case "sunrise":
			table, err = soundings.Sunrise(cmd.Context(), timezone.Now())
		case "sunset":
			table, err = soundings.Sunset(cmd.Context(), timezone.Now())
		default:
			serviceutil.Fatal("fetch soundings", fmt.Errorf("unknown window %q", *soundingsWindow))
		}
		if err != nil {
			serviceutil.Fatal("fetch soundings", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(table)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

package commands

import (
	"log/slog"
	"time"

	"bookitnow-backend/lib/configutil"
	"bookitnow-backend/lib/mqtt"
	"bookitnow-backend/lib/serviceutil"
	"bookitnow-backend/lib/timezone"
	"bookitnow-backend/services/scraper"

	"github.com/spf13/cobra"
)

type cliConfig struct {
	Timezone string         `json:"timezone"`
	Scraper  scraper.Config `json:"scraper"`
	Mqtt     mqtt.Config    `json:"mqtt"`
}

var (
	scrapeDays       *int
	scrapeDateAdjust *int
	skipBlackouts    *bool
	confirmationCode *string
)

func init() {
	scrapeDays = scrapeCmd.Flags().Int("days", 0, "Override the number of days to scan.")
	scrapeDateAdjust = scrapeCmd.Flags().Int("date-adjust", 0, "Shift the effective scrape date by this many days.")
	skipBlackouts = scrapeCmd.Flags().Bool("skip-blackouts", false, "Run the guest data flow only.")
	confirmationCode = scrapeCmd.Flags().String("code", "", "Manually supplied one-time login code.")
	rootCmd.AddCommand(scrapeCmd)
}

func createService(publish bool, daysOverride int) (*scraper.Service, cliConfig) {
	cfg, err := configutil.ReadConfig[cliConfig]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if daysOverride > 0 {
		cfg.Scraper.DaysToCheck = daysOverride
	}
	secrets, err := configutil.ReadConfig[scraper.Secrets]("secrets.json5")
	if err != nil {
		serviceutil.Fatal("read secrets", err)
	}
	if cfg.Timezone != "" {
		err = timezone.Set(cfg.Timezone)
		if err != nil {
			serviceutil.Fatal("set timezone", err)
		}
	}

	var mqttClient *mqtt.Client
	if publish {
		mqttClient, err = mqtt.NewClient(cfg.Mqtt)
		if err != nil {
			slog.Error("failed to connect mqtt, device state will not publish", "err", err)
		}
	}
	return scraper.NewService(cfg.Scraper, secrets, mqttClient), cfg
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--days n] [--date-adjust n] [--skip-blackouts] [--code otp]",
	Short: "Runs login, blackouts and the guest data pipeline once.",
	Run: func(cmd *cobra.Command, args []string) {
		service, _ := createService(true, *scrapeDays)

		opts := scraper.RunOptions{
			DoBlackouts:       !*skipBlackouts,
			DoScrapeGuestData: true,
			ConfirmationCode:  *confirmationCode,
		}
		if *scrapeDateAdjust != 0 {
			opts.DateAdjustDays = scrapeDateAdjust
		}

		t1 := time.Now()
		err := service.Run(cmd.Context(), opts)
		t2 := time.Now()
		if err != nil {
			serviceutil.Fatal("scrape run failed", err)
		}
		slog.Info("scrape time", "seconds", t2.Sub(t1).Seconds())
	},
}

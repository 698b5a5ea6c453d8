package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"bookitnow-backend/lib/configutil"
	"bookitnow-backend/lib/mqtt"
	"bookitnow-backend/lib/serviceutil"
	"bookitnow-backend/lib/telemetry"
	"bookitnow-backend/lib/timezone"
	"bookitnow-backend/services/scraper"
	"bookitnow-backend/services/soundings"

	"github.com/robfig/cron/v3"
)

type Config struct {
	Port           int    `json:"port"`
	CronExpression string `json:"cron_expression"`
	// optional second schedule pushing wind soundings to the broker
	SoundingsCron string         `json:"soundings_cron"`
	Timezone      string         `json:"timezone"`
	Scraper       scraper.Config `json:"scraper"`
	Mqtt          mqtt.Config    `json:"mqtt"`
}

// at most one scrape runs at a time: a second concurrent session would
// race the account's remembered-browser state
type runner struct {
	service *scraper.Service
	active  atomic.Bool
}

// trigger starts a run in the background. It reports false without
// starting anything when a run is already active.
func (r *runner) trigger(ctx context.Context, opts scraper.RunOptions) bool {
	if !r.active.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "scrape already running, trigger ignored")
		return false
	}
	go func() {
		defer r.active.Store(false)
		r.service.RunWithRetry(ctx, opts)
		slog.InfoContext(ctx, "scrape process finished")
	}()
	return true
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(*verbose)
	tel, err := telemetry.SetupFromEnv(ctx, "bookitnow")
	if err != nil {
		slog.Warn("telemetry export disabled", "err", err)
	} else {
		go func() {
			<-ctx.Done()
			tel.Shutdown(context.Background())
		}()
	}

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
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

	mqttClient, err := mqtt.NewClient(cfg.Mqtt)
	if err != nil {
		// device state publishing degrades, scraping still works
		slog.Error("failed to connect mqtt", "err", err)
		mqttClient = nil
	} else {
		defer mqttClient.Disconnect()
	}

	run := &runner{
		service: scraper.NewService(cfg.Scraper, secrets, mqttClient),
	}

	cronner := cron.New(cron.WithLocation(timezone.Location))
	_, err = cronner.AddFunc(cfg.CronExpression, func() {
		run.trigger(ctx, scraper.RunOptions{
			DoBlackouts:       true,
			DoScrapeGuestData: true,
		})
	})
	if err != nil {
		serviceutil.Fatal("schedule scrape", err)
	}
	if cfg.SoundingsCron != "" && mqttClient != nil {
		_, err = cronner.AddFunc(cfg.SoundingsCron, func() {
			publishSoundings(ctx, mqttClient)
		})
		if err != nil {
			serviceutil.Fatal("schedule soundings", err)
		}
	}
	cronner.Start()
	slog.Info("scheduled scrape", "cron", cfg.CronExpression, "tz", timezone.Location.String())

	mux := http.NewServeMux()
	registerHandlers(ctx, mux, run, mqttClient)

	go serviceutil.StartHttpServer(cfg.Port, mux)
	<-ctx.Done()
}

// publishSoundings pushes the current sunrise and sunset wind windows
// to the broker as attribute payloads.
func publishSoundings(ctx context.Context, mqttClient *mqtt.Client) {
	now := timezone.Now()
	sunrise, err := soundings.Sunrise(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch sunrise soundings", "err", err)
	} else {
		mqttClient.PublishAttributes("sunrise wind", sunrise)
	}
	sunset, err := soundings.Sunset(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch sunset soundings", "err", err)
	} else {
		mqttClient.PublishAttributes("sunset wind", sunset)
	}
}

// registerHandlers wires the manual trigger endpoints. Responses
// acknowledge immediately; success or failure of the run itself is
// only observable through logs and the downstream notifications.
func registerHandlers(ctx context.Context, mux *http.ServeMux, run *runner, mqttClient *mqtt.Client) {
	mux.HandleFunc("GET /scrape", func(w http.ResponseWriter, r *http.Request) {
		opts := scraper.RunOptions{
			DoBlackouts:       true,
			DoScrapeGuestData: true,
			ConfirmationCode:  r.URL.Query().Get("confirmationCode"),
		}
		if adjust := r.URL.Query().Get("dateAdjust"); adjust != "" {
			days, err := strconv.Atoi(adjust)
			if err != nil {
				http.Error(w, "dateAdjust must be an integer", http.StatusBadRequest)
				return
			}
			opts.DateAdjustDays = &days
		}
		if run.trigger(ctx, opts) {
			fmt.Fprintln(w, "Scrape process started")
		} else {
			fmt.Fprintln(w, "Scrape process already running")
		}
	})

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		switch {
		case query.Get("confirmationCode") != "":
			run.trigger(ctx, scraper.RunOptions{
				DoBlackouts:       true,
				DoScrapeGuestData: true,
				ConfirmationCode:  query.Get("confirmationCode"),
			})
			fmt.Fprintln(w, "Running scrape process with confirmation code")
		case query.Get("device") != "":
			device := query.Get("device")
			state := query.Get("state") == "true"
			if mqttClient != nil {
				mqttClient.SetDeviceState(device, state)
			}
			fmt.Fprintf(w, "Sending MQTT message for %s with state %s.\n", device, query.Get("state"))
		default:
			fmt.Fprintf(w, "Request params = %s not recognized.\n", r.URL.RawQuery)
		}
	})
}

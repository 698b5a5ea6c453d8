package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookitnow-backend/lib/browser"
	"bookitnow-backend/lib/discord"
	"bookitnow-backend/lib/mqtt"
	"bookitnow-backend/lib/timezone"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/scraper")

type Config struct {
	DaysToCheck       int  `json:"days_to_check"`
	MaxTries          int  `json:"max_tries"`
	RetryDelaySeconds int  `json:"retry_delay_seconds"`
	Headless          bool `json:"headless"`
}

// Secrets is the property-specific half of the configuration: where
// and how to log in, what the rooms are called, and where results go.
type Secrets struct {
	Credentials Credentials       `json:"credentials"`
	RoomNames   []string          `json:"room_names"`
	RoomNumbers map[string]string `json:"room_numbers"`
	Blackouts   BlackoutConfig    `json:"blackouts"`
	WebhookURL  string            `json:"webhook_url"`
}

// RunOptions selects which flows a single run executes. A confirmation
// code passed with a manual trigger rides along here as an explicit
// parameter rather than being patched into shared secrets.
type RunOptions struct {
	DoBlackouts       bool
	DoScrapeGuestData bool
	DateAdjustDays    *int
	// manually supplied one-time code, overrides TOTP generation for
	// this run only
	ConfirmationCode string
}

type Service struct {
	config  Config
	secrets Secrets
	mqtt    *mqtt.Client
	webhook *discord.Webhook
}

func NewService(config Config, secrets Secrets, mqttClient *mqtt.Client) *Service {
	if config.DaysToCheck <= 0 {
		config.DaysToCheck = 1
	}
	return &Service{
		config:  config,
		secrets: secrets,
		mqtt:    mqttClient,
		webhook: discord.NewWebhook(secrets.WebhookURL),
	}
}

// Run performs one complete scrape: login, then the blackout flow and
// the guest-data flow as selected. A login failure fails the run;
// blackout and guest-data failures are independent of each other and
// only logged, so one failing while the other succeeds is expected.
// The browser is torn down on every exit path.
func (s *Service) Run(ctx context.Context, opts RunOptions) error {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	session, err := browser.Launch(ctx, browser.Options{
		Headless:  s.config.Headless,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36",
	})
	if err != nil {
		span.SetStatus(codes.Error, "browser launch failed")
		return err
	}
	defer session.Close()

	err = Login(ctx, session, s.secrets.Credentials, opts.ConfirmationCode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		return err
	}

	if opts.DoBlackouts {
		date := ScrapeDate(timezone.Now(), opts.DateAdjustDays)
		err := RunBlackouts(ctx, session, s.secrets.Blackouts, date)
		if err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "blackout flow failed", "err", err)
		}
	}
	if opts.DoScrapeGuestData {
		err := s.scrapeGuestData(ctx, session, opts)
		if err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "guest data flow failed", "err", err)
		}
	}
	return nil
}

// RunWithRetry retries the whole run at a fixed interval until it
// succeeds or the configured budget runs out. There is no partial
// resumption: every attempt logs in and extracts from scratch.
func (s *Service) RunWithRetry(ctx context.Context, opts RunOptions) error {
	maxTries := s.config.MaxTries
	if maxTries <= 0 {
		maxTries = 1
	}
	delay := time.Duration(s.config.RetryDelaySeconds) * time.Second
	if delay <= 0 {
		delay = 10 * time.Second
	}

	attempt := 0
	err := backoff.Retry(
		func() error {
			attempt++
			slog.InfoContext(ctx, "starting run", "attempt", attempt)
			err := s.Run(ctx, opts)
			if err != nil {
				slog.ErrorContext(ctx, "run failed", "attempt", attempt, "err", err)
			}
			return err
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(maxTries-1)),
			ctx,
		),
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to run", "max_tries", maxTries, "err", err)
	}
	return err
}

func (s *Service) scrapeGuestData(ctx context.Context, session *browser.Session, opts RunOptions) error {
	ctx, span := tracer.Start(ctx, "scrapeGuestData")
	defer span.End()

	// day 0 starts from whatever the front desk page shows after login
	err := session.ClickNavigate(selFrontDeskLink, selArrivalsHeader, selectorTimeout)
	if err != nil {
		span.SetStatus(codes.Error, "front desk page not reachable")
		return fmt.Errorf("%w: opening front desk page: %v", ErrNavigationFailed, err)
	}

	scrapeDate := ScrapeDate(timezone.Now(), opts.DateAdjustDays)
	days, err := walkDays(ctx, session, startDate{
		date:      scrapeDate,
		dayBefore: IsDayBefore(scrapeDate),
	}, s.config.DaysToCheck)
	if err != nil {
		span.RecordError(err)
		return err
	}

	enrichRecords(ctx, session, days)

	tonight := days[0]
	occupancy := BuildOccupancy(s.secrets.RoomNames, tonight)
	phones := BuildPhoneDirectory(s.secrets.RoomNumbers, tonight)

	s.publish(ctx, tonight, occupancy, phones)

	messages := ComposeMessages(scrapeDate, days, DefaultPalette)
	for _, message := range messages {
		err := s.webhook.Send(ctx, message)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("sending day message: %w", err)
		}
	}
	return nil
}

// publish pushes the aggregated facts to the smart-home side. These
// sends don't wait on each other and any broker failure stays inside
// the mqtt client.
func (s *Service) publish(ctx context.Context, tonight DayRecords, occupancy map[string]*Occupancy, phones map[string][]string) {
	if s.mqtt == nil {
		slog.WarnContext(ctx, "mqtt client not configured, skipping device state publish")
		return
	}
	s.mqtt.SetDeviceState("evening guests", HasEveningGuests(tonight))
	s.mqtt.SetDeviceState("breakfast guests", HasBreakfastGuests(tonight))
	for room, entry := range occupancy {
		s.mqtt.PublishAttributes("occupancy "+room, entry)
	}
	s.mqtt.PublishAttributes("occupancy phone numbers", phones)
}

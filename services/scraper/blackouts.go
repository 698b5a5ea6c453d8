package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookitnow-backend/lib/browser"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BlackoutConfig names the rooms whose availability checkboxes the
// scheduler manages, and the combo rooms whose occupancy protects
// their constituents from being touched.
type BlackoutConfig struct {
	URL        string              `json:"url"`
	RoomNames  []string            `json:"room_names"`
	RoomCombos map[string][]string `json:"room_combos"`
}

// BlackoutCandidates returns the rooms still eligible for toggling on
// a date, removing every constituent of a combo room the UI reports as
// occupied. The blackout page errors out when a constituent of an
// occupied combo is toggled, so those rooms are implicitly protected.
func BlackoutCandidates(rooms []string, combos map[string][]string, comboOccupied func(combo string) bool) []string {
	protected := map[string]bool{}
	for combo, constituents := range combos {
		if !comboOccupied(combo) {
			continue
		}
		for _, room := range constituents {
			protected[room] = true
			slog.Info("removing room from blackout candidates",
				"room", room, "occupied_combo", combo)
		}
	}

	var candidates []string
	for _, room := range rooms {
		if !protected[room] {
			candidates = append(candidates, room)
		}
	}
	return candidates
}

// RunBlackouts drives the room-availability grid through a rolling
// two-day window anchored at the effective blackout date: the current
// date gets its candidates checked, the date two days back gets them
// unchecked, then the page is saved. Selector failures abort this flow
// only; the guest-data pipeline is unaffected.
func RunBlackouts(ctx context.Context, session *browser.Session, cfg BlackoutConfig, scrapeDate time.Time) error {
	ctx, span := tracer.Start(ctx, "RunBlackouts")
	defer span.End()
	slog.InfoContext(ctx, "running blackouts")

	err := session.Navigate(cfg.URL, selectorTimeout)
	if err == nil {
		err = session.WaitVisible(selBlackoutCheckbox, selectorTimeout)
	}
	if err != nil {
		span.SetStatus(codes.Error, "blackout page not reachable")
		return fmt.Errorf("%w: loading blackout page: %v", ErrBlackoutFailed, err)
	}

	date := scrapeDate
	if IsDayBefore(date) {
		date = date.AddDate(0, 0, 1)
	}

	doCheck := true
	for pass := 0; pass < 2; pass++ {
		err = blackoutPass(ctx, session, cfg, BlackoutDate(date), doCheck)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "blackout pass failed")
			return err
		}
		date = date.AddDate(0, 0, -2)
		doCheck = false
	}

	err = session.ClickNavigate(selBlackoutSave, selFrontDeskLink, selectorTimeout)
	if err != nil {
		span.SetStatus(codes.Error, "save failed")
		return fmt.Errorf("%w: saving blackout page: %v", ErrBlackoutFailed, err)
	}
	return nil
}

func blackoutPass(ctx context.Context, session *browser.Session, cfg BlackoutConfig, date string, doCheck bool) error {
	ctx, span := tracer.Start(ctx, "blackoutPass")
	defer span.End()
	span.SetAttributes(
		attribute.String("date", date),
		attribute.Bool("do_check", doCheck),
	)

	var comboErr error
	candidates := BlackoutCandidates(cfg.RoomNames, cfg.RoomCombos, func(combo string) bool {
		present, err := session.Exists(selRoomByName(combo))
		if err != nil {
			comboErr = err
			return false
		}
		if !present {
			return false
		}
		// an occupied combo has no free checkbox for the date
		hasCheckbox, err := session.Exists(selRoomBlackoutDate(combo, date))
		if err != nil {
			comboErr = err
			return false
		}
		return !hasCheckbox
	})
	if comboErr != nil {
		return fmt.Errorf("%w: resolving combo occupancy: %v", ErrBlackoutFailed, comboErr)
	}

	for _, room := range candidates {
		checkboxSel := selRoomBlackoutDate(room, date)
		present, err := session.Exists(checkboxSel)
		if err != nil {
			return fmt.Errorf("%w: resolving checkbox for %q: %v", ErrBlackoutFailed, room, err)
		}
		if !present {
			continue
		}

		checked, err := session.IsChecked(checkboxSel)
		if err != nil {
			return fmt.Errorf("%w: reading checkbox for %q: %v", ErrBlackoutFailed, room, err)
		}
		if checked != doCheck {
			err = session.Click(checkboxSel)
			if err != nil {
				return fmt.Errorf("%w: toggling checkbox for %q: %v", ErrBlackoutFailed, room, err)
			}
		}
	}
	return nil
}

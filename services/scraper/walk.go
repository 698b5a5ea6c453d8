package scraper

import (
	"context"
	"fmt"
	"time"

	"bookitnow-backend/lib/browser"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// startDate anchors a walk: the effective scrape date plus whether the
// day-before rule means the displayed day-0 view must first be rolled
// forward.
type startDate struct {
	date      time.Time
	dayBefore bool
}

// walkDays collects one DayRecords per day in the scan window.
//
// Day 0 normally reads the table view the front desk page already
// shows. When the day-before rule rolls the window forward, and for
// every later day, the walker types the target date into the search
// control and re-extracts. A failed transition fails the entire walk;
// the caller retries the whole run rather than resuming mid-window.
func walkDays(ctx context.Context, session *browser.Session, start startDate, dayCount int) ([]DayRecords, error) {
	ctx, span := tracer.Start(ctx, "walkDays")
	defer span.End()
	span.SetAttributes(attribute.Int("day_count", dayCount))

	date := start.date
	var days []DayRecords
	for i := 0; i < dayCount; i++ {
		if i > 0 || start.dayBefore {
			date = date.AddDate(0, 0, 1)
			err := searchDate(session, SearchDate(date))
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "date search failed")
				return nil, fmt.Errorf("%w: day %d: %v", ErrNavigationFailed, i, err)
			}
		}
		session.Screenshot(fmt.Sprintf("frontDesk%d", i))

		day, err := extractDay(ctx, session)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "extraction failed")
			return nil, fmt.Errorf("%w: day %d: %v", ErrNavigationFailed, i, err)
		}
		days = append(days, day)
	}
	return days, nil
}

// searchDate types a "Mon D, YYYY" date over the search control's
// current text and triggers the table reload.
func searchDate(session *browser.Session, date string) error {
	err := session.TypeOverwrite(selDateInput, date)
	if err != nil {
		return fmt.Errorf("typing date %q: %w", date, err)
	}
	err = session.ClickNavigate(selDateSearchGo, selArrivalsHeader, selectorTimeout)
	if err != nil {
		return fmt.Errorf("arrivals header missing after searching %q: %w", date, err)
	}
	return nil
}

package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookitnow-backend/lib/browser"
	"bookitnow-backend/lib/htmlutil"
	"bookitnow-backend/lib/timezone"

	"go.opentelemetry.io/otel/codes"
)

// enrichRecords follows detail links to fill in the fields the table
// view doesn't carry: phone numbers for tonight's guests and a
// previous-stays summary for every check-in in the window.
//
// Failures here are contained per record: a dead selector or a page
// that won't load degrades that record's fields to the error sentinel
// and the run keeps going. This is deliberate asymmetry with the day
// walk, where a navigation failure kills the run.
func enrichRecords(ctx context.Context, session *browser.Session, days []DayRecords) {
	ctx, span := tracer.Start(ctx, "enrichRecords")
	defer span.End()

	if len(days) == 0 {
		return
	}
	for i := range days {
		for _, record := range days[i].Checkins {
			phones, previousStays := phonesAndPreviousStays(ctx, session, record.Link)
			if i == 0 {
				record.Phones = phones
			}
			record.PreviousStays = previousStays
		}
	}
	for _, record := range days[0].Stayovers {
		record.Phones = phonesFromLink(ctx, session, record.Link)
	}
}

func phonesAndPreviousStays(ctx context.Context, session *browser.Session, link string) ([]string, string) {
	phones := phonesFromLink(ctx, session, link)
	// the phone fetch leaves the session on the reservation detail
	// page, which is where the guest profile link lives
	return phones, previousStays(ctx, session, timezone.Now())
}

// phonesFromLink opens a reservation detail page and collects the
// distinct phone numbers listed for the guest, in page order.
func phonesFromLink(ctx context.Context, session *browser.Session, link string) []string {
	ctx, span := tracer.Start(ctx, "phonesFromLink")
	defer span.End()

	err := session.Navigate(link, selectorTimeout)
	if err == nil {
		err = session.WaitVisible(selCustomerBody, selectorTimeout)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "customer body not reachable")
		slog.ErrorContext(ctx, "selector for phone numbers failed", "link", link, "err", err)
		return []string{errSentinel}
	}

	elements, err := session.InnerHTMLAll(selCustomerPhone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read phone elements", "link", link, "err", err)
		return []string{errSentinel}
	}

	seen := map[string]bool{}
	var phones []string
	for _, el := range elements {
		phone := CleanPhone(htmlutil.StripTags(el))
		if phone == "" || seen[phone] {
			continue
		}
		seen[phone] = true
		phones = append(phones, phone)
	}
	return phones
}

// stay is one qualifying row of a guest's stay-history table.
type stay struct {
	checkout  time.Time
	arrival   string
	departure string
	room      string
}

// previousStays opens the guest profile from the reservation detail
// page and summarizes the guest's history.
func previousStays(ctx context.Context, session *browser.Session, now time.Time) string {
	ctx, span := tracer.Start(ctx, "previousStays")
	defer span.End()

	err := session.ClickNavigate(selCustomerName, selHistoryTable, selectorTimeout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "history table not reachable")
		slog.ErrorContext(ctx, "wait for selector failed on previous stays table", "err", err)
		return errSentinel
	}

	stays, err := readStayHistory(session, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read stay history", "err", err)
		return errSentinel
	}
	return SummarizeStays(stays)
}

// readStayHistory walks the history table rows, keeping stays that
// were real (non-zero total) and already checked out.
func readStayHistory(session pageView, now time.Time) ([]stay, error) {
	var stays []stay
	for row := 1; ; row++ {
		rowSel := selHistoryRow(row)
		present, err := session.Exists(rowSel)
		if err != nil {
			return nil, err
		}
		if !present {
			break
		}

		total, _, err := session.InnerHTML(rowSel + ` > td:nth-child(9) > a > div`)
		if err != nil {
			return nil, err
		}
		if htmlutil.StripTags(total) == "$0.00" {
			// placeholder row, not a real stay
			continue
		}

		roomElements, err := session.InnerHTMLAll(rowSel + ` > td:nth-child(4) > a.visible > div`)
		if err != nil {
			return nil, err
		}
		room := ""
		for i, el := range roomElements {
			if i > 0 {
				room += ", "
			}
			room += CleanRoom(el)
		}

		arrival, _, err := session.InnerHTML(rowSel + ` > td:nth-child(5) > a > div`)
		if err != nil {
			return nil, err
		}
		departure, _, err := session.InnerHTML(rowSel + ` > td:nth-child(6) > a > div`)
		if err != nil {
			return nil, err
		}

		arrivalText := htmlutil.StripTags(arrival)
		departureText := htmlutil.StripTags(departure)
		checkout, ok := parseStayDate(departureText)
		if !ok || !checkout.Before(now) {
			continue
		}
		stays = append(stays, stay{
			checkout:  checkout,
			arrival:   arrivalText,
			departure: departureText,
			room:      room,
		})
	}
	return stays, nil
}

var stayDateLayouts = []string{
	"Jan 2, 2006",
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
}

func parseStayDate(text string) (time.Time, bool) {
	for _, layout := range stayDateLayouts {
		t, err := time.ParseInLocation(layout, text, timezone.Location)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SummarizeStays renders the stay-history line shown under a check-in
// embed. The stay with the latest checkout wins; among equal checkout
// dates the pick is arbitrary.
func SummarizeStays(stays []stay) string {
	if len(stays) == 0 {
		return "First time guest"
	}
	last := stays[0]
	for _, s := range stays[1:] {
		if s.checkout.After(last.checkout) {
			last = s
		}
	}
	return fmt.Sprintf(
		"%d previous stays, last on %s-%s in %s",
		len(stays), last.arrival, last.departure, last.room,
	)
}

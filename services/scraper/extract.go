package scraper

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// pageView is the read-only slice of a browser session the extraction
// code needs. Navigation stays out of it on purpose: reading never
// invalidates the current view.
type pageView interface {
	Exists(sel string) (bool, error)
	InnerHTML(sel string) (string, bool, error)
	InnerHTMLAll(sel string) ([]string, error)
	Href(sel string) (string, error)
}

// row groups of the front desk table, in tbody order
const (
	groupCheckins  = 1
	groupCheckouts = 2
	groupStayovers = 3
)

// data rows start at this offset, below the group's header rows
const firstDataRow = 3

// extractDay walks the three row groups of the currently displayed
// front desk table and returns the day's records. Each group is read
// top to bottom until a row fails to resolve, which is the end of that
// group, not an error; there is no other bound on group length.
func extractDay(ctx context.Context, session pageView) (DayRecords, error) {
	ctx, span := tracer.Start(ctx, "extractDay")
	defer span.End()

	var day DayRecords
	for group := groupCheckins; group <= groupStayovers; group++ {
		records, err := extractGroup(ctx, session, group)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to extract row group")
			return DayRecords{}, err
		}

		switch group {
		case groupCheckins:
			day.Checkins = records
		case groupCheckouts:
			day.Checkouts = records
		case groupStayovers:
			day.Stayovers = records
		}
	}

	span.SetAttributes(
		attribute.Int("checkins", len(day.Checkins)),
		attribute.Int("checkouts", len(day.Checkouts)),
		attribute.Int("stayovers", len(day.Stayovers)),
	)
	return day, nil
}

func extractGroup(ctx context.Context, session pageView, group int) ([]*Record, error) {
	var records []*Record
	for row := firstDataRow; ; row++ {
		rowSel := selTableRow(group, row)
		present, err := session.Exists(rowSel)
		if err != nil {
			return nil, fmt.Errorf("resolving row %d of group %d: %w", row, group, err)
		}
		if !present {
			break
		}

		record, err := extractRow(session, rowSel)
		if err != nil {
			return nil, fmt.Errorf("extracting row %d of group %d: %w", row, group, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// extractRow pulls the seven fixed-position cells out of one table
// row. Absent cells read as empty strings, only browser-level failures
// are errors.
func extractRow(session pageView, rowSel string) (*Record, error) {
	name, _, err := session.InnerHTML(rowSel + ` > td:nth-child(2)`)
	if err != nil {
		return nil, err
	}
	link, err := session.Href(rowSel + ` > td.booking-confirmation-id > a`)
	if err != nil {
		return nil, err
	}
	room, _, err := session.InnerHTML(rowSel + ` > td:nth-child(4)`)
	if err != nil {
		return nil, err
	}
	nights, _, err := session.InnerHTML(rowSel + ` > td:nth-child(5)`)
	if err != nil {
		return nil, err
	}
	paid, _, err := session.InnerHTML(rowSel + ` > td:nth-child(6)`)
	if err != nil {
		return nil, err
	}
	notes, err := session.InnerHTMLAll(rowSel + ` > td:nth-child(7) > div > div`)
	if err != nil {
		return nil, err
	}

	return &Record{
		Name:   CleanName(name),
		Room:   CleanRoom(room),
		Nights: CleanNights(nights),
		Amount: CleanPaid(paid),
		Link:   link,
		Notes:  ParseNotes(notes),
	}, nil
}

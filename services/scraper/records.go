package scraper

import (
	"regexp"
	"strings"

	"bookitnow-backend/lib/htmlutil"
)

// Note is one bold-label/value pair attached to a reservation row.
type Note struct {
	Name  string
	Value string
}

// Record is one reservation row pulled out of the front desk table.
// The extractor fills the table-view fields, the enrichment pass fills
// Phones and PreviousStays, after which a record is never mutated.
type Record struct {
	Name   string
	Room   string
	Nights string
	Amount string
	Link   string
	Notes  []Note
	// additional guest names. The front desk table carries no cell
	// for these anymore, so no extraction path fills this; the
	// composer still renders it when a caller sets it.
	Guest         string
	Phones        []string
	PreviousStays string
}

// DayRecords holds the three row groups of the front desk table for a
// single calendar day.
type DayRecords struct {
	Checkins  []*Record
	Checkouts []*Record
	Stayovers []*Record
}

var nonDigit = regexp.MustCompile(`\D`)

// CleanPhone strips everything but digits.
func CleanPhone(phone string) string {
	return nonDigit.ReplaceAllString(phone, "")
}

// CleanName strips markup and reorders "Last, First" to "First Last".
func CleanName(raw string) string {
	name := htmlutil.StripTags(raw)
	split := strings.SplitN(name, ", ", 2)
	if len(split) < 2 {
		return name
	}
	return split[1] + " " + split[0]
}

// CleanRoom keeps the leading room token, dropping any trailing status
// text the cell carries.
func CleanRoom(raw string) string {
	split := strings.Split(htmlutil.StripTags(raw), " ")
	return split[0]
}

// CleanNights pulls the night count out of a "x of N nights" cell.
func CleanNights(raw string) string {
	split := strings.Split(htmlutil.StripTags(raw), " ")
	if len(split) < 3 {
		return ""
	}
	return split[2]
}

// CleanPaid turns the paid cell into an amount due: a "Yes" marker
// means fully paid.
func CleanPaid(raw string) string {
	text := htmlutil.StripTags(raw)
	if strings.Contains(text, "Yes") {
		return "$0.00"
	}
	split := strings.Split(text, " ")
	if len(split) < 3 {
		return ""
	}
	return split[2]
}

// ParseNote splits a note fragment of the form
// <strong>Label</strong>value into its parts.
func ParseNote(fragment string) Note {
	sel, err := htmlutil.ParseFragment(fragment)
	if err != nil {
		return Note{Value: fragment}
	}
	label := sel.Find("strong").First()
	name := strings.TrimSpace(label.Text())
	label.Remove()
	return Note{
		Name:  name,
		Value: strings.TrimSpace(sel.Text()),
	}
}

// ParseNotes maps every note fragment on a row, preserving order.
func ParseNotes(fragments []string) []Note {
	if len(fragments) == 0 {
		return nil
	}
	notes := make([]Note, 0, len(fragments))
	for _, f := range fragments {
		notes = append(notes, ParseNote(f))
	}
	return notes
}

package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func (f *fakePage) addStayRow(row int, total, room, arrival, departure string) {
	if f.html == nil {
		f.html = map[string]string{}
		f.multi = map[string][]string{}
		f.hrefs = map[string]string{}
	}
	rowSel := selHistoryRow(row)
	f.html[rowSel+` > td:nth-child(9) > a > div`] = total
	f.multi[rowSel+` > td:nth-child(4) > a.visible > div`] = []string{room}
	f.html[rowSel+` > td:nth-child(5) > a > div`] = arrival
	f.html[rowSel+` > td:nth-child(6) > a > div`] = departure
}

func TestReadStayHistory(t *testing.T) {
	now := time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)

	page := &fakePage{}
	page.addStayRow(1, "$310.00", "Maple", "Jun 1, 2024", "Jun 3, 2024")
	// zero-total placeholder row, skipped but the walk continues past it
	page.addStayRow(2, "$0.00", "Oak", "Jun 5, 2024", "Jun 6, 2024")
	// future stay, not history yet
	page.addStayRow(3, "$150.00", "Pine", "Jul 1, 2024", "Jul 2, 2024")
	page.addStayRow(4, "$95.00", "Cedar", "5/1/2024", "5/2/2024")

	stays, err := readStayHistory(page, now)
	require.NoError(t, err)
	require.Len(t, stays, 2)

	require.Equal(t, "Maple", stays[0].room)
	require.Equal(t, "Jun 1, 2024", stays[0].arrival)
	require.Equal(t, "Jun 3, 2024", stays[0].departure)
	require.Equal(t, "Cedar", stays[1].room)
}

func TestReadStayHistoryJoinsComboRooms(t *testing.T) {
	now := time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)

	page := &fakePage{}
	page.addStayRow(1, "$310.00", "Maple", "Jun 1, 2024", "Jun 3, 2024")
	page.multi[selHistoryRow(1)+` > td:nth-child(4) > a.visible > div`] = []string{
		"<div>Maple</div>", "<div>Oak</div>",
	}

	stays, err := readStayHistory(page, now)
	require.NoError(t, err)
	require.Len(t, stays, 1)
	require.Equal(t, "Maple, Oak", stays[0].room)
}

func TestReadStayHistoryOnlyPlaceholders(t *testing.T) {
	now := time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)

	page := &fakePage{}
	page.addStayRow(1, "$0.00", "Maple", "Jun 1, 2024", "Jun 3, 2024")
	page.addStayRow(2, "$0.00", "Oak", "Jun 5, 2024", "Jun 6, 2024")

	stays, err := readStayHistory(page, now)
	require.NoError(t, err)
	require.Empty(t, stays)
	require.Equal(t, "First time guest", SummarizeStays(stays))
}

func TestParseStayDate(t *testing.T) {
	cases := []struct {
		text string
		ok   bool
	}{
		{text: "Jun 3, 2024", ok: true},
		{text: "6/3/2024", ok: true},
		{text: "06/03/2024", ok: true},
		{text: "2024-06-03", ok: true},
		{text: "last Tuesday", ok: false},
		{text: "", ok: false},
	}
	for _, test := range cases {
		parsed, ok := parseStayDate(test.text)
		require.Equal(t, test.ok, ok, test.text)
		if ok {
			require.Equal(t, 2024, parsed.Year())
			require.Equal(t, time.June, parsed.Month())
			require.Equal(t, 3, parsed.Day())
		}
	}
}

func TestSummarizeStays(t *testing.T) {
	require.Equal(t, "First time guest", SummarizeStays(nil))

	one := []stay{{
		checkout:  time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		arrival:   "Jun 1, 2024",
		departure: "Jun 3, 2024",
		room:      "Maple",
	}}
	require.Equal(t,
		"1 previous stays, last on Jun 1, 2024-Jun 3, 2024 in Maple",
		SummarizeStays(one),
	)

	several := append(one, stay{
		checkout:  time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC),
		arrival:   "5/1/2024",
		departure: "5/2/2024",
		room:      "Cedar",
	})
	// the latest checkout wins regardless of row order
	require.Equal(t,
		"2 previous stays, last on Jun 1, 2024-Jun 3, 2024 in Maple",
		SummarizeStays(several),
	)
}

func TestEnrichRecordsEmptyWindow(t *testing.T) {
	// nothing to enrich, and day 0 must not be assumed to exist
	enrichRecords(context.Background(), nil, nil)
	enrichRecords(context.Background(), nil, []DayRecords{})
}

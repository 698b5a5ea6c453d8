package scraper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCleanPhone(t *testing.T) {
	cases := []struct {
		raw      string
		expected string
	}{
		{raw: "(555) 123-4567", expected: "5551234567"},
		{raw: "+1 555.123.4567", expected: "15551234567"},
		{raw: "5551234567", expected: "5551234567"},
		{raw: "", expected: ""},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, CleanPhone(test.raw))
	}
}

func TestCleanName(t *testing.T) {
	cases := []struct {
		raw      string
		expected string
	}{
		{raw: "Doe, Jane", expected: "Jane Doe"},
		{raw: "<a href=\"#\">Doe, Jane</a>", expected: "Jane Doe"},
		{raw: "Madonna", expected: "Madonna"},
		{raw: "Van Der Berg, Chris", expected: "Chris Van Der Berg"},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, CleanName(test.raw))
	}
}

func TestCleanRoom(t *testing.T) {
	require.Equal(t, "Maple", CleanRoom("Maple (dirty)"))
	require.Equal(t, "Oak-Pine", CleanRoom("Oak-Pine"))
	require.Equal(t, "Maple", CleanRoom("<span>Maple checked in</span>"))
}

func TestCleanNights(t *testing.T) {
	require.Equal(t, "3", CleanNights("1 of 3 nights"))
	require.Equal(t, "", CleanNights("nights"))
}

func TestCleanPaid(t *testing.T) {
	require.Equal(t, "$0.00", CleanPaid("<span>Yes</span>"))
	require.Equal(t, "$210.00", CleanPaid("No, owes $210.00"))
	require.Equal(t, "", CleanPaid("No"))
}

func TestParseNote(t *testing.T) {
	cases := []struct {
		fragment string
		expected Note
	}{
		{
			fragment: "<strong>Allergies</strong> no peanuts",
			expected: Note{Name: "Allergies", Value: "no peanuts"},
		},
		{
			fragment: "<strong>Late arrival</strong>",
			expected: Note{Name: "Late arrival", Value: ""},
		},
		{
			fragment: "plain text note",
			expected: Note{Name: "", Value: "plain text note"},
		},
	}
	for _, test := range cases {
		note := ParseNote(test.fragment)
		if diff := cmp.Diff(test.expected, note); diff != "" {
			t.Fatalf("unexpected note (-want +got):\n%s", diff)
		}
	}
}

func TestParseNotes(t *testing.T) {
	require.Nil(t, ParseNotes(nil))

	notes := ParseNotes([]string{
		"<strong>A</strong> one",
		"<strong>B</strong> two",
	})
	expected := []Note{
		{Name: "A", Value: "one"},
		{Name: "B", Value: "two"},
	}
	if diff := cmp.Diff(expected, notes); diff != "" {
		t.Fatalf("unexpected notes (-want +got):\n%s", diff)
	}
}

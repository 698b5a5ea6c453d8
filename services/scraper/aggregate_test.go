package scraper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testRoster = []string{"Maple", "Oak", "Pine", "Cedar"}

func TestExpandRooms(t *testing.T) {
	cases := []struct {
		token    string
		expected []string
	}{
		{token: "Maple", expected: []string{"Maple"}},
		{token: "Oak-Pine", expected: []string{"Oak", "Pine"}},
		{token: "Whole House", expected: []string{"Maple", "Oak", "Pine", "Cedar"}},
		{token: "whole", expected: []string{"Maple", "Oak", "Pine", "Cedar"}},
	}
	for _, test := range cases {
		rooms := ExpandRooms(testRoster, test.token)
		if diff := cmp.Diff(test.expected, rooms); diff != "" {
			t.Fatalf("%q: unexpected expansion (-want +got):\n%s", test.token, diff)
		}
	}
}

func TestExpandRoomsCopiesRoster(t *testing.T) {
	rooms := ExpandRooms(testRoster, "whole")
	rooms[0] = "mutated"
	require.Equal(t, "Maple", testRoster[0])
}

func TestBuildOccupancy(t *testing.T) {
	tonight := DayRecords{
		Checkins:  []*Record{{Room: "Maple"}},
		Stayovers: []*Record{{Room: "Oak-Pine"}},
	}

	occupancy := BuildOccupancy(testRoster, tonight)
	expected := map[string]*Occupancy{
		"Maple": {OccupiedTonight: true, CheckingInToday: true},
		"Oak":   {OccupiedTonight: true},
		"Pine":  {OccupiedTonight: true},
		"Cedar": {},
	}
	if diff := cmp.Diff(expected, occupancy); diff != "" {
		t.Fatalf("unexpected occupancy (-want +got):\n%s", diff)
	}
}

// A stayover landing on a room after a check-in already marked it must
// not clear the checking-in flag.
func TestBuildOccupancyStayoverKeepsCheckinFlag(t *testing.T) {
	tonight := DayRecords{
		Checkins:  []*Record{{Room: "Oak"}},
		Stayovers: []*Record{{Room: "Oak-Pine"}},
	}

	occupancy := BuildOccupancy(testRoster, tonight)
	require.True(t, occupancy["Oak"].OccupiedTonight)
	require.True(t, occupancy["Oak"].CheckingInToday)
	require.True(t, occupancy["Pine"].OccupiedTonight)
	require.False(t, occupancy["Pine"].CheckingInToday)
}

func TestBuildOccupancyWholeProperty(t *testing.T) {
	tonight := DayRecords{
		Checkins: []*Record{{Room: "Whole House"}},
	}

	occupancy := BuildOccupancy(testRoster, tonight)
	for _, room := range testRoster {
		require.True(t, occupancy[room].OccupiedTonight, room)
		require.True(t, occupancy[room].CheckingInToday, room)
	}
}

func TestBuildOccupancyIgnoresUnknownRooms(t *testing.T) {
	tonight := DayRecords{
		Checkins: []*Record{{Room: "Attic"}},
	}

	occupancy := BuildOccupancy(testRoster, tonight)
	require.Len(t, occupancy, len(testRoster))
	require.False(t, occupancy["Maple"].OccupiedTonight)
}

func TestBuildPhoneDirectory(t *testing.T) {
	roomNumbers := map[string]string{
		"Maple": "101",
		"Oak":   "102",
	}
	tonight := DayRecords{
		Checkins:  []*Record{{Room: "Maple", Phones: []string{"5551234567"}}},
		Stayovers: []*Record{{Room: "Oak", Phones: []string{"5559876543"}}},
	}

	directory := BuildPhoneDirectory(roomNumbers, tonight)
	expected := map[string][]string{
		"101": {"5551234567"},
		"102": {"5559876543"},
	}
	if diff := cmp.Diff(expected, directory); diff != "" {
		t.Fatalf("unexpected directory (-want +got):\n%s", diff)
	}
}

func TestBuildPhoneDirectoryLastWriteWins(t *testing.T) {
	roomNumbers := map[string]string{"Maple": "101"}
	tonight := DayRecords{
		Checkins:  []*Record{{Room: "Maple", Phones: []string{"1111111111"}}},
		Stayovers: []*Record{{Room: "Maple", Phones: []string{"2222222222"}}},
	}

	directory := BuildPhoneDirectory(roomNumbers, tonight)
	require.Equal(t, []string{"2222222222"}, directory["101"])
}

// A check-in on a vacant combo room marks every constituent, and once
// the combo shows as booked the blackout pass must leave the
// constituents alone.
func TestComboCheckinScenario(t *testing.T) {
	roster := []string{"A", "B"}
	combos := map[string][]string{"AB": {"A", "B"}}

	tonight := DayRecords{Checkins: []*Record{{Room: "A-B"}}}
	occupancy := BuildOccupancy(roster, tonight)
	for _, room := range roster {
		require.True(t, occupancy[room].OccupiedTonight, room)
		require.True(t, occupancy[room].CheckingInToday, room)
	}

	booked := func(combo string) bool { return combo == "AB" }
	require.Empty(t, BlackoutCandidates(roster, combos, booked))
}

func TestGuestFlags(t *testing.T) {
	require.False(t, HasEveningGuests(DayRecords{}))
	require.False(t, HasBreakfastGuests(DayRecords{}))

	checkin := DayRecords{Checkins: []*Record{{}}}
	require.True(t, HasEveningGuests(checkin))
	require.False(t, HasBreakfastGuests(checkin))

	stayover := DayRecords{Stayovers: []*Record{{}}}
	require.True(t, HasEveningGuests(stayover))
	require.True(t, HasBreakfastGuests(stayover))

	checkout := DayRecords{Checkouts: []*Record{{}}}
	require.False(t, HasEveningGuests(checkout))
	require.True(t, HasBreakfastGuests(checkout))
}

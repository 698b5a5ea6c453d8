package scraper

import "strings"

// Occupancy is tonight's state for one physical room. The JSON shape
// is published as-is to the smart-home side.
type Occupancy struct {
	OccupiedTonight bool `json:"occupiedTonight"`
	CheckingInToday bool `json:"checkingInToday"`
}

// ExpandRooms resolves a raw room token from the table into the
// physical rooms it occupies: hyphen-joined tokens are combo rooms and
// split into their parts, any token containing "whole" books the
// entire property, anything else is a single room.
func ExpandRooms(roster []string, token string) []string {
	if strings.Contains(token, "-") {
		return strings.Split(token, "-")
	}
	if strings.Contains(strings.ToLower(token), "whole") {
		rooms := make([]string, len(roster))
		copy(rooms, roster)
		return rooms
	}
	return []string{token}
}

// BuildOccupancy folds tonight's check-ins and stayovers into a
// per-room occupancy map over the full roster. Check-ins mark a room
// both occupied and checking in; stayovers only mark it occupied and
// never clear the checking-in flag a check-in already set, which
// matters when a combo expansion revisits a room.
func BuildOccupancy(roster []string, tonight DayRecords) map[string]*Occupancy {
	occupancy := make(map[string]*Occupancy, len(roster))
	for _, room := range roster {
		occupancy[room] = &Occupancy{}
	}

	for _, record := range tonight.Checkins {
		for _, room := range ExpandRooms(roster, record.Room) {
			entry, ok := occupancy[room]
			if !ok {
				continue
			}
			entry.OccupiedTonight = true
			entry.CheckingInToday = true
		}
	}
	for _, record := range tonight.Stayovers {
		for _, room := range ExpandRooms(roster, record.Room) {
			entry, ok := occupancy[room]
			if !ok {
				continue
			}
			entry.OccupiedTonight = true
		}
	}
	return occupancy
}

// BuildPhoneDirectory maps tonight's guest phone numbers by business
// room number. When two records land on the same room number the last
// one wins; accepted behavior, not corrected here.
func BuildPhoneDirectory(roomNumbers map[string]string, tonight DayRecords) map[string][]string {
	directory := map[string][]string{}
	for _, record := range tonight.Checkins {
		number, ok := roomNumbers[record.Room]
		if !ok {
			continue
		}
		directory[number] = record.Phones
	}
	for _, record := range tonight.Stayovers {
		number, ok := roomNumbers[record.Room]
		if !ok {
			continue
		}
		directory[number] = record.Phones
	}
	return directory
}

// HasEveningGuests reports whether anyone sleeps on the property
// tonight.
func HasEveningGuests(tonight DayRecords) bool {
	return len(tonight.Checkins) > 0 || len(tonight.Stayovers) > 0
}

// HasBreakfastGuests reports whether anyone needs breakfast tomorrow
// morning: stayovers and tonight's checkouts do, fresh check-ins
// don't change the count on their own.
func HasBreakfastGuests(tonight DayRecords) bool {
	return len(tonight.Stayovers) > 0 || len(tonight.Checkouts) > 0
}

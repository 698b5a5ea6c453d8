package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookitnow-backend/lib/discord"
)

func embedColors(messages []discord.Message) []int {
	var colors []int
	for _, m := range messages {
		for _, e := range m.Embeds {
			colors = append(colors, e.Color)
		}
	}
	return colors
}

func TestComposeMessagesEmptyDay(t *testing.T) {
	morning := time.Date(2024, time.June, 14, 8, 0, 0, 0, time.UTC)

	messages := ComposeMessages(morning, []DayRecords{{}}, DefaultPalette)
	require.Len(t, messages, 1)
	require.Equal(t, "__**Friday**__", messages[0].Content)

	// an empty day still carries both placeholder embeds, in order
	require.Len(t, messages[0].Embeds, 2)
	require.Equal(t, ":inbox_tray: :x:", messages[0].Embeds[0].Description)
	require.Equal(t, ":outbox_tray: :x:", messages[0].Embeds[1].Description)
}

func TestComposeMessagesColorCycle(t *testing.T) {
	morning := time.Date(2024, time.June, 14, 8, 0, 0, 0, time.UTC)

	// nine embeds total across two days: 4 checkins + 1 checkout
	// placeholder, then 3 checkins + 1 checkout
	days := []DayRecords{
		{Checkins: []*Record{{}, {}, {}, {}}},
		{
			Checkins:  []*Record{{}, {}, {}},
			Checkouts: []*Record{{}},
		},
	}

	messages := ComposeMessages(morning, days, DefaultPalette)
	require.Len(t, messages, 2)

	colors := embedColors(messages)
	require.Len(t, colors, 9)

	// the cycle runs across the whole call, wrapping after seven
	for i, color := range colors {
		require.Equal(t, DefaultPalette[i%len(DefaultPalette)], color, "embed %d", i)
	}
}

func TestComposeMessagesEmptyPaletteFallsBack(t *testing.T) {
	morning := time.Date(2024, time.June, 14, 8, 0, 0, 0, time.UTC)
	days := []DayRecords{{Checkins: []*Record{{}, {}}}}

	for _, palette := range [][]int{nil, {}} {
		messages := ComposeMessages(morning, days, palette)
		colors := embedColors(messages)
		require.Equal(t, []int{DefaultPalette[0], DefaultPalette[1], DefaultPalette[2]}, colors)
	}
}

func TestComposeMessagesDayHeaders(t *testing.T) {
	morning := time.Date(2024, time.June, 14, 8, 0, 0, 0, time.UTC)

	messages := ComposeMessages(morning, []DayRecords{{}, {}, {}}, DefaultPalette)
	require.Equal(t, "__**Friday**__", messages[0].Content)
	require.Equal(t, "__**Saturday**__", messages[1].Content)
	require.Equal(t, "__**Sunday**__", messages[2].Content)
}

func TestCheckinEmbed(t *testing.T) {
	record := &Record{
		Name:   "Jane Doe",
		Room:   "Maple",
		Nights: "3",
		Guest:  "John Doe",
		Notes: []Note{
			{Name: "Allergies", Value: "no peanuts"},
		},
		Phones:        []string{"5551234567", "5559876543"},
		PreviousStays: "2 previous stays, last on Jun 1, 2024-Jun 3, 2024 in Maple",
	}

	cycle := &colorCycle{palette: DefaultPalette}
	embed := checkinEmbed(record, cycle)

	require.Equal(t, ":inbox_tray: Jane Doe :inbox_tray:", embed.Description)
	require.Equal(t, DefaultPalette[0], embed.Color)
	require.NotNil(t, embed.Footer)
	require.Equal(t, record.PreviousStays, embed.Footer.Text)

	require.Len(t, embed.Fields, 5)
	require.Equal(t, discord.Field{Name: "Room", Value: "Maple", Inline: true}, embed.Fields[0])
	require.Equal(t, discord.Field{Name: "Nights", Value: "3", Inline: true}, embed.Fields[1])
	require.Equal(t, discord.Field{Name: "Additional Guest Names", Value: "John Doe"}, embed.Fields[2])
	require.Equal(t, discord.Field{Name: "Allergies", Value: "no peanuts"}, embed.Fields[3])
	require.Equal(t, discord.Field{Name: "Phone", Value: "5551234567, 5559876543"}, embed.Fields[4])
}

func TestCheckinEmbedMinimal(t *testing.T) {
	record := &Record{Name: "Jane Doe", Room: "Maple", Nights: "1"}

	cycle := &colorCycle{palette: DefaultPalette}
	embed := checkinEmbed(record, cycle)

	require.Nil(t, embed.Footer)
	require.Len(t, embed.Fields, 2)
}

func TestCheckoutEmbed(t *testing.T) {
	morning := time.Date(2024, time.June, 14, 8, 0, 0, 0, time.UTC)
	days := []DayRecords{{
		Checkouts: []*Record{{Name: "Jane Doe", Room: "Maple", Amount: "$210.00"}},
	}}

	messages := ComposeMessages(morning, days, DefaultPalette)
	require.Len(t, messages[0].Embeds, 2)

	checkout := messages[0].Embeds[1]
	require.Equal(t, ":outbox_tray: Jane Doe :outbox_tray:", checkout.Description)
	require.Equal(t, discord.Field{Name: "Room", Value: "Maple", Inline: true}, checkout.Fields[0])
	require.Equal(t, discord.Field{Name: "Due", Value: "$210.00", Inline: true}, checkout.Fields[1])
}

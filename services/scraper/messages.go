package scraper

import (
	"fmt"
	"strings"
	"time"

	"bookitnow-backend/lib/discord"
)

// DefaultPalette is the embed color rotation. Seven muted colors so
// adjacent guests in one day's message stay distinguishable.
var DefaultPalette = []int{
	0x97A88E,
	0xB2222A,
	0xEF9D7F,
	0x027978,
	0xF9DBA5,
	0x6E2250,
	0x332823,
}

// colorCycle deals palette colors round-robin. It is owned by one
// ComposeMessages call and threaded through every embed it builds, so
// composing several days in one call is deterministic and reuse across
// calls is an explicit choice, not ambient state.
type colorCycle struct {
	palette []int
	index   int
}

func (c *colorCycle) next() int {
	if c.index >= len(c.palette) {
		c.index = 0
	}
	color := c.palette[c.index]
	c.index++
	return color
}

// ComposeMessages renders one notification message per scanned day,
// starting at the effective date (rolled forward under the day-before
// rule, consistent with the walk that produced the day sets).
func ComposeMessages(effective time.Time, days []DayRecords, palette []int) []discord.Message {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if IsDayBefore(effective) {
		effective = effective.AddDate(0, 0, 1)
	}

	cycle := &colorCycle{palette: palette}
	messages := make([]discord.Message, 0, len(days))
	for i, day := range days {
		date := effective.AddDate(0, 0, i)
		messages = append(messages, messageForDay(date, day, cycle))
	}
	return messages
}

func messageForDay(date time.Time, day DayRecords, cycle *colorCycle) discord.Message {
	message := discord.Message{
		Content: fmt.Sprintf("__**%s**__", Weekday(date)),
	}

	if len(day.Checkins) == 0 {
		message.Embeds = append(message.Embeds, discord.Embed{
			Description: ":inbox_tray: :x:",
			Color:       cycle.next(),
		})
	} else {
		for _, record := range day.Checkins {
			message.Embeds = append(message.Embeds, checkinEmbed(record, cycle))
		}
	}

	if len(day.Checkouts) == 0 {
		message.Embeds = append(message.Embeds, discord.Embed{
			Description: ":outbox_tray: :x:",
			Color:       cycle.next(),
		})
	} else {
		for _, record := range day.Checkouts {
			message.Embeds = append(message.Embeds, discord.Embed{
				Description: fmt.Sprintf(":outbox_tray: %s :outbox_tray:", record.Name),
				Color:       cycle.next(),
				Fields: []discord.Field{
					{Name: "Room", Value: record.Room, Inline: true},
					{Name: "Due", Value: record.Amount, Inline: true},
				},
			})
		}
	}

	return message
}

func checkinEmbed(record *Record, cycle *colorCycle) discord.Embed {
	embed := discord.Embed{
		Description: fmt.Sprintf(":inbox_tray: %s :inbox_tray:", record.Name),
		Color:       cycle.next(),
		Fields: []discord.Field{
			{Name: "Room", Value: record.Room, Inline: true},
			{Name: "Nights", Value: record.Nights, Inline: true},
		},
	}
	if record.PreviousStays != "" {
		embed.Footer = &discord.Footer{Text: record.PreviousStays}
	}
	if record.Guest != "" {
		embed.Fields = append(embed.Fields, discord.Field{
			Name: "Additional Guest Names", Value: record.Guest,
		})
	}
	for _, note := range record.Notes {
		embed.Fields = append(embed.Fields, discord.Field{
			Name: note.Name, Value: note.Value,
		})
	}
	if len(record.Phones) > 0 {
		embed.Fields = append(embed.Fields, discord.Field{
			Name: "Phone", Value: strings.Join(record.Phones, ", "),
		})
	}
	return embed
}

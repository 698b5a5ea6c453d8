package scraper

import (
	"log/slog"
	"time"
)

// ScrapeDate returns the effective scrape date, shifted by the
// requested number of days when a manual adjustment was passed in.
func ScrapeDate(now time.Time, adjustDays *int) time.Time {
	if adjustDays != nil && *adjustDays != 0 {
		adjusted := now.AddDate(0, 0, *adjustDays)
		slog.Info("adjusting scrape date",
			"from", now.Format(time.DateOnly),
			"by_days", *adjustDays,
			"to", adjusted.Format(time.DateOnly),
		)
		return adjusted
	}
	return now
}

// IsDayBefore reports whether the run happens on the evening before
// the business date it targets: past local noon, "today's" operations
// actually mean tomorrow. The check-in scan, the message dating and
// the blackout window all apply this rule independently and must
// agree.
func IsDayBefore(t time.Time) bool {
	return t.Hour() >= 12
}

// SearchDate formats a date the way the front desk date search control
// expects it typed.
func SearchDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// BlackoutDate formats a date the way the blackout grid's data-date
// attributes spell it.
func BlackoutDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Weekday is the header text for a day's notification message.
func Weekday(t time.Time) string {
	return t.Weekday().String()
}

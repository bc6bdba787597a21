// Package horizon classifies ticket urgency into time horizons.
package horizon

import (
	"fmt"
	"strings"
	"time"
)

// Horizon is a time-based urgency bucket.
type Horizon string

// Horizons in urgency order, most urgent first.
const (
	Now      Horizon = "now"
	Week     Horizon = "week"
	NextWeek Horizon = "next-week"
	Month    Horizon = "month"
	Year     Horizon = "year"
	Sometime Horizon = "sometime"
)

// All lists every horizon in urgency order.
var All = []Horizon{Now, Week, NextWeek, Month, Year, Sometime}

// DateLayout is the expected format for ticket due dates.
const DateLayout = "2006-01-02"

// labels maps horizons to display names.
var labels = map[Horizon]string{
	Now:      "Now — urgent",
	Week:     "This Week",
	NextWeek: "Next Week",
	Month:    "This / Next Month",
	Year:     "This Year",
	Sometime: "Sometime",
}

// Classify maps a due date to the best-matching horizon relative to today.
// Rules are evaluated in urgency order; the first match wins. Weeks start
// on Monday, so "week" covers the remaining days through Sunday.
func Classify(due, today time.Time) Horizon {
	due = truncate(due)
	today = truncate(today)

	delta := int(due.Sub(today).Hours() / 24)
	if delta <= 0 {
		return Now
	}

	// Days remaining until Sunday, with Monday as day 0.
	untilEndOfWeek := 6 - mondayIndex(today.Weekday())
	if delta <= untilEndOfWeek {
		return Week
	}
	if delta <= untilEndOfWeek+7 {
		return NextWeek
	}
	if delta <= 60 {
		return Month
	}

	endOfYear := time.Date(today.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	if !due.After(endOfYear) {
		return Year
	}

	return Sometime
}

// ClassifyDue parses a YYYY-MM-DD due date string and classifies it.
// Empty or unparseable strings map to Sometime.
func ClassifyDue(due string, today time.Time) Horizon {
	d, err := time.Parse(DateLayout, strings.TrimSpace(due))
	if err != nil {
		return Sometime
	}
	return Classify(d, today)
}

// ForPeriod returns the horizons relevant to a summary period.
// Unknown periods return every horizon.
func ForPeriod(period string) []Horizon {
	switch period {
	case "day":
		return []Horizon{Now}
	case "week":
		return []Horizon{Now, Week}
	case "month":
		return []Horizon{Now, Week, NextWeek, Month}
	case "year":
		return []Horizon{Now, Week, NextWeek, Month, Year}
	default:
		return All
	}
}

// Rank returns a sort key for a horizon; lower means more urgent.
// Unknown horizons sort last.
func Rank(h Horizon) int {
	for i, known := range All {
		if h == known {
			return i
		}
	}
	return len(All)
}

// Parse validates and normalizes a horizon string.
func Parse(s string) (Horizon, error) {
	h := Horizon(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range All {
		if h == known {
			return h, nil
		}
	}
	return "", fmt.Errorf("invalid horizon %q: must be one of %s", s, joinAll())
}

// Label returns the human-readable display name for a horizon.
func Label(h Horizon) string {
	if l, ok := labels[h]; ok {
		return l
	}
	return string(h)
}

func joinAll() string {
	parts := make([]string, len(All))
	for i, h := range All {
		parts[i] = string(h)
	}
	return strings.Join(parts, ", ")
}

// mondayIndex converts time.Weekday (Sunday=0) to a Monday=0 index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

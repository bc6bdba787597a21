package horizon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 2026-03-11; the week runs Monday 2026-03-09 through Sunday 2026-03-15.
var wednesday = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want Horizon
	}{
		{"today", wednesday, Now},
		{"overdue", wednesday.AddDate(0, 0, -3), Now},
		{"tomorrow", wednesday.AddDate(0, 0, 1), Week},
		{"end of week sunday", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), Week},
		{"next monday", time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), NextWeek},
		{"next sunday", time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC), NextWeek},
		{"in three weeks", wednesday.AddDate(0, 0, 21), Month},
		{"sixty days out", wednesday.AddDate(0, 0, 60), Month},
		{"later this year", wednesday.AddDate(0, 0, 61), Year},
		{"end of year", time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), Year},
		{"next year", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), Sometime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.due, wednesday))
		})
	}
}

func TestClassify_TotalOverWideRange(t *testing.T) {
	// Every date within a few years of today must land in exactly one bucket.
	for i := -400; i <= 800; i++ {
		h := Classify(wednesday.AddDate(0, 0, i), wednesday)
		assert.Contains(t, All, h, "day offset %d", i)
	}
}

func TestClassify_TimeOfDayIgnored(t *testing.T) {
	lateToday := time.Date(2026, 3, 11, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, Now, Classify(lateToday, wednesday))
}

func TestClassifyDue(t *testing.T) {
	assert.Equal(t, Now, ClassifyDue("2026-03-11", wednesday))
	assert.Equal(t, Week, ClassifyDue(" 2026-03-13 ", wednesday))
	assert.Equal(t, Sometime, ClassifyDue("", wednesday))
	assert.Equal(t, Sometime, ClassifyDue("not-a-date", wednesday))
	assert.Equal(t, Sometime, ClassifyDue("03/11/2026", wednesday))
}

func TestForPeriod_MonotonicByInclusion(t *testing.T) {
	periods := []string{"day", "week", "month", "year", "all"}

	prev := []Horizon{}
	for _, p := range periods {
		cur := ForPeriod(p)
		for _, h := range prev {
			assert.Contains(t, cur, h, "period %q should include everything from the narrower period", p)
		}
		require.Greater(t, len(cur), len(prev), "period %q should widen the set", p)
		prev = cur
	}

	assert.Equal(t, All, ForPeriod("all"))
	assert.Equal(t, All, ForPeriod("bogus"))
}

func TestRank(t *testing.T) {
	for i, h := range All {
		assert.Equal(t, i, Rank(h))
	}
	assert.Greater(t, Rank("unknown"), Rank(Sometime))
}

func TestParse(t *testing.T) {
	for _, h := range All {
		got, err := Parse(string(h))
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}

	got, err := Parse("  NEXT-WEEK ")
	require.NoError(t, err)
	assert.Equal(t, NextWeek, got)

	_, err = Parse("tomorrow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid horizon")
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "This Week", Label(Week))
	assert.Equal(t, "custom", Label(Horizon("custom")))
}

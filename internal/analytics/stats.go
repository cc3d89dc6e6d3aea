package analytics

import (
	"math"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

// YearStats summarizes the activity of one calendar year.
type YearStats struct {
	Year           int        `json:"year"`
	Total          int        `json:"total"`
	ActiveDays     int        `json:"active_days"`
	LongestStreak  int        `json:"longest_streak"`
	LongestGap     int        `json:"longest_gap"`
	WeekendPercent int        `json:"weekend_percent"`
	BusiestDay     DayCount   `json:"busiest_day"` // zero value when the year is empty
	Calendar       []DayCount `json:"calendar"`    // Jan 1 to Dec 31
}

// ComputeYearStats computes the statistics of year on the UTC calendar.
func ComputeYearStats(records []*domain.Record, year int) YearStats {
	return ComputeYearStatsIn(records, year, time.UTC)
}

// ComputeYearStatsIn computes the statistics of year with calendar days
// taken in loc. Deleted records are ignored.
func ComputeYearStatsIn(records []*domain.Record, year int, loc *time.Location) YearStats {
	if loc == nil {
		loc = time.UTC
	}
	counts := countByDay(records, loc)

	first := civilDay(year, time.January, 1)
	last := civilDay(year, time.December, 31)

	stats := YearStats{
		Year:     year,
		Calendar: make([]DayCount, 0, last-first+1),
	}

	var (
		weekend int
		active  []day
	)
	for d := first; d <= last; d++ {
		n := counts[d]
		stats.Calendar = append(stats.Calendar, DayCount{Date: d.String(), Count: n})
		if n == 0 {
			continue
		}
		active = append(active, d)
		stats.Total += n
		if d.weekend() {
			weekend += n
		}
		// strictly greater: ties keep the earliest day
		if n > stats.BusiestDay.Count {
			stats.BusiestDay = DayCount{Date: d.String(), Count: n}
		}
	}

	stats.ActiveDays = len(active)
	stats.LongestStreak = longestStreak(active)
	stats.LongestGap = longestGap(active)
	if stats.Total > 0 {
		stats.WeekendPercent = int(math.Round(float64(weekend) * 100 / float64(stats.Total)))
	}
	return stats
}

// longestStreak returns the longest run of consecutive days in the
// ascending sequence days.
func longestStreak(days []day) int {
	if len(days) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

// longestGap returns the most inactive days between two consecutive active days.
func longestGap(days []day) int {
	if len(days) < 2 {
		return 0
	}
	var widest day
	for i := 1; i < len(days); i++ {
		widest = max(widest, days[i]-days[i-1])
	}
	return int(widest - 1)
}

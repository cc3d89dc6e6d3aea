package analytics

import (
	"slices"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

// DateLayout is the format of DayCount.Date.
const DateLayout = "2006-01-02"

const secondsPerDay = 86400

// DayCount is the number of records created on one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// day numbers calendar days since 1970-01-01, so consecutive days differ by one.
type day int64

func dayOf(t time.Time, loc *time.Location) day {
	y, m, d := t.In(loc).Date()
	return civilDay(y, m, d)
}

func civilDay(year int, month time.Month, d int) day {
	return day(time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

func (d day) time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func (d day) String() string {
	return d.time().Format(DateLayout)
}

func (d day) weekend() bool {
	wd := d.time().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// countByDay counts live records per calendar day in loc.
func countByDay(records []*domain.Record, loc *time.Location) map[day]int {
	counts := make(map[day]int)
	for _, r := range records {
		if r == nil || r.Deleted {
			continue
		}
		counts[dayOf(r.CreatedAt, loc)]++
	}
	return counts
}

// DailyCounts returns the number of live records per day, keyed by YYYY-MM-DD.
func DailyCounts(records []*domain.Record, loc *time.Location) map[string]int {
	if loc == nil {
		loc = time.UTC
	}
	counts := countByDay(records, loc)
	out := make(map[string]int, len(counts))
	for d, n := range counts {
		out[d.String()] = n
	}
	return out
}

// Years lists the years holding at least one live record, newest first.
func Years(records []*domain.Record, loc *time.Location) []int {
	if loc == nil {
		loc = time.UTC
	}
	seen := make(map[int]struct{})
	for _, r := range records {
		if r == nil || r.Deleted {
			continue
		}
		seen[r.CreatedAt.In(loc).Year()] = struct{}{}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years
}

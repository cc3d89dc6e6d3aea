package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/analytics"
	"github.com/MrSnakeDoc/tweetvault/internal/domain"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

type yearsJSON struct {
	Category domain.Category `json:"category,omitempty"`
	Years    []int           `json:"years"`
}

type statsJSON struct {
	Category domain.Category `json:"category,omitempty"`
	TimeZone string          `json:"time_zone"`
	analytics.YearStats
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	category, err := domain.ParseCategoryFilter(c.Category)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.TZ, err)
	}

	ctx := context.Background()
	sess, closeFn, err := openSession(ctx, c.globals, c.store)
	if err != nil {
		return err
	}
	defer closeFn()

	records, err := store.List(ctx, sess.store, category)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	years := analytics.Years(records, loc)
	if c.Years {
		if c.globals.JSON {
			return printJSON(yearsJSON{Category: category, Years: years})
		}
		if len(years) == 0 {
			fmt.Println("No activity recorded.")
		}
		for _, y := range years {
			fmt.Println(y)
		}
		return nil
	}

	year := c.Year
	if year == 0 {
		year = time.Now().In(loc).Year()
		if len(years) > 0 {
			year = years[0]
		}
	}

	stats := analytics.ComputeYearStatsIn(records, year, loc)
	if c.globals.JSON {
		return printJSON(statsJSON{Category: category, TimeZone: loc.String(), YearStats: stats})
	}
	printStats(stats, category)
	return nil
}

func printStats(s analytics.YearStats, category domain.Category) {
	scope := "all categories"
	if category != "" {
		scope = string(category) + "s"
	}

	fmt.Printf("%d (%s)\n", s.Year, scope)
	fmt.Printf("  total:          %d\n", s.Total)
	fmt.Printf("  active days:    %d\n", s.ActiveDays)
	fmt.Printf("  longest streak: %s\n", plural(s.LongestStreak, "day"))
	fmt.Printf("  longest gap:    %s\n", plural(s.LongestGap, "day"))
	fmt.Printf("  weekend share:  %d%%\n", s.WeekendPercent)
	if s.BusiestDay.Count > 0 {
		fmt.Printf("  busiest day:    %s (%d)\n", s.BusiestDay.Date, s.BusiestDay.Count)
	}
}

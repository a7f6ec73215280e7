package stats

import (
	"sort"
	"time"

	"github.com/nwept/bggstats/internal/domain/dates"
	"github.com/nwept/bggstats/internal/domain/model"
)

// The histogram calendar always includes Feb 29; any leap year gives the
// right month lengths.
const leapYear = 2000

// DayTotal is one calendar day of the day-of-year play histogram.
type DayTotal struct {
	Month    time.Month
	Day      int
	Quantity int
}

// PlaysByCalendarDay aggregates play quantity per (month, day) across the
// entire play history, discarding the year component. The result is a dense
// 366-day calendar (Feb 29 included, 0 when never played on), ordered by
// ascending quantity and then calendar order, so the least-played days come
// first.
func PlaysByCalendarDay(plays []model.Play, games []model.Game, items []model.CollectionItem) []DayTotal {
	type monthDay struct {
		month time.Month
		day   int
	}
	totals := make(map[monthDay]int)
	for _, row := range joinPlays(plays, games, items, false) {
		for _, p := range row.plays {
			key := monthDay{month: p.Date.Month(), day: p.Date.Day()}
			totals[key] += p.Quantity
		}
	}

	out := make([]DayTotal, 0, 366)
	for month := time.January; month <= time.December; month++ {
		for day := 1; day <= dates.MonthLength(leapYear, month); day++ {
			out = append(out, DayTotal{
				Month:    month,
				Day:      day,
				Quantity: totals[monthDay{month: month, day: day}],
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity < out[j].Quantity
	})
	return out
}

package stats

import (
	"sort"
	"time"

	"github.com/nwept/bggstats/internal/domain/dates"
	"github.com/nwept/bggstats/internal/domain/model"
)

// Play-count milestones reported by the annual summary.
const (
	nickelPlays = 5
	dimePlays   = 10
)

// YearCount is a play total grouped by publication year. Year 0 collects
// games with no publication year in the catalog.
type YearCount struct {
	Year     int
	Quantity int
}

// GameCount is a single game's play total within the summary year.
type GameCount struct {
	Game     model.Game
	Rating   int
	Quantity int
}

// AnnualSummary is the multi-metric report for one calendar year. Counters
// are always present: a quiet year reports zeroes, not absent fields.
type AnnualSummary struct {
	Year              int
	TotalPlays        int // all joined plays in-year, expansions included
	NewToMe           int // games first played this year
	Nickels           int // games reaching >= 5 plays in-year
	Dimes             int // games reaching >= 10 plays in-year
	HIndex            int // h-index size over year-restricted plays
	ByPublicationYear []YearCount // quantity desc, then year desc
	ByGame            []GameCount // quantity desc, then name asc
}

// Annual composes the aggregator, h-index, and window classifiers into the
// yearly report for the given target year.
func Annual(plays []model.Play, games []model.Game, items []model.CollectionItem, year int) AnnualSummary {
	start, finish := dates.YearWindow(year)

	inYear := make([]model.Play, 0, len(plays))
	for _, p := range plays {
		if dates.InWindow(p.Date, start, finish) {
			inYear = append(inYear, p)
		}
	}

	summary := AnnualSummary{Year: year}

	// Raw volume counts every joined play, expansions included.
	for _, row := range joinPlays(inYear, games, items, true) {
		for _, p := range row.plays {
			summary.TotalPlays += p.Quantity
		}
	}

	summary.NewToMe = len(NewToMe(plays, games, items, start, finish))
	summary.HIndex = HIndexSize(AggregatePlays(inYear, time.Time{}), games, items)

	byYear := make(map[int]int)
	for _, row := range joinPlays(inYear, games, items, false) {
		total := 0
		for _, p := range row.plays {
			total += p.Quantity
		}
		if total >= nickelPlays {
			summary.Nickels++
		}
		if total >= dimePlays {
			summary.Dimes++
		}
		byYear[row.game.PublicationYear()] += total
		summary.ByGame = append(summary.ByGame, GameCount{
			Game:     row.game,
			Rating:   row.rating,
			Quantity: total,
		})
	}

	sort.SliceStable(summary.ByGame, func(i, j int) bool {
		if summary.ByGame[i].Quantity != summary.ByGame[j].Quantity {
			return summary.ByGame[i].Quantity > summary.ByGame[j].Quantity
		}
		return summary.ByGame[i].Game.Name < summary.ByGame[j].Game.Name
	})

	for y, q := range byYear {
		summary.ByPublicationYear = append(summary.ByPublicationYear, YearCount{Year: y, Quantity: q})
	}
	sort.Slice(summary.ByPublicationYear, func(i, j int) bool {
		if summary.ByPublicationYear[i].Quantity != summary.ByPublicationYear[j].Quantity {
			return summary.ByPublicationYear[i].Quantity > summary.ByPublicationYear[j].Quantity
		}
		return summary.ByPublicationYear[i].Year > summary.ByPublicationYear[j].Year
	})

	return summary
}

package stats

import (
	"sort"
	"time"

	"github.com/nwept/bggstats/internal/domain/dates"
	"github.com/nwept/bggstats/internal/domain/model"
)

// A gap must be strictly longer than this many days to count as dusty.
const dustGapDays = 365

// NewToMeEntry is a game whose first recorded play falls inside the window.
type NewToMeEntry struct {
	Game        model.Game
	Rating      int
	Quantity    int       // plays inside the window
	FirstPlayed time.Time // earliest in-window play date
}

// NewToMe finds games first played inside the inclusive [start, finish]
// window: zero plays dated before start and at least one play inside the
// window. A play dated exactly start or finish counts as inside. Output is
// ordered by descending rating, then ascending game id.
func NewToMe(plays []model.Play, games []model.Game, items []model.CollectionItem, start, finish time.Time) []NewToMeEntry {
	var out []NewToMeEntry
	for _, row := range joinPlays(plays, games, items, false) {
		before, during := 0, 0
		first := time.Time{}
		for _, p := range row.plays {
			switch {
			case p.Date.Before(start):
				before += p.Quantity
			case dates.InWindow(p.Date, start, finish):
				during += p.Quantity
				if first.IsZero() {
					first = p.Date
				}
			}
		}
		if before == 0 && during > 0 {
			out = append(out, NewToMeEntry{
				Game:        row.game,
				Rating:      row.rating,
				Quantity:    during,
				FirstPlayed: first,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return out
}

// DustEntry is a game replayed in-window after a gap of more than a year.
type DustEntry struct {
	Game        model.Game
	LastBefore  time.Time // most recent play strictly before the window
	FirstDuring time.Time // earliest play inside the window
	GapYears    int       // whole 365-day years in the gap
	GapDays     int       // remaining days in the gap
}

// OutOfTheDust finds games played inside the inclusive [start, finish]
// window after sitting unplayed for more than 365 days: a gap of exactly 365
// days does not qualify. Output is ordered by descending gap length, then
// ascending game id.
func OutOfTheDust(plays []model.Play, games []model.Game, items []model.CollectionItem, start, finish time.Time) []DustEntry {
	var out []DustEntry
	for _, row := range joinPlays(plays, games, items, false) {
		var lastBefore, firstDuring time.Time
		for _, p := range row.plays {
			switch {
			case p.Date.Before(start):
				if p.Date.After(lastBefore) {
					lastBefore = p.Date
				}
			case dates.InWindow(p.Date, start, finish):
				if firstDuring.IsZero() {
					firstDuring = p.Date
				}
			}
		}
		if lastBefore.IsZero() || firstDuring.IsZero() {
			continue
		}
		gap := dates.DaysBetween(lastBefore, firstDuring)
		if gap <= dustGapDays {
			continue
		}
		out = append(out, DustEntry{
			Game:        row.game,
			LastBefore:  lastBefore,
			FirstDuring: firstDuring,
			GapYears:    gap / dustGapDays,
			GapDays:     gap % dustGapDays,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		gi := out[i].GapYears*dustGapDays + out[i].GapDays
		gj := out[j].GapYears*dustGapDays + out[j].GapDays
		return gi > gj
	})
	return out
}

package stats

import (
	"sort"
	"time"

	"github.com/nwept/bggstats/internal/domain/model"
)

// AggregatePlays computes per-game play totals over the given plays.
// Plays dated after cutoff are excluded; a zero cutoff means no bound.
// Games with no qualifying plays are absent from the result: absence, not a
// zero row, means "never played in window". Output is ordered by ascending
// game id.
func AggregatePlays(plays []model.Play, cutoff time.Time) []model.PlayTotal {
	totals := make(map[int64]*model.PlayTotal)
	for _, p := range plays {
		if !cutoff.IsZero() && p.Date.After(cutoff) {
			continue
		}
		t, ok := totals[p.GameID]
		if !ok {
			totals[p.GameID] = &model.PlayTotal{GameID: p.GameID, Quantity: p.Quantity, Latest: p.Date}
			continue
		}
		t.Quantity += p.Quantity
		if p.Date.After(t.Latest) {
			t.Latest = p.Date
		}
	}

	out := make([]model.PlayTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out
}

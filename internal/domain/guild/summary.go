// Package guild summarises guild members' collections and drives the
// guild-level rating reports.
package guild

import (
	"math"
	"sort"

	"github.com/nwept/bggstats/internal/domain/model"
)

// extraRatings phantom ratings of 5 are mixed into each guild average to
// damp small sample sizes.
const (
	extraRatings  = 5
	phantomRating = 5
)

// GameSummary aggregates one game across all guild members' collections.
type GameSummary struct {
	GameID          int64
	Name            string
	Expansion       bool
	CopiesOwned     int
	BGGAverage      float64 // catalog-wide rating average
	GuildAverage    float64 // mean of guild members' ratings
	GuildStdDev     float64 // sample standard deviation of guild ratings
	GuildRatings    int     // number of guild members who rated the game
	AdjustedAverage float64 // guild average padded with phantom ratings
	VsBGG           float64 // guild average minus catalog average
}

// Summarize joins guild members with their collection items and the game
// catalog, producing one row per distinct game ordered by ascending game id.
// Collection items of non-members and items referencing unknown games are
// dropped.
func Summarize(members []model.GuildMember, items []model.CollectionItem, games []model.Game) []GameSummary {
	inGuild := make(map[string]bool, len(members))
	for _, m := range members {
		inGuild[m.Username] = true
	}
	gameIndex := make(map[int64]model.Game, len(games))
	for _, g := range games {
		gameIndex[g.ID] = g
	}

	type acc struct {
		owned   int
		ratings []float64
	}
	grouped := make(map[int64]*acc)
	for _, item := range items {
		if !inGuild[item.Username] {
			continue
		}
		if _, ok := gameIndex[item.GameID]; !ok {
			continue
		}
		a, ok := grouped[item.GameID]
		if !ok {
			a = &acc{}
			grouped[item.GameID] = a
		}
		if item.Owned {
			a.owned++
		}
		if item.Rating != nil {
			a.ratings = append(a.ratings, float64(*item.Rating))
		}
	}

	ids := make([]int64, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]GameSummary, 0, len(ids))
	for _, id := range ids {
		a := grouped[id]
		game := gameIndex[id]
		s := GameSummary{
			GameID:       id,
			Name:         game.Name,
			Expansion:    game.Expansion,
			CopiesOwned:  a.owned,
			GuildRatings: len(a.ratings),
		}
		if game.RatingAverage != nil {
			s.BGGAverage = *game.RatingAverage
		}
		s.GuildAverage = mean(a.ratings)
		s.GuildStdDev = sampleStdDev(a.ratings, s.GuildAverage)
		s.AdjustedAverage = adjustedAverage(s.GuildAverage, s.GuildRatings)
		s.VsBGG = s.GuildAverage - s.BGGAverage
		out = append(out, s)
	}
	return out
}

// adjustedAverage pads the guild average with extraRatings phantom ratings
// of phantomRating each.
func adjustedAverage(average float64, count int) float64 {
	total := average*float64(count) + phantomRating*extraRatings
	return total / float64(count+extraRatings)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sampleStdDev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

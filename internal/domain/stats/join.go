// Package stats implements the play-aggregation and ranking analytics:
// play totals, the h-index, window classifiers, and the annual summary.
//
// Every computation here is a pure function of an immutable snapshot of
// plays, games, and collection items. Identical inputs produce identical
// output, including ordering.
package stats

import (
	"sort"

	"github.com/nwept/bggstats/internal/domain/model"
)

// joinedGame is one game of the mandatory Play ⋈ Game ⋈ CollectionItem join.
// Plays referencing a game id missing from either side are silently dropped;
// catalog sync lag makes such rows expected, not fatal.
type joinedGame struct {
	game   model.Game
	rating int
	plays  []model.Play
}

// joinPlays groups plays by game across the three relations. Expansions are
// dropped unless keepExpansions is set. Result is ordered by ascending game
// id and each game's plays by ascending date (then play id).
func joinPlays(plays []model.Play, games []model.Game, items []model.CollectionItem, keepExpansions bool) []joinedGame {
	gameIndex := indexGames(games)
	itemIndex := indexCollection(items)

	byGame := make(map[int64][]model.Play)
	for _, p := range plays {
		byGame[p.GameID] = append(byGame[p.GameID], p)
	}

	ids := make([]int64, 0, len(byGame))
	for id := range byGame {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]joinedGame, 0, len(ids))
	for _, id := range ids {
		game, ok := gameIndex[id]
		if !ok {
			continue
		}
		item, ok := itemIndex[id]
		if !ok {
			continue
		}
		if game.Expansion && !keepExpansions {
			continue
		}
		gp := byGame[id]
		sort.Slice(gp, func(i, j int) bool {
			if !gp[i].Date.Equal(gp[j].Date) {
				return gp[i].Date.Before(gp[j].Date)
			}
			return gp[i].ID < gp[j].ID
		})
		rows = append(rows, joinedGame{game: game, rating: item.RatingValue(), plays: gp})
	}
	return rows
}

func indexGames(games []model.Game) map[int64]model.Game {
	idx := make(map[int64]model.Game, len(games))
	for _, g := range games {
		idx[g.ID] = g
	}
	return idx
}

func indexCollection(items []model.CollectionItem) map[int64]model.CollectionItem {
	idx := make(map[int64]model.CollectionItem, len(items))
	for _, c := range items {
		idx[c.GameID] = c
	}
	return idx
}

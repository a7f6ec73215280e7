package stats

import (
	"sort"
	"time"

	"github.com/nwept/bggstats/internal/domain/model"
)

// RankedGame is one row of the play-count ranking behind the h-index.
type RankedGame struct {
	Rank     int // 0-based position in the (quantity desc, latest asc) order
	Game     model.Game
	Quantity int
	Latest   time.Time
	Rating   int // collection rating, 0 when unrated
}

// HIndex ranks the given play totals and splits them into h-index members
// and near misses.
//
// Totals are joined against games and collection items (rows missing from
// either side are dropped) and expansions are excluded. The remainder is
// ordered by descending quantity, ties broken by the earlier latest-play
// date. A game at 0-based rank h is in the index when h < quantity, the
// classic membership test: at least h+1 games with at least h+1 plays each.
// Games that fail the test are reported as near misses only when rated at
// the maximum collection rating.
func HIndex(totals []model.PlayTotal, games []model.Game, items []model.CollectionItem) (inIndex, nearMisses []RankedGame) {
	gameIndex := indexGames(games)
	itemIndex := indexCollection(items)

	ranked := make([]RankedGame, 0, len(totals))
	for _, t := range totals {
		game, ok := gameIndex[t.GameID]
		if !ok {
			continue
		}
		item, ok := itemIndex[t.GameID]
		if !ok {
			continue
		}
		if game.Expansion {
			continue
		}
		ranked = append(ranked, RankedGame{
			Game:     game,
			Quantity: t.Quantity,
			Latest:   t.Latest,
			Rating:   item.RatingValue(),
		})
	}

	// Stable over the game-id order of the input keeps equal rows deterministic.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].Latest.Before(ranked[j].Latest)
	})

	for i := range ranked {
		ranked[i].Rank = i
		if ranked[i].Rank < ranked[i].Quantity {
			inIndex = append(inIndex, ranked[i])
		} else if ranked[i].Rating == model.MaxRating {
			nearMisses = append(nearMisses, ranked[i])
		}
	}
	return inIndex, nearMisses
}

// HIndexSize returns just the size of the h-index over the given totals.
func HIndexSize(totals []model.PlayTotal, games []model.Game, items []model.CollectionItem) int {
	inIndex, _ := HIndex(totals, games, items)
	return len(inIndex)
}

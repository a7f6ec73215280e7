package stats

import (
	"time"

	"github.com/nwept/bggstats/internal/domain/dates"
	"github.com/nwept/bggstats/internal/domain/model"
)

// Archaeologist bucket geometry.
const (
	rankBucketWidth = 1000
	minRankBuckets  = 10
)

// YearHighlight is the earliest play, within a target year, of any game
// published in Year. Game is nil for publication years with no qualifying
// play; the report is a dense sequence.
type YearHighlight struct {
	Year   int
	Game   *model.Game
	Played time.Time
}

// ThroughTheYears reports, for each publication year from startYear through
// targetYear, the first game of that vintage played during the target
// calendar year. Every year in the range appears; years without a qualifying
// play carry a nil Game.
func ThroughTheYears(plays []model.Play, games []model.Game, items []model.CollectionItem, startYear, targetYear int) []YearHighlight {
	windowStart, windowFinish := dates.YearWindow(targetYear)

	earliest := make(map[int]YearHighlight)
	for _, row := range joinPlays(plays, games, items, false) {
		pubYear := row.game.PublicationYear()
		if pubYear < startYear || pubYear > targetYear {
			continue
		}
		for _, p := range row.plays {
			if !dates.InWindow(p.Date, windowStart, windowFinish) {
				continue
			}
			cur, ok := earliest[pubYear]
			if !ok || p.Date.Before(cur.Played) {
				game := row.game
				earliest[pubYear] = YearHighlight{Year: pubYear, Game: &game, Played: p.Date}
			}
			break // plays are date-ordered; only the first in-window one matters
		}
	}

	out := make([]YearHighlight, 0, targetYear-startYear+1)
	for year := startYear; year <= targetYear; year++ {
		if hl, ok := earliest[year]; ok {
			out = append(out, hl)
		} else {
			out = append(out, YearHighlight{Year: year})
		}
	}
	return out
}

// RankBucket is one catalog-rank bin of the archaeologist report. Game is
// the earliest game from the bin played in the target year, nil when the bin
// saw no play.
type RankBucket struct {
	Low    int // inclusive
	High   int // inclusive
	Game   *model.Game
	Played time.Time
}

// Archaeologist bins games played in the target year by catalog rank into
// buckets of 1000 starting at rank 1, reporting the earliest-played game per
// bucket. The sequence is dense from rank 1 through at least 10000, extended
// to cover the maximum observed rank rounded up to a full bucket. Unranked
// games are skipped.
func Archaeologist(plays []model.Play, games []model.Game, items []model.CollectionItem, targetYear int) []RankBucket {
	windowStart, windowFinish := dates.YearWindow(targetYear)

	type dig struct {
		game   model.Game
		rank   int
		played time.Time
	}
	found := make(map[int]dig)
	maxRank := 0
	for _, row := range joinPlays(plays, games, items, false) {
		if row.game.Rank == nil {
			continue
		}
		rank := *row.game.Rank
		for _, p := range row.plays {
			if !dates.InWindow(p.Date, windowStart, windowFinish) {
				continue
			}
			if rank > maxRank {
				maxRank = rank
			}
			bucket := (rank - 1) / rankBucketWidth
			cur, ok := found[bucket]
			if !ok || p.Date.Before(cur.played) || (p.Date.Equal(cur.played) && rank < cur.rank) {
				found[bucket] = dig{game: row.game, rank: rank, played: p.Date}
			}
			break
		}
	}

	buckets := minRankBuckets
	if n := (maxRank + rankBucketWidth - 1) / rankBucketWidth; n > buckets {
		buckets = n
	}

	out := make([]RankBucket, 0, buckets)
	for i := 0; i < buckets; i++ {
		b := RankBucket{Low: i*rankBucketWidth + 1, High: (i + 1) * rankBucketWidth}
		if d, ok := found[i]; ok {
			game := d.game
			b.Game = &game
			b.Played = d.played
		}
		out = append(out, b)
	}
	return out
}

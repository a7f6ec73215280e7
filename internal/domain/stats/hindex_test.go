package stats_test

import (
	"testing"
	"time"

	"github.com/nwept/bggstats/internal/domain/dates"
	"github.com/nwept/bggstats/internal/domain/model"
	"github.com/nwept/bggstats/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(n int) *int { return &n }

func game(id int64, name string) model.Game {
	return model.Game{ID: id, Name: name}
}

func expansion(id int64, name string) model.Game {
	return model.Game{ID: id, Name: name, Expansion: true}
}

func collected(gameID int64) model.CollectionItem {
	return model.CollectionItem{Username: "tester", GameID: gameID, Owned: true}
}

func rated(gameID int64, rating int) model.CollectionItem {
	item := collected(gameID)
	item.Rating = intPtr(rating)
	return item
}

func total(gameID int64, quantity int, latest time.Time) model.PlayTotal {
	return model.PlayTotal{GameID: gameID, Quantity: quantity, Latest: latest}
}

func TestHIndex(t *testing.T) {
	Convey("Given ranked play totals", t, func() {
		games := []model.Game{
			game(1, "Alpha"), game(2, "Bravo"), game(3, "Charlie"),
			game(4, "Delta"), game(5, "Echo"),
		}
		items := []model.CollectionItem{
			collected(1), collected(2), collected(3), rated(4, 10), rated(5, 7),
		}
		totals := []model.PlayTotal{
			total(1, 5, dates.Day(2023, time.March, 1)),
			total(2, 4, dates.Day(2023, time.April, 1)),
			total(3, 4, dates.Day(2023, time.February, 1)),
			total(4, 2, dates.Day(2023, time.May, 1)),
			total(5, 1, dates.Day(2023, time.June, 1)),
		}

		Convey("When computing the h-index", func() {
			inIndex, nearMisses := stats.HIndex(totals, games, items)

			Convey("Then membership follows rank < quantity", func() {
				// 5,4,4 at ranks 0,1,2 are in; 2 at rank 3 and 1 at rank 4 are out.
				So(inIndex, ShouldHaveLength, 3)
				So(stats.HIndexSize(totals, games, items), ShouldEqual, 3)
			})

			Convey("And ties break on the earlier latest-play date", func() {
				So(inIndex[0].Game.ID, ShouldEqual, 1)
				So(inIndex[1].Game.ID, ShouldEqual, 3)
				So(inIndex[2].Game.ID, ShouldEqual, 2)
			})

			Convey("And only max-rated failures are near misses", func() {
				So(nearMisses, ShouldHaveLength, 1)
				So(nearMisses[0].Game.ID, ShouldEqual, 4)
				So(nearMisses[0].Rank, ShouldEqual, 3)
			})
		})

		Convey("When a game is missing from the collection", func() {
			short := []model.CollectionItem{collected(1)}
			inIndex, nearMisses := stats.HIndex(totals, games, short)

			Convey("Then unjoined totals are dropped", func() {
				So(inIndex, ShouldHaveLength, 1)
				So(inIndex[0].Game.ID, ShouldEqual, 1)
				So(nearMisses, ShouldBeEmpty)
			})
		})

		Convey("When a total belongs to an expansion", func() {
			withExp := append([]model.Game{expansion(6, "Alpha: North")}, games...)
			withExpItems := append([]model.CollectionItem{collected(6)}, items...)
			withExpTotals := append([]model.PlayTotal{total(6, 9, dates.Day(2023, time.July, 1))}, totals...)

			inIndex, _ := stats.HIndex(withExpTotals, withExp, withExpItems)

			Convey("Then the expansion never ranks", func() {
				for _, r := range inIndex {
					So(r.Game.ID, ShouldNotEqual, 6)
				}
				So(inIndex, ShouldHaveLength, 3)
			})
		})

		Convey("When there are no totals", func() {
			inIndex, nearMisses := stats.HIndex(nil, games, items)

			Convey("Then both slices are empty", func() {
				So(inIndex, ShouldBeEmpty)
				So(nearMisses, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a single heavily played game", t, func() {
		games := []model.Game{game(1, "Alpha")}
		items := []model.CollectionItem{collected(1)}
		totals := []model.PlayTotal{total(1, 6, dates.Day(2023, time.March, 1))}

		Convey("Then the h-index is one, not six", func() {
			So(stats.HIndexSize(totals, games, items), ShouldEqual, 1)
		})
	})
}

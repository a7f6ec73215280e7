package guild_test

import (
	"testing"

	"github.com/nwept/bggstats/internal/domain/guild"
	"github.com/nwept/bggstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func member(name string) model.GuildMember {
	return model.GuildMember{GuildID: 901, Username: name}
}

func item(username string, gameID int64, rating int) model.CollectionItem {
	it := model.CollectionItem{Username: username, GameID: gameID, Owned: true}
	if rating > 0 {
		it.Rating = intPtr(rating)
	}
	return it
}

func TestSummarize(t *testing.T) {
	Convey("Given a guild with three members", t, func() {
		members := []model.GuildMember{member("ann"), member("ben"), member("cat")}
		games := []model.Game{
			{ID: 1, Name: "Alpha", RatingAverage: floatPtr(7.5)},
			{ID: 2, Name: "Bravo"},
		}

		Convey("When members rated the same game", func() {
			items := []model.CollectionItem{
				item("ann", 1, 8),
				item("ben", 1, 6),
				item("cat", 1, 10),
			}
			summaries := guild.Summarize(members, items, games)

			Convey("Then the row aggregates ownership and ratings", func() {
				So(summaries, ShouldHaveLength, 1)
				s := summaries[0]
				So(s.GameID, ShouldEqual, 1)
				So(s.CopiesOwned, ShouldEqual, 3)
				So(s.GuildRatings, ShouldEqual, 3)
				So(s.GuildAverage, ShouldAlmostEqual, 8.0, 1e-9)
				So(s.GuildStdDev, ShouldAlmostEqual, 2.0, 1e-9)
			})

			Convey("And the adjusted average pads with five phantom fives", func() {
				// (8*3 + 5*5) / (3+5) = 49/8
				So(summaries[0].AdjustedAverage, ShouldAlmostEqual, 6.125, 1e-9)
			})

			Convey("And the catalog comparison uses the raw average", func() {
				So(summaries[0].VsBGG, ShouldAlmostEqual, 0.5, 1e-9)
			})
		})

		Convey("When a game is owned but never rated", func() {
			items := []model.CollectionItem{item("ann", 2, 0)}
			summaries := guild.Summarize(members, items, games)

			Convey("Then averages are zero, not NaN", func() {
				So(summaries, ShouldHaveLength, 1)
				So(summaries[0].GuildAverage, ShouldEqual, 0)
				So(summaries[0].GuildStdDev, ShouldEqual, 0)
				So(summaries[0].AdjustedAverage, ShouldAlmostEqual, 5.0, 1e-9)
			})
		})

		Convey("When a single member rated a game", func() {
			items := []model.CollectionItem{item("ann", 1, 9)}
			summaries := guild.Summarize(members, items, games)

			Convey("Then the standard deviation stays zero", func() {
				So(summaries[0].GuildRatings, ShouldEqual, 1)
				So(summaries[0].GuildStdDev, ShouldEqual, 0)
			})
		})

		Convey("When items belong to a non-member or an unknown game", func() {
			items := []model.CollectionItem{
				item("stranger", 1, 10),
				item("ann", 99, 10),
				item("ann", 1, 7),
			}
			summaries := guild.Summarize(members, items, games)

			Convey("Then only member-owned known games survive", func() {
				So(summaries, ShouldHaveLength, 1)
				So(summaries[0].GuildRatings, ShouldEqual, 1)
				So(summaries[0].GuildAverage, ShouldAlmostEqual, 7.0, 1e-9)
			})
		})

		Convey("When several games are summarized", func() {
			items := []model.CollectionItem{
				item("ann", 2, 6),
				item("ben", 1, 8),
			}
			summaries := guild.Summarize(members, items, games)

			Convey("Then rows order by ascending game id", func() {
				So(summaries, ShouldHaveLength, 2)
				So(summaries[0].GameID, ShouldEqual, 1)
				So(summaries[1].GameID, ShouldEqual, 2)
			})
		})
	})
}

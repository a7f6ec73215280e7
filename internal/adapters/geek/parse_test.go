package geek

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/nwept/bggstats/internal/domain/dates"
	. "github.com/smartystreets/goconvey/convey"
)

const collectionXML = `<?xml version="1.0" encoding="utf-8"?>
<items totalitems="3">
  <item objecttype="thing" objectid="822">
    <name>Carcassonne</name>
    <status own="1" wanttoplay="0"/>
    <stats><rating value="7.5"><average value="7.41"/></rating></stats>
  </item>
  <item objecttype="thing" objectid="13">
    <name>Catan</name>
    <status own="0"/>
    <stats><rating value="N/A"/></stats>
  </item>
  <item objecttype="thing" objectid="9209">
    <name>Ticket to Ride</name>
    <status own="1"/>
    <stats><rating value="10"/></stats>
  </item>
</items>`

const playsXML = `<?xml version="1.0" encoding="utf-8"?>
<plays username="tester" total="2" page="1">
  <play id="100" date="2023-05-01" quantity="2">
    <item name="Carcassonne" objectid="822"/>
  </play>
  <play id="101" date="2023-05-02" quantity="0">
    <item name="Catan" objectid="13"/>
  </play>
</plays>`

const thingsXML = `<?xml version="1.0" encoding="utf-8"?>
<items>
  <item type="boardgame" id="822">
    <name type="primary" sortindex="1" value="Carcassonne"/>
    <name type="alternate" sortindex="1" value="Carcassonne Jubilee"/>
    <yearpublished value="2000"/>
    <minplayers value="2"/>
    <maxplayers value="5"/>
    <playingtime value="45"/>
    <statistics>
      <ratings>
        <average value="7.41"/>
        <averageweight value="1.89"/>
        <ranks>
          <rank type="subdomain" name="familygames" value="30"/>
          <rank type="family" name="boardgame" value="221"/>
        </ranks>
      </ratings>
    </statistics>
  </item>
  <item type="boardgameexpansion" id="822001">
    <name type="primary" value="Carcassonne: The River"/>
    <yearpublished value="0"/>
    <statistics>
      <ratings>
        <average value="0"/>
        <averageweight value="0"/>
        <ranks>
          <rank type="family" name="boardgame" value="Not Ranked"/>
        </ranks>
      </ratings>
    </statistics>
  </item>
</items>`

const guildXML = `<?xml version="1.0" encoding="utf-8"?>
<guild id="901" name="Testers">
  <members count="2" page="1">
    <member name="ann" date="2020-01-01"/>
    <member name="ben" date="2021-02-02"/>
  </members>
</guild>`

const threadXML = `<?xml version="1.0" encoding="utf-8"?>
<thread id="555" numarticles="2" link="https://example.test/thread/555">
  <subject> Sign-up thread </subject>
  <articles>
    <article id="1" username="ann" link="https://example.test/article/1"
      postdate="2023-01-02T10:00:00-05:00" editdate="2023-01-02T10:00:00-05:00" numedits="0">
      <body>count me in</body>
    </article>
    <article id="2" username="ben" link="https://example.test/article/2"
      postdate="not a date" editdate="" numedits="1">
      <body>me too</body>
    </article>
  </articles>
</thread>`

func TestCollectionParsing(t *testing.T) {
	Convey("Given a collection document", t, func() {
		var doc collectionDoc
		So(xml.Unmarshal([]byte(collectionXML), &doc), ShouldBeNil)

		Convey("When converting to collection items", func() {
			items := doc.items("tester")

			Convey("Then every item carries the username and ownership", func() {
				So(items, ShouldHaveLength, 3)
				So(items[0].Username, ShouldEqual, "tester")
				So(items[0].GameID, ShouldEqual, 822)
				So(items[0].Owned, ShouldBeTrue)
				So(items[1].Owned, ShouldBeFalse)
			})

			Convey("And fractional ratings round to the nearest step", func() {
				So(items[0].Rating, ShouldNotBeNil)
				So(*items[0].Rating, ShouldEqual, 8)
			})

			Convey("And an unrated item has a nil rating", func() {
				So(items[1].Rating, ShouldBeNil)
			})

			Convey("And a ten stays a ten", func() {
				So(*items[2].Rating, ShouldEqual, 10)
			})
		})
	})
}

func TestPlaysParsing(t *testing.T) {
	Convey("Given a plays document", t, func() {
		var doc playsDoc
		So(xml.Unmarshal([]byte(playsXML), &doc), ShouldBeNil)

		Convey("When converting to plays", func() {
			plays, err := doc.plays("tester")

			Convey("Then dates and game ids are carried through", func() {
				So(err, ShouldBeNil)
				So(plays, ShouldHaveLength, 2)
				So(doc.total(), ShouldEqual, 2)
				So(plays[0].ID, ShouldEqual, 100)
				So(plays[0].GameID, ShouldEqual, 822)
				So(plays[0].Date, ShouldEqual, dates.Day(2023, time.May, 1))
				So(plays[0].Quantity, ShouldEqual, 2)
			})

			Convey("And a zero quantity is clamped to one", func() {
				So(plays[1].Quantity, ShouldEqual, 1)
			})
		})
	})
}

func TestThingsParsing(t *testing.T) {
	Convey("Given a things document", t, func() {
		var doc thingsDoc
		So(xml.Unmarshal([]byte(thingsXML), &doc), ShouldBeNil)

		Convey("When converting to games", func() {
			games := doc.games()
			So(games, ShouldHaveLength, 2)

			Convey("Then the primary name and numeric fields are parsed", func() {
				g := games[0]
				So(g.ID, ShouldEqual, 822)
				So(g.Name, ShouldEqual, "Carcassonne")
				So(g.Expansion, ShouldBeFalse)
				So(*g.Year, ShouldEqual, 2000)
				So(*g.MinPlayers, ShouldEqual, 2)
				So(*g.MaxPlayers, ShouldEqual, 5)
				So(*g.PlayingTime, ShouldEqual, 45)
				So(*g.RatingAverage, ShouldAlmostEqual, 7.41, 1e-9)
				So(*g.Weight, ShouldAlmostEqual, 1.89, 1e-9)
			})

			Convey("And only the overall boardgame rank is kept", func() {
				So(*games[0].Rank, ShouldEqual, 221)
			})

			Convey("And placeholder values become nil", func() {
				g := games[1]
				So(g.Expansion, ShouldBeTrue)
				So(g.Year, ShouldBeNil)
				So(g.Rank, ShouldBeNil)
				So(g.RatingAverage, ShouldBeNil)
			})
		})
	})
}

func TestGuildParsing(t *testing.T) {
	Convey("Given a guild document", t, func() {
		var doc guildDoc
		So(xml.Unmarshal([]byte(guildXML), &doc), ShouldBeNil)

		Convey("Then member names and the total are available", func() {
			So(doc.Members.Count, ShouldEqual, "2")
			So(doc.Members.Members, ShouldHaveLength, 2)
			So(doc.Members.Members[0].Name, ShouldEqual, "ann")
		})
	})
}

func TestThreadParsing(t *testing.T) {
	Convey("Given a thread document", t, func() {
		var doc threadDoc
		So(xml.Unmarshal([]byte(threadXML), &doc), ShouldBeNil)

		Convey("When converting to a thread", func() {
			thread := doc.thread()

			Convey("Then the subject is trimmed and articles carried over", func() {
				So(thread.ID, ShouldEqual, 555)
				So(thread.Subject, ShouldEqual, "Sign-up thread")
				So(thread.Articles, ShouldHaveLength, 2)
				So(thread.Articles[0].Username, ShouldEqual, "ann")
				So(thread.Articles[0].PostDate.IsZero(), ShouldBeFalse)
			})

			Convey("And unparseable timestamps become zero times", func() {
				So(thread.Articles[1].PostDate.IsZero(), ShouldBeTrue)
				So(thread.Articles[1].EditDate.IsZero(), ShouldBeTrue)
			})
		})
	})
}

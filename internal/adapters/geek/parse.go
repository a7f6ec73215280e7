package geek

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nwept/bggstats/internal/domain/dates"
	"github.com/nwept/bggstats/internal/domain/model"
)

// XML documents of the catalog API. Attribute values that may carry
// placeholders ("N/A", "Not Ranked") are decoded as strings and converted
// by the helpers below.

type collectionDoc struct {
	Items []struct {
		ObjectID int64 `xml:"objectid,attr"`
		Status   struct {
			Own string `xml:"own,attr"`
		} `xml:"status"`
		Stats struct {
			Rating struct {
				Value string `xml:"value,attr"`
			} `xml:"rating"`
		} `xml:"stats"`
	} `xml:"item"`
}

type playsDoc struct {
	Total string `xml:"total,attr"`
	Plays []struct {
		ID       int64  `xml:"id,attr"`
		Date     string `xml:"date,attr"`
		Quantity int    `xml:"quantity,attr"`
		Item     struct {
			ObjectID int64 `xml:"objectid,attr"`
		} `xml:"item"`
	} `xml:"play"`
}

type thingsDoc struct {
	Items []struct {
		ID    int64  `xml:"id,attr"`
		Type  string `xml:"type,attr"`
		Names []struct {
			Type  string `xml:"type,attr"`
			Value string `xml:"value,attr"`
		} `xml:"name"`
		YearPublished valueAttr `xml:"yearpublished"`
		MinPlayers    valueAttr `xml:"minplayers"`
		MaxPlayers    valueAttr `xml:"maxplayers"`
		PlayingTime   valueAttr `xml:"playingtime"`
		Statistics    struct {
			Ratings struct {
				Average       valueAttr `xml:"average"`
				AverageWeight valueAttr `xml:"averageweight"`
				Ranks         struct {
					Ranks []struct {
						Name  string `xml:"name,attr"`
						Value string `xml:"value,attr"`
					} `xml:"rank"`
				} `xml:"ranks"`
			} `xml:"ratings"`
		} `xml:"statistics"`
	} `xml:"item"`
}

type guildDoc struct {
	Members struct {
		Count   string `xml:"count,attr"`
		Members []struct {
			Name string `xml:"name,attr"`
		} `xml:"member"`
	} `xml:"members"`
}

type threadDoc struct {
	ID       int64  `xml:"id,attr"`
	Link     string `xml:"link,attr"`
	Subject  string `xml:"subject"`
	Articles struct {
		Articles []struct {
			ID       int64  `xml:"id,attr"`
			Username string `xml:"username,attr"`
			Link     string `xml:"link,attr"`
			PostDate string `xml:"postdate,attr"`
			EditDate string `xml:"editdate,attr"`
			NumEdits int    `xml:"numedits,attr"`
		} `xml:"article"`
	} `xml:"articles"`
}

type valueAttr struct {
	Value string `xml:"value,attr"`
}

// Thread is a forum thread with its articles, used to pick up members who
// posted in a sign-up thread.
type Thread struct {
	ID       int64
	Link     string
	Subject  string
	Articles []Article
}

// Article is a single post in a forum thread.
type Article struct {
	ID       int64
	Username string
	Link     string
	PostDate time.Time
	EditDate time.Time
	NumEdits int
}

func (d collectionDoc) items(username string) []model.CollectionItem {
	out := make([]model.CollectionItem, 0, len(d.Items))
	for _, item := range d.Items {
		out = append(out, model.CollectionItem{
			Username: username,
			GameID:   item.ObjectID,
			Owned:    item.Status.Own == "1",
			Rating:   parseRating(item.Stats.Rating.Value),
		})
	}
	return out
}

func (d playsDoc) total() int {
	n, _ := strconv.Atoi(d.Total)
	return n
}

func (d playsDoc) plays(username string) ([]model.Play, error) {
	out := make([]model.Play, 0, len(d.Plays))
	for _, p := range d.Plays {
		day, err := dates.Parse(p.Date)
		if err != nil {
			return nil, err
		}
		quantity := p.Quantity
		if quantity < 1 {
			quantity = 1
		}
		out = append(out, model.Play{
			ID:       p.ID,
			Username: username,
			GameID:   p.Item.ObjectID,
			Date:     day,
			Quantity: quantity,
		})
	}
	return out, nil
}

func (d thingsDoc) games() []model.Game {
	out := make([]model.Game, 0, len(d.Items))
	for _, item := range d.Items {
		g := model.Game{
			ID:            item.ID,
			Expansion:     item.Type == "boardgameexpansion",
			MinPlayers:    parseIntPtr(item.MinPlayers.Value),
			MaxPlayers:    parseIntPtr(item.MaxPlayers.Value),
			PlayingTime:   parseIntPtr(item.PlayingTime.Value),
			RatingAverage: parseFloatPtr(item.Statistics.Ratings.Average.Value),
			Weight:        parseFloatPtr(item.Statistics.Ratings.AverageWeight.Value),
			Year:          parseIntPtr(item.YearPublished.Value),
		}
		for _, name := range item.Names {
			if name.Type == "primary" {
				g.Name = name.Value
				break
			}
		}
		if g.Name == "" && len(item.Names) > 0 {
			g.Name = item.Names[0].Value
		}
		for _, rank := range item.Statistics.Ratings.Ranks.Ranks {
			if rank.Name == "boardgame" {
				g.Rank = parseIntPtr(rank.Value)
				break
			}
		}
		out = append(out, g)
	}
	return out
}

func (d threadDoc) thread() Thread {
	t := Thread{
		ID:       d.ID,
		Link:     d.Link,
		Subject:  strings.TrimSpace(d.Subject),
		Articles: make([]Article, 0, len(d.Articles.Articles)),
	}
	for _, a := range d.Articles.Articles {
		t.Articles = append(t.Articles, Article{
			ID:       a.ID,
			Username: a.Username,
			Link:     a.Link,
			PostDate: parseArticleTime(a.PostDate),
			EditDate: parseArticleTime(a.EditDate),
			NumEdits: a.NumEdits,
		})
	}
	return t
}

// parseRating converts a collection rating attribute to an integer rating,
// nil for absent or "N/A". Fractional ratings round to the nearest step.
func parseRating(s string) *int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return nil
	}
	r := int(math.Round(f))
	if r < 1 {
		r = 1
	}
	if r > model.MaxRating {
		r = model.MaxRating
	}
	return &r
}

// parseIntPtr converts a numeric attribute, nil for absent, zero, or
// placeholder values like "Not Ranked".
func parseIntPtr(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return nil
	}
	return &n
}

func parseFloatPtr(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f == 0 {
		return nil
	}
	return &f
}

func parseArticleTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

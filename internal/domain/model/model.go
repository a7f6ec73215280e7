// Package model contains domain models passed between layers.
package model

import "time"

// MaxRating is the highest rating a collection item can carry.
const MaxRating = 10

// Play represents one or more logged sessions of a game on a single day.
type Play struct {
	ID       int64     // unique play id assigned by the catalog
	Username string    // owner of the play record
	GameID   int64     // played game
	Date     time.Time // calendar day, normalized to UTC midnight
	Quantity int       // number of sessions that day, >= 1
}

// Game holds catalog metadata for a single game or expansion.
// Nullable catalog fields are pointers; nil means the catalog has no value.
type Game struct {
	ID            int64
	Name          string
	Expansion     bool
	MinPlayers    *int
	MaxPlayers    *int
	PlayingTime   *int
	Rank          *int // overall catalog rank, lower is more popular
	RatingAverage *float64
	Weight        *float64
	Year          *int // publication year
}

// CollectionItem is a single (user, game) entry in a user's collection.
// Rating is nil when the user has not rated the game.
type CollectionItem struct {
	Username string
	GameID   int64
	Owned    bool
	Rating   *int
}

// GuildMember associates a username with a guild.
type GuildMember struct {
	GuildID  int64
	Username string
}

// PlayTotal is the per-game aggregate over a selected subset of plays.
// A game with zero qualifying plays has no PlayTotal at all.
type PlayTotal struct {
	GameID   int64
	Quantity int       // summed quantity, >= 1
	Latest   time.Time // most recent qualifying play date
}

// RatingValue returns the item rating, or 0 when unrated.
func (c CollectionItem) RatingValue() int {
	if c.Rating == nil {
		return 0
	}
	return *c.Rating
}

// PublicationYear returns the game's publication year, or 0 when unknown.
func (g Game) PublicationYear() int {
	if g.Year == nil {
		return 0
	}
	return *g.Year
}

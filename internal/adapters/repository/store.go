// Package repository persists catalog, collection, and play data in a local
// SQLite database and exposes the snapshot boundary the analytics read from.
package repository

import (
	"context"
	"time"

	"github.com/nwept/bggstats/internal/domain/model"
)

// Snapshot is an immutable view of one user's data: their plays and
// collection items plus the full game catalog. Games are not filtered by
// ownership here; the mandatory join happens downstream.
type Snapshot struct {
	Plays      []model.Play
	Games      []model.Game
	Collection []model.CollectionItem
}

// Store provides read/write access to the local database.
type Store interface {
	// Snapshot loads the analytics input for a user. When asOf is non-zero,
	// plays dated after it are excluded (inclusive upper bound). Failures
	// are reported as ErrDataUnavailable.
	Snapshot(ctx context.Context, username string, asOf time.Time) (Snapshot, error)

	// GuildMembers returns the stored member list of a guild.
	GuildMembers(ctx context.Context, guildID int64) ([]model.GuildMember, error)
	// UpdateGuildMembers applies a membership diff for a guild.
	UpdateGuildMembers(ctx context.Context, guildID int64, additions, deletions []string) error

	// CollectionGameIDs returns the game ids currently in a user's collection.
	CollectionGameIDs(ctx context.Context, username string) ([]int64, error)
	// UpsertCollectionItems inserts or replaces collection items.
	UpsertCollectionItems(ctx context.Context, items []model.CollectionItem) error
	// DeleteCollectionItems removes a user's items for the given game ids.
	DeleteCollectionItems(ctx context.Context, username string, gameIDs []int64) error
	// AllCollectionItems returns every stored collection item, any user.
	AllCollectionItems(ctx context.Context) ([]model.CollectionItem, error)

	// UpsertGames inserts or replaces catalog entries.
	UpsertGames(ctx context.Context, games []model.Game) error
	// AllGames returns the full stored catalog.
	AllGames(ctx context.Context) ([]model.Game, error)
	// KnownGameIDs returns the ids present in the games table.
	KnownGameIDs(ctx context.Context) ([]int64, error)
	// AllGameIDs returns the ids referenced by any play or collection item.
	AllGameIDs(ctx context.Context) ([]int64, error)
	// MissingGameIDs returns played ids absent from the games table.
	MissingGameIDs(ctx context.Context) ([]int64, error)

	// LatestPlayDate returns the most recent stored play date for a user,
	// or the zero time when none exist.
	LatestPlayDate(ctx context.Context, username string) (time.Time, error)
	// UpsertPlays inserts or replaces play records.
	UpsertPlays(ctx context.Context, plays []model.Play) error

	// Close releases the underlying database handle.
	Close() error
}

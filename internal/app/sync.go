package app

import (
	"context"
	"fmt"
	"time"

	"github.com/nwept/bggstats/internal/domain/dates"
	"github.com/nwept/bggstats/pkg/logger"
)

// Plays recorded before this date predate the catalog itself.
const earliestPlayDate = "1990-01-01"

// SyncGuildMembers refreshes the stored member list of a guild from the
// catalog. When threadID is non-zero, authors of that forum thread are
// counted as members too (sign-up threads predate formal membership).
func (s *Service) SyncGuildMembers(ctx context.Context, guildID, threadID int64) error {
	current := make(map[string]bool)
	names, err := s.catalog.GuildMembers(ctx, guildID)
	if err != nil {
		return fmt.Errorf("sync guild %d: %w", guildID, err)
	}
	for _, name := range names {
		current[name] = true
	}

	if threadID != 0 {
		thread, err := s.catalog.GetThread(ctx, threadID)
		if err != nil {
			return fmt.Errorf("sync guild %d thread %d: %w", guildID, threadID, err)
		}
		for _, article := range thread.Articles {
			current[article.Username] = true
		}
	}

	stored, err := s.store.GuildMembers(ctx, guildID)
	if err != nil {
		return err
	}
	storedSet := make(map[string]bool, len(stored))
	for _, m := range stored {
		storedSet[m.Username] = true
	}

	var additions, deletions []string
	for name := range current {
		if !storedSet[name] {
			additions = append(additions, name)
		}
	}
	for name := range storedSet {
		if !current[name] {
			deletions = append(deletions, name)
		}
	}

	if len(additions)+len(deletions) == 0 {
		s.log.Info(ctx, "guild membership unchanged", logger.Int64("guild", guildID))
		return nil
	}
	s.log.Info(ctx, "updating guild membership",
		logger.Int64("guild", guildID),
		logger.Int("additions", len(additions)),
		logger.Int("deletions", len(deletions)),
	)
	return s.store.UpdateGuildMembers(ctx, guildID, additions, deletions)
}

// SyncGuildCollections refreshes the collection of every stored guild member.
func (s *Service) SyncGuildCollections(ctx context.Context, guildID int64) error {
	members, err := s.store.GuildMembers(ctx, guildID)
	if err != nil {
		return err
	}
	for _, member := range members {
		if err := s.SyncCollection(ctx, member.Username); err != nil {
			return fmt.Errorf("guild %d member %s: %w", guildID, member.Username, err)
		}
	}
	return nil
}

// SyncCollection refreshes one user's stored collection, removing items the
// catalog no longer reports.
func (s *Service) SyncCollection(ctx context.Context, username string) error {
	items, err := s.catalog.Collection(ctx, username)
	if err != nil {
		return fmt.Errorf("sync collection %s: %w", username, err)
	}

	storedIDs, err := s.store.CollectionGameIDs(ctx, username)
	if err != nil {
		return err
	}
	fetched := make(map[int64]bool, len(items))
	for _, item := range items {
		fetched[item.GameID] = true
	}
	var deletions []int64
	for _, id := range storedIDs {
		if !fetched[id] {
			deletions = append(deletions, id)
		}
	}

	if len(items)+len(deletions) == 0 {
		return nil
	}
	s.log.Info(ctx, "updating collection",
		logger.String("username", username),
		logger.Int("items", len(items)),
		logger.Int("deletions", len(deletions)),
	)
	if err := s.store.UpsertCollectionItems(ctx, items); err != nil {
		return err
	}
	return s.store.DeleteCollectionItems(ctx, username, deletions)
}

// SyncPlays fetches a user's plays from the latest stored play date onward
// and records them. Refetching the boundary day is deliberate: replaced
// rows are idempotent and late-logged plays on that day are picked up.
func (s *Service) SyncPlays(ctx context.Context, username string) error {
	latest, err := s.store.LatestPlayDate(ctx, username)
	if err != nil {
		return err
	}
	if latest.IsZero() {
		latest, _ = dates.Parse(earliestPlayDate)
	}

	plays, err := s.catalog.Plays(ctx, username, latest)
	if err != nil {
		return fmt.Errorf("sync plays %s: %w", username, err)
	}
	if len(plays) == 0 {
		s.log.Info(ctx, "no new plays", logger.String("username", username))
		return nil
	}

	quantity := 0
	for _, p := range plays {
		quantity += p.Quantity
	}
	s.log.Info(ctx, "recording plays",
		logger.String("username", username),
		logger.Int("records", len(plays)),
		logger.Int("quantity", quantity),
		logger.Time("since", latest),
	)
	return s.store.UpsertPlays(ctx, plays)
}

// SyncGames refreshes catalog details for every game referenced by a play
// or collection item, or only for games not yet in the local catalog.
func (s *Service) SyncGames(ctx context.Context, missingOnly bool) error {
	var (
		ids []int64
		err error
	)
	if missingOnly {
		ids, err = s.store.MissingGameIDs(ctx)
	} else {
		ids, err = s.store.AllGameIDs(ctx)
	}
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		s.log.Info(ctx, "no games to update")
		return nil
	}

	s.log.Info(ctx, "updating games", logger.Int("count", len(ids)))
	started := time.Now()
	games, err := s.catalog.Things(ctx, ids)
	if err != nil {
		return fmt.Errorf("sync games: %w", err)
	}
	if err := s.store.UpsertGames(ctx, games); err != nil {
		return err
	}
	s.log.Info(ctx, "games updated",
		logger.Int("fetched", len(games)),
		logger.Float64("seconds", time.Since(started).Seconds()),
	)
	return nil
}

package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nwept/bggstats/internal/domain/dates"
	"github.com/nwept/bggstats/internal/domain/model"
	"github.com/nwept/bggstats/pkg/logger"
	"github.com/nwept/bggstats/pkg/metrics"
)

// Table rows. Column names and types mirror the established schema: booleans
// as integers, play dates as ISO day strings, nullable catalog numerics as
// pointers.

type gameRow struct {
	GameID        int64    `gorm:"column:gameid;primaryKey"`
	Name          string   `gorm:"column:name"`
	Expansion     int      `gorm:"column:expansion"`
	MinPlayers    *int     `gorm:"column:min_players"`
	MaxPlayers    *int     `gorm:"column:max_players"`
	PlayingTime   *int     `gorm:"column:playing_time"`
	Rank          *int     `gorm:"column:rank"`
	RatingAverage *float64 `gorm:"column:rating_average"`
	Weight        *float64 `gorm:"column:weight"`
	Year          *int     `gorm:"column:year"`
}

func (gameRow) TableName() string { return "games" }

type guildMemberRow struct {
	GuildID  int64  `gorm:"column:guildid"`
	Username string `gorm:"column:username"`
}

func (guildMemberRow) TableName() string { return "guildmembers" }

type collectionItemRow struct {
	Username string `gorm:"column:username;primaryKey"`
	GameID   int64  `gorm:"column:gameid;primaryKey"`
	Owned    int    `gorm:"column:owned"`
	Rating   *int   `gorm:"column:rating"`
}

func (collectionItemRow) TableName() string { return "collectionitems" }

type playRow struct {
	PlayID   int64  `gorm:"column:playid;primaryKey"`
	Username string `gorm:"column:username"`
	GameID   int64  `gorm:"column:gameid"`
	Date     string `gorm:"column:date"`
	Quantity int    `gorm:"column:quantity"`
}

func (playRow) TableName() string { return "plays" }

// SQLiteStore implements Store over a single SQLite database file.
type SQLiteStore struct {
	db        *gorm.DB
	log       logger.Logger
	batchSize int
}

const defaultBatchSize = 500

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets a custom logger for the store.
func WithLogger(log logger.Logger) Option {
	return func(s *SQLiteStore) {
		if log != nil {
			s.log = log
		}
	}
}

// WithBatchSize sets the insert batch size for bulk upserts.
func WithBatchSize(size int) Option {
	return func(s *SQLiteStore) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// Open opens (creating if necessary) the database at path and ensures the
// schema exists.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("repository")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrDataUnavailable, path, err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&gameRow{}, &guildMemberRow{}, &collectionItemRow{}, &playRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %w", ErrDataUnavailable, err)
	}
	s.db = db
	s.log.Debug(ctx, "database ready", logger.String("path", path))
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Snapshot loads the analytics input for a user.
func (s *SQLiteStore) Snapshot(ctx context.Context, username string, asOf time.Time) (Snapshot, error) {
	started := time.Now()

	var playRows []playRow
	q := s.db.WithContext(ctx).Where("username = ?", username)
	if !asOf.IsZero() {
		q = q.Where("date <= ?", asOf.Format(dates.DayLayout))
	}
	if err := q.Find(&playRows).Error; err != nil {
		return Snapshot{}, fmt.Errorf("%w: plays: %w", ErrDataUnavailable, err)
	}

	games, err := s.AllGames(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	var itemRows []collectionItemRow
	if err := s.db.WithContext(ctx).Where("username = ?", username).Find(&itemRows).Error; err != nil {
		return Snapshot{}, fmt.Errorf("%w: collection: %w", ErrDataUnavailable, err)
	}

	snap := Snapshot{Games: games}
	snap.Plays = make([]model.Play, 0, len(playRows))
	for _, r := range playRows {
		day, err := dates.Parse(r.Date)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: play %d: %w", ErrDataUnavailable, r.PlayID, err)
		}
		snap.Plays = append(snap.Plays, model.Play{
			ID:       r.PlayID,
			Username: r.Username,
			GameID:   r.GameID,
			Date:     day,
			Quantity: r.Quantity,
		})
	}
	snap.Collection = make([]model.CollectionItem, 0, len(itemRows))
	for _, r := range itemRows {
		snap.Collection = append(snap.Collection, fromCollectionRow(r))
	}

	metrics.ObserveSnapshotLatency(float64(time.Since(started).Milliseconds()))
	return snap, nil
}

// GuildMembers returns the stored member list of a guild.
func (s *SQLiteStore) GuildMembers(ctx context.Context, guildID int64) ([]model.GuildMember, error) {
	var rows []guildMemberRow
	if err := s.db.WithContext(ctx).Where("guildid = ?", guildID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: guild members: %w", ErrDataUnavailable, err)
	}
	members := make([]model.GuildMember, len(rows))
	for i, r := range rows {
		members[i] = model.GuildMember{GuildID: r.GuildID, Username: r.Username}
	}
	return members, nil
}

// UpdateGuildMembers applies a membership diff for a guild.
func (s *SQLiteStore) UpdateGuildMembers(ctx context.Context, guildID int64, additions, deletions []string) error {
	if len(additions) == 0 && len(deletions) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(additions) > 0 {
			rows := make([]guildMemberRow, len(additions))
			for i, name := range additions {
				rows[i] = guildMemberRow{GuildID: guildID, Username: name}
			}
			if err := tx.CreateInBatches(rows, s.batchSize).Error; err != nil {
				return err
			}
		}
		if len(deletions) > 0 {
			if err := tx.Where("guildid = ? AND username IN ?", guildID, deletions).
				Delete(&guildMemberRow{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: update guild members: %w", ErrDataUnavailable, err)
	}
	metrics.RecordRowsUpserted("guildmembers", len(additions))
	metrics.RecordRowsDeleted("guildmembers", len(deletions))
	return nil
}

// CollectionGameIDs returns the game ids currently in a user's collection.
func (s *SQLiteStore) CollectionGameIDs(ctx context.Context, username string) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&collectionItemRow{}).
		Where("username = ?", username).
		Pluck("gameid", &ids).Error; err != nil {
		return nil, fmt.Errorf("%w: collection ids: %w", ErrDataUnavailable, err)
	}
	return ids, nil
}

// UpsertCollectionItems inserts or replaces collection items.
func (s *SQLiteStore) UpsertCollectionItems(ctx context.Context, items []model.CollectionItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]collectionItemRow, len(items))
	for i, item := range items {
		rows[i] = toCollectionRow(item)
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, s.batchSize).Error; err != nil {
		return fmt.Errorf("%w: upsert collection: %w", ErrDataUnavailable, err)
	}
	metrics.RecordRowsUpserted("collectionitems", len(rows))
	return nil
}

// DeleteCollectionItems removes a user's items for the given game ids.
func (s *SQLiteStore) DeleteCollectionItems(ctx context.Context, username string, gameIDs []int64) error {
	if len(gameIDs) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).
		Where("username = ? AND gameid IN ?", username, gameIDs).
		Delete(&collectionItemRow{}).Error; err != nil {
		return fmt.Errorf("%w: delete collection: %w", ErrDataUnavailable, err)
	}
	metrics.RecordRowsDeleted("collectionitems", len(gameIDs))
	return nil
}

// AllCollectionItems returns every stored collection item, any user.
func (s *SQLiteStore) AllCollectionItems(ctx context.Context) ([]model.CollectionItem, error) {
	var rows []collectionItemRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: collection items: %w", ErrDataUnavailable, err)
	}
	items := make([]model.CollectionItem, len(rows))
	for i, r := range rows {
		items[i] = fromCollectionRow(r)
	}
	return items, nil
}

// UpsertGames inserts or replaces catalog entries.
func (s *SQLiteStore) UpsertGames(ctx context.Context, games []model.Game) error {
	if len(games) == 0 {
		return nil
	}
	rows := make([]gameRow, len(games))
	for i, g := range games {
		rows[i] = toGameRow(g)
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, s.batchSize).Error; err != nil {
		return fmt.Errorf("%w: upsert games: %w", ErrDataUnavailable, err)
	}
	metrics.RecordRowsUpserted("games", len(rows))
	return nil
}

// AllGames returns the full stored catalog.
func (s *SQLiteStore) AllGames(ctx context.Context) ([]model.Game, error) {
	var rows []gameRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: games: %w", ErrDataUnavailable, err)
	}
	games := make([]model.Game, len(rows))
	for i, r := range rows {
		games[i] = fromGameRow(r)
	}
	return games, nil
}

// KnownGameIDs returns the ids present in the games table.
func (s *SQLiteStore) KnownGameIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&gameRow{}).Pluck("gameid", &ids).Error; err != nil {
		return nil, fmt.Errorf("%w: known ids: %w", ErrDataUnavailable, err)
	}
	return ids, nil
}

// AllGameIDs returns the ids referenced by any play or collection item.
func (s *SQLiteStore) AllGameIDs(ctx context.Context) ([]int64, error) {
	played, err := s.playedGameIDs(ctx)
	if err != nil {
		return nil, err
	}
	var collected []int64
	if err := s.db.WithContext(ctx).Model(&collectionItemRow{}).
		Distinct("gameid").Pluck("gameid", &collected).Error; err != nil {
		return nil, fmt.Errorf("%w: collected ids: %w", ErrDataUnavailable, err)
	}
	return mergeIDs(played, collected), nil
}

// MissingGameIDs returns played ids absent from the games table.
func (s *SQLiteStore) MissingGameIDs(ctx context.Context) ([]int64, error) {
	played, err := s.playedGameIDs(ctx)
	if err != nil {
		return nil, err
	}
	known, err := s.KnownGameIDs(ctx)
	if err != nil {
		return nil, err
	}
	knownSet := make(map[int64]bool, len(known))
	for _, id := range known {
		knownSet[id] = true
	}
	missing := make([]int64, 0)
	for _, id := range played {
		if !knownSet[id] {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing, nil
}

// LatestPlayDate returns the most recent stored play date for a user.
func (s *SQLiteStore) LatestPlayDate(ctx context.Context, username string) (time.Time, error) {
	var latest *string
	if err := s.db.WithContext(ctx).Model(&playRow{}).
		Where("username = ?", username).
		Select("MAX(date)").Scan(&latest).Error; err != nil {
		return time.Time{}, fmt.Errorf("%w: latest play: %w", ErrDataUnavailable, err)
	}
	if latest == nil || *latest == "" {
		return time.Time{}, nil
	}
	day, err := dates.Parse(*latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: latest play: %w", ErrDataUnavailable, err)
	}
	return day, nil
}

// UpsertPlays inserts or replaces play records.
func (s *SQLiteStore) UpsertPlays(ctx context.Context, plays []model.Play) error {
	if len(plays) == 0 {
		return nil
	}
	rows := make([]playRow, len(plays))
	quantity := 0
	for i, p := range plays {
		rows[i] = playRow{
			PlayID:   p.ID,
			Username: p.Username,
			GameID:   p.GameID,
			Date:     p.Date.Format(dates.DayLayout),
			Quantity: p.Quantity,
		}
		quantity += p.Quantity
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, s.batchSize).Error; err != nil {
		return fmt.Errorf("%w: upsert plays: %w", ErrDataUnavailable, err)
	}
	metrics.RecordRowsUpserted("plays", len(rows))
	metrics.RecordPlays(quantity)
	return nil
}

func (s *SQLiteStore) playedGameIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&playRow{}).
		Distinct("gameid").Pluck("gameid", &ids).Error; err != nil {
		return nil, fmt.Errorf("%w: played ids: %w", ErrDataUnavailable, err)
	}
	return ids, nil
}

func mergeIDs(a, b []int64) []int64 {
	seen := make(map[int64]bool, len(a)+len(b))
	for _, id := range a {
		seen[id] = true
	}
	for _, id := range b {
		seen[id] = true
	}
	merged := make([]int64, 0, len(seen))
	for id := range seen {
		merged = append(merged, id)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
	return merged
}

func toGameRow(g model.Game) gameRow {
	r := gameRow{
		GameID:        g.ID,
		Name:          g.Name,
		MinPlayers:    g.MinPlayers,
		MaxPlayers:    g.MaxPlayers,
		PlayingTime:   g.PlayingTime,
		Rank:          g.Rank,
		RatingAverage: g.RatingAverage,
		Weight:        g.Weight,
		Year:          g.Year,
	}
	if g.Expansion {
		r.Expansion = 1
	}
	return r
}

func fromGameRow(r gameRow) model.Game {
	return model.Game{
		ID:            r.GameID,
		Name:          r.Name,
		Expansion:     r.Expansion != 0,
		MinPlayers:    r.MinPlayers,
		MaxPlayers:    r.MaxPlayers,
		PlayingTime:   r.PlayingTime,
		Rank:          r.Rank,
		RatingAverage: r.RatingAverage,
		Weight:        r.Weight,
		Year:          r.Year,
	}
}

func toCollectionRow(c model.CollectionItem) collectionItemRow {
	r := collectionItemRow{Username: c.Username, GameID: c.GameID, Rating: c.Rating}
	if c.Owned {
		r.Owned = 1
	}
	return r
}

func fromCollectionRow(r collectionItemRow) model.CollectionItem {
	return model.CollectionItem{
		Username: r.Username,
		GameID:   r.GameID,
		Owned:    r.Owned != 0,
		Rating:   r.Rating,
	}
}

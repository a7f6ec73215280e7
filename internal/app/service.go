// Package app wires the catalog client, the local store, and the analytics
// into the operations the CLI invokes.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nwept/bggstats/internal/adapters/geek"
	"github.com/nwept/bggstats/internal/adapters/repository"
	"github.com/nwept/bggstats/internal/domain/model"
	"github.com/nwept/bggstats/pkg/logger"
)

// Default report range anchor; plays before home computers are unlikely.
const defaultStartYear = 1990

// Catalog is the slice of the geek client the service depends on.
type Catalog interface {
	Collection(ctx context.Context, username string) ([]model.CollectionItem, error)
	Plays(ctx context.Context, username string, minDate time.Time) ([]model.Play, error)
	Things(ctx context.Context, ids []int64) ([]model.Game, error)
	GuildMembers(ctx context.Context, guildID int64) ([]string, error)
	GetThread(ctx context.Context, threadID int64) (geek.Thread, error)
}

// Service implements the sync and report operations.
type Service struct {
	store     repository.Store
	catalog   Catalog
	log       logger.Logger
	runID     string
	outputDir string
	startYear int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the local database store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog sets the remote catalog client.
func WithCatalog(catalog Catalog) Option {
	return func(s *Service) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithOutputDir sets the directory report files are written to.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.outputDir = dir
		}
	}
}

// WithStartYear anchors the through-the-years report range.
func WithStartYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.startYear = year
		}
	}
}

// New constructs a Service. A fresh run id correlates all log lines of one
// invocation.
func New(opts ...Option) *Service {
	s := &Service{
		runID:     uuid.NewString(),
		outputDir: ".",
		startYear: defaultStartYear,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("app")
	}
	s.log = withRun(s.log, s.runID)
	return s
}

// load is the data-loader boundary: one immutable snapshot per report run.
// Store failures are fatal here; there is no partial-result strategy.
func (s *Service) load(ctx context.Context, username string, asOf time.Time) (repository.Snapshot, error) {
	snap, err := s.store.Snapshot(ctx, username, asOf)
	if err != nil {
		return repository.Snapshot{}, fmt.Errorf("load %s: %w", username, err)
	}
	s.log.Debug(ctx, "snapshot loaded",
		logger.String("username", username),
		logger.Int("plays", len(snap.Plays)),
		logger.Int("games", len(snap.Games)),
		logger.Int("collection", len(snap.Collection)),
	)
	return snap, nil
}

type runLogger struct {
	logger.Logger
	runID string
}

func withRun(l logger.Logger, runID string) logger.Logger {
	return &runLogger{Logger: l, runID: runID}
}

func (l *runLogger) field() logger.Field { return logger.String("run_id", l.runID) }

func (l *runLogger) Info(ctx context.Context, msg string, fields ...logger.Field) {
	l.Logger.Info(ctx, msg, append(fields, l.field())...)
}

func (l *runLogger) Error(ctx context.Context, msg string, fields ...logger.Field) {
	l.Logger.Error(ctx, msg, append(fields, l.field())...)
}

func (l *runLogger) Debug(ctx context.Context, msg string, fields ...logger.Field) {
	l.Logger.Debug(ctx, msg, append(fields, l.field())...)
}

func (l *runLogger) Warn(ctx context.Context, msg string, fields ...logger.Field) {
	l.Logger.Warn(ctx, msg, append(fields, l.field())...)
}

func (l *runLogger) Named(name string) logger.Logger {
	return &runLogger{Logger: l.Logger.Named(name), runID: l.runID}
}

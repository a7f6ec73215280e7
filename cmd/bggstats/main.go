package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nwept/bggstats/internal/adapters/geek"
	"github.com/nwept/bggstats/internal/adapters/repository"
	"github.com/nwept/bggstats/internal/app"
	"github.com/nwept/bggstats/internal/config"
	"github.com/nwept/bggstats/pkg/logger"
	"github.com/nwept/bggstats/pkg/metrics"
)

const usage = `Usage: bggstats <command> [flags]

Sync commands:
  guildmembers       refresh the guild member list
  guildcollections   refresh every guild member's collection
  collection         refresh the configured user's collection
  plays              fetch new plays for the configured user
  games              refresh game details (-missing-only for new games)

Report commands:
  hindex             lifetime h-index with near misses (-asof YYYY-MM-DD)
  annual             one-year summary (-year N)
  newtome            first plays in a window (-start/-finish YYYY-MM-DD)
  dust               games replayed after a year or more (-start/-finish)
  years              first play per publication year (-year N)
  archaeologist      earliest play per rank bucket (-year N)
  fewest             play histogram by calendar day
  guildreport        guild collection rankings (-name <report>|all)
  listreports        list the built-in guild reports
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "bggstats:", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	if err := logger.Init(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	log := logger.Named("cli")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags := flag.NewFlagSet(command, flag.ExitOnError)
	var (
		username    = flags.String("username", cfg.Username, "catalog username")
		guildID     = flags.Int64("guild", cfg.Guild, "guild id")
		threadID    = flags.Int64("thread", 0, "sign-up forum thread id to merge into guild membership")
		missingOnly = flags.Bool("missing-only", false, "only fetch games not yet in the catalog")
		year        = flags.Int("year", time.Now().Year()-1, "target year")
		asOf        = flags.String("asof", "", "ignore plays after this day (YYYY-MM-DD)")
		start       = flags.String("start", "", "window start (YYYY-MM-DD)")
		finish      = flags.String("finish", "", "window finish (YYYY-MM-DD)")
		reportName  = flags.String("name", "all", "guild report name, or all")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	if command == "listreports" {
		for _, spec := range app.New().ListReports() {
			fmt.Printf("%-16s %s\n", spec.Name, spec.Title)
		}
		return nil
	}

	store, err := repository.Open(ctx, cfg.DatabasePath,
		repository.WithLogger(logger.Named("repository")),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn(ctx, "closing store", logger.Error(err))
		}
	}()

	catalog := geek.NewClient(
		geek.WithBaseURL(cfg.APIBaseURL),
		geek.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutMS) * time.Millisecond,
		}),
		geek.WithQueueRetries(cfg.QueueRetries),
		geek.WithQueueRetryDelay(time.Duration(cfg.QueueRetryDelayMS)*time.Millisecond),
		geek.WithThingChunkSize(cfg.ThingChunkSize),
	)

	service := app.New(
		app.WithStore(store),
		app.WithCatalog(catalog),
		app.WithOutputDir(cfg.OutputDir),
		app.WithStartYear(cfg.StartYear),
	)

	if cfg.MetricsAddr != "" {
		serveMetrics(ctx, cfg.MetricsAddr, log)
	}

	var path string
	switch command {
	case "guildmembers":
		err = service.SyncGuildMembers(ctx, *guildID, *threadID)
	case "guildcollections":
		err = service.SyncGuildCollections(ctx, *guildID)
	case "collection":
		err = service.SyncCollection(ctx, *username)
	case "plays":
		err = service.SyncPlays(ctx, *username)
	case "games":
		err = service.SyncGames(ctx, *missingOnly)
	case "hindex":
		path, err = service.HIndexReport(ctx, *username, *asOf)
	case "annual":
		path, err = service.AnnualReport(ctx, *username, *year)
	case "newtome":
		path, err = service.NewToMeReport(ctx, *username, *start, *finish)
	case "dust":
		path, err = service.DustReport(ctx, *username, *start, *finish)
	case "years":
		path, err = service.ThroughTheYearsReport(ctx, *username, *year)
	case "archaeologist":
		path, err = service.ArchaeologistReport(ctx, *username, *year)
	case "fewest":
		path, err = service.FewestPlaysReport(ctx, *username)
	case "guildreport":
		path, err = service.GuildReport(ctx, *guildID, *reportName)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Println(path)
	}
	return nil
}

// serveMetrics exposes the Prometheus registry for the lifetime of the
// command. Sync runs against large guilds can take long enough to scrape.
func serveMetrics(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info(ctx, "metrics listener started", logger.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(ctx, "metrics listener stopped", logger.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}

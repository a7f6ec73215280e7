package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nwept/bggstats/internal/adapters/render"
	"github.com/nwept/bggstats/internal/domain/dates"
	"github.com/nwept/bggstats/internal/domain/guild"
	"github.com/nwept/bggstats/internal/domain/stats"
	"github.com/nwept/bggstats/pkg/logger"
	"github.com/nwept/bggstats/pkg/metrics"
)

// HIndexReport renders the lifetime h-index for a user: the ranked games in
// the index, then the top-rated games that fell short. An empty asOf covers
// the full play history; otherwise plays after that day are ignored.
func (s *Service) HIndexReport(ctx context.Context, username, asOf string) (string, error) {
	started := time.Now()

	var cutoff time.Time
	if asOf != "" {
		var err error
		if cutoff, err = dates.Parse(asOf); err != nil {
			return "", err
		}
	}

	snap, err := s.load(ctx, username, cutoff)
	if err != nil {
		return "", err
	}
	totals := stats.AggregatePlays(snap.Plays, cutoff)
	inIndex, nearMisses := stats.HIndex(totals, snap.Games, snap.Collection)

	headers := []string{"#", "Name", "Plays", "Last Played"}
	index := render.Table{
		Title:      fmt.Sprintf("H-Index: %d", len(inIndex)),
		Headers:    headers,
		LinkColumn: 1,
	}
	for _, r := range inIndex {
		index.Rows = append(index.Rows, []string{
			strconv.Itoa(r.Rank + 1),
			render.Name(r.Game.Name),
			strconv.Itoa(r.Quantity),
			r.Latest.Format(dates.DayLayout),
		})
		index.LinkIDs = append(index.LinkIDs, r.Game.ID)
	}

	near := render.Table{
		Title:      "Near Misses (rated 10)",
		Headers:    headers,
		LinkColumn: 1,
	}
	for _, r := range nearMisses {
		near.Rows = append(near.Rows, []string{
			strconv.Itoa(r.Rank + 1),
			render.Name(r.Game.Name),
			strconv.Itoa(r.Quantity),
			r.Latest.Format(dates.DayLayout),
		})
		near.LinkIDs = append(near.LinkIDs, r.Game.ID)
	}

	content := index.Render() + "\n\n\n" + near.Render()
	return s.writeReport(ctx, "hindex", content, started)
}

// NewToMeReport renders the games first played inside the window. Empty
// bounds fall back to the documented window rules.
func (s *Service) NewToMeReport(ctx context.Context, username, start, finish string) (string, error) {
	started := time.Now()
	windowStart, windowFinish, err := dates.ResolveWindow(start, finish)
	if err != nil {
		return "", err
	}
	snap, err := s.load(ctx, username, time.Time{})
	if err != nil {
		return "", err
	}
	entries := stats.NewToMe(snap.Plays, snap.Games, snap.Collection, windowStart, windowFinish)

	t := render.Table{
		Title:      windowTitle("New to Me", windowStart, windowFinish),
		Headers:    []string{"#", "Name", "Rating", "Plays", "First Played"},
		LinkColumn: 1,
	}
	for i, e := range entries {
		rating := ""
		if e.Rating > 0 {
			rating = strconv.Itoa(e.Rating)
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			render.Name(e.Game.Name),
			rating,
			strconv.Itoa(e.Quantity),
			e.FirstPlayed.Format(dates.DayLayout),
		})
		t.LinkIDs = append(t.LinkIDs, e.Game.ID)
	}
	return s.writeReport(ctx, "newtome", t.Render(), started)
}

// DustReport renders the games brought back out of the dust: replayed
// in-window after more than a year untouched.
func (s *Service) DustReport(ctx context.Context, username, start, finish string) (string, error) {
	started := time.Now()
	windowStart, windowFinish, err := dates.ResolveWindow(start, finish)
	if err != nil {
		return "", err
	}
	snap, err := s.load(ctx, username, time.Time{})
	if err != nil {
		return "", err
	}
	entries := stats.OutOfTheDust(snap.Plays, snap.Games, snap.Collection, windowStart, windowFinish)

	t := render.Table{
		Title:      windowTitle("Out of the Dust", windowStart, windowFinish),
		Headers:    []string{"#", "Name", "Last Played", "Returned", "Gap"},
		LinkColumn: 1,
	}
	for i, e := range entries {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			render.Name(e.Game.Name),
			e.LastBefore.Format(dates.DayLayout),
			e.FirstDuring.Format(dates.DayLayout),
			fmt.Sprintf("%dy %dd", e.GapYears, e.GapDays),
		})
		t.LinkIDs = append(t.LinkIDs, e.Game.ID)
	}
	return s.writeReport(ctx, "dust", t.Render(), started)
}

// ThroughTheYearsReport renders the first game of each publication-year
// vintage played during the target year, blanks included.
func (s *Service) ThroughTheYearsReport(ctx context.Context, username string, year int) (string, error) {
	started := time.Now()
	snap, err := s.load(ctx, username, time.Time{})
	if err != nil {
		return "", err
	}
	highlights := stats.ThroughTheYears(snap.Plays, snap.Games, snap.Collection, s.startYear, year)

	t := render.Table{
		Title:      fmt.Sprintf("Through the Years %d", year),
		Headers:    []string{"Year", "Name", "Played"},
		LinkColumn: 1,
	}
	for _, hl := range highlights {
		name, played := "", ""
		var linkID int64
		if hl.Game != nil {
			name = render.Name(hl.Game.Name)
			played = hl.Played.Format(dates.DayLayout)
			linkID = hl.Game.ID
		}
		t.Rows = append(t.Rows, []string{strconv.Itoa(hl.Year), name, played})
		t.LinkIDs = append(t.LinkIDs, linkID)
	}
	return s.writeReport(ctx, "years", t.Render(), started)
}

// ArchaeologistReport renders the earliest play per catalog-rank bucket in
// the target year, blanks included.
func (s *Service) ArchaeologistReport(ctx context.Context, username string, year int) (string, error) {
	started := time.Now()
	snap, err := s.load(ctx, username, time.Time{})
	if err != nil {
		return "", err
	}
	buckets := stats.Archaeologist(snap.Plays, snap.Games, snap.Collection, year)

	t := render.Table{
		Title:      fmt.Sprintf("Archaeologist %d", year),
		Headers:    []string{"Ranks", "Name", "Played"},
		LinkColumn: 1,
	}
	for _, b := range buckets {
		name, played := "", ""
		var linkID int64
		if b.Game != nil {
			name = render.Name(b.Game.Name)
			played = b.Played.Format(dates.DayLayout)
			linkID = b.Game.ID
		}
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%d-%d", b.Low, b.High),
			name,
			played,
		})
		t.LinkIDs = append(t.LinkIDs, linkID)
	}
	return s.writeReport(ctx, "archaeologist", t.Render(), started)
}

// FewestPlaysReport renders the dense day-of-year play histogram,
// least-played calendar days first.
func (s *Service) FewestPlaysReport(ctx context.Context, username string) (string, error) {
	started := time.Now()
	snap, err := s.load(ctx, username, time.Time{})
	if err != nil {
		return "", err
	}
	days := stats.PlaysByCalendarDay(snap.Plays, snap.Games, snap.Collection)

	t := render.Table{
		Title:   "Fewest Plays by Calendar Day",
		Headers: []string{"Month", "Day", "Plays"},
	}
	for _, d := range days {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(int(d.Month)),
			strconv.Itoa(d.Day),
			strconv.Itoa(d.Quantity),
		})
	}
	return s.writeReport(ctx, "fewest", t.Render(), started)
}

// AnnualReport renders the multi-metric summary for one calendar year.
func (s *Service) AnnualReport(ctx context.Context, username string, year int) (string, error) {
	started := time.Now()
	snap, err := s.load(ctx, username, time.Time{})
	if err != nil {
		return "", err
	}
	summary := stats.Annual(snap.Plays, snap.Games, snap.Collection, year)

	overview := render.Table{
		Title:   fmt.Sprintf("%d in Review", year),
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total plays", strconv.Itoa(summary.TotalPlays)},
			{"New to me", strconv.Itoa(summary.NewToMe)},
			{"Nickels (5+ plays)", strconv.Itoa(summary.Nickels)},
			{"Dimes (10+ plays)", strconv.Itoa(summary.Dimes)},
			{"H-index", strconv.Itoa(summary.HIndex)},
		},
	}

	byYear := render.Table{
		Title:   "Plays by Publication Year",
		Headers: []string{"Year", "Plays"},
	}
	for _, yc := range summary.ByPublicationYear {
		label := "unknown"
		if yc.Year != 0 {
			label = strconv.Itoa(yc.Year)
		}
		byYear.Rows = append(byYear.Rows, []string{label, strconv.Itoa(yc.Quantity)})
	}

	byGame := render.Table{
		Title:      "Plays by Game",
		Headers:    []string{"#", "Name", "Rating", "Plays"},
		LinkColumn: 1,
	}
	for i, gc := range summary.ByGame {
		rating := ""
		if gc.Rating > 0 {
			rating = strconv.Itoa(gc.Rating)
		}
		byGame.Rows = append(byGame.Rows, []string{
			strconv.Itoa(i + 1),
			render.Name(gc.Game.Name),
			rating,
			strconv.Itoa(gc.Quantity),
		})
		byGame.LinkIDs = append(byGame.LinkIDs, gc.Game.ID)
	}

	content := overview.Render() + "\n\n\n" + byYear.Render() + "\n\n\n" + byGame.Render()
	return s.writeReport(ctx, fmt.Sprintf("annual %d", year), content, started)
}

// GuildReport renders one named guild report, or every built-in report into
// a single file when name is "all".
func (s *Service) GuildReport(ctx context.Context, guildID int64, name string) (string, error) {
	started := time.Now()

	var specs []guild.ReportSpec
	if name == "all" {
		specs = guild.Reports()
	} else {
		spec, ok := guild.Find(name)
		if !ok {
			return "", fmt.Errorf("no report named %q", name)
		}
		specs = []guild.ReportSpec{spec}
	}

	members, err := s.store.GuildMembers(ctx, guildID)
	if err != nil {
		return "", err
	}
	items, err := s.store.AllCollectionItems(ctx)
	if err != nil {
		return "", err
	}
	games, err := s.store.AllGames(ctx)
	if err != nil {
		return "", err
	}
	summaries := guild.Summarize(members, items, games)

	content := ""
	for i, spec := range specs {
		if i > 0 {
			content += "\n\n\n"
		}
		t := render.Table{
			Title:      spec.Title,
			Headers:    []string{"#", "Name", "# ratings", spec.ColumnLabel},
			LinkColumn: 1,
		}
		for _, row := range guild.Run(summaries, spec) {
			t.Rows = append(t.Rows, []string{
				strconv.Itoa(row.Num),
				render.Name(row.Name),
				strconv.Itoa(row.Ratings),
				render.Float(row.Value),
			})
			t.LinkIDs = append(t.LinkIDs, row.GameID)
		}
		content += t.Render()
	}
	return s.writeReport(ctx, name, content, started)
}

// ListReports returns the built-in guild reports in canonical order.
func (s *Service) ListReports() []guild.ReportSpec {
	return guild.Reports()
}

func (s *Service) writeReport(ctx context.Context, name, content string, started time.Time) (string, error) {
	path, err := render.WriteReport(s.outputDir, name, content)
	if err != nil {
		return "", err
	}
	metrics.RecordReportWritten(name)
	metrics.ObserveReportDuration(float64(time.Since(started).Milliseconds()))
	s.log.Info(ctx, "report written",
		logger.String("report", name),
		logger.String("path", path),
	)
	return path, nil
}

func windowTitle(name string, start, finish time.Time) string {
	return fmt.Sprintf("%s %s to %s", name,
		start.Format(dates.DayLayout), finish.Format(dates.DayLayout))
}

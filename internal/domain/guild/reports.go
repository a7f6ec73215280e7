package guild

import "sort"

// ExpansionFilter selects which games a report covers.
type ExpansionFilter int

// Expansion filter values.
const (
	AllGames ExpansionFilter = iota
	BaseGamesOnly
	ExpansionsOnly
)

// SortKey selects the summary column a report orders by.
type SortKey int

// Report sort keys.
const (
	ByAdjustedAverage SortKey = iota
	ByGuildAverage
	ByGuildStdDev
	ByVsBGG
)

// ReportSpec is a declarative description of one guild report.
type ReportSpec struct {
	Name        string
	Title       string
	Expansions  ExpansionFilter
	MinRatings  int
	SortKey     SortKey
	Ascending   bool
	Rows        int
	ColumnLabel string
}

// Row is one rendered-ready line of a guild report.
type Row struct {
	Num     int // 1-based position
	GameID  int64
	Name    string
	Ratings int
	Value   float64 // the sort-key column
}

// Reports returns the built-in guild reports in their canonical order.
func Reports() []ReportSpec {
	return []ReportSpec{
		{
			Name:        "top20",
			Title:       "Top 20 Games",
			Expansions:  BaseGamesOnly,
			Rows:        20,
			ColumnLabel: "Rating",
		},
		{
			Name:        "top10expansions",
			Title:       "Top 10 Expansions",
			Expansions:  ExpansionsOnly,
			Rows:        10,
			ColumnLabel: "Rating",
		},
		{
			Name:        "bottom10",
			Title:       "Bottom 10 Games",
			Expansions:  BaseGamesOnly,
			SortKey:     ByGuildAverage,
			Ascending:   true,
			MinRatings:  5,
			Rows:        10,
			ColumnLabel: "Rating",
		},
		{
			Name:        "varied",
			Title:       "Most Varied Ratings",
			Expansions:  BaseGamesOnly,
			SortKey:     ByGuildStdDev,
			MinRatings:  5,
			Rows:        10,
			ColumnLabel: "St.Dev",
		},
		{
			Name:        "morethanbgg",
			Title:       "Games Liked More than BoardGameGeek",
			Expansions:  BaseGamesOnly,
			SortKey:     ByVsBGG,
			MinRatings:  5,
			Rows:        10,
			ColumnLabel: "vs BGG",
		},
		{
			Name:        "lessthanbgg",
			Title:       "Games Liked Less than BoardGameGeek",
			Expansions:  BaseGamesOnly,
			SortKey:     ByVsBGG,
			Ascending:   true,
			MinRatings:  5,
			Rows:        10,
			ColumnLabel: "vs BGG",
		},
	}
}

// Find returns the report spec with the given name.
func Find(name string) (ReportSpec, bool) {
	for _, spec := range Reports() {
		if spec.Name == name {
			return spec, true
		}
	}
	return ReportSpec{}, false
}

// Run filters, sorts, and trims the summaries per the report spec.
func Run(summaries []GameSummary, spec ReportSpec) []Row {
	filtered := make([]GameSummary, 0, len(summaries))
	for _, s := range summaries {
		switch spec.Expansions {
		case BaseGamesOnly:
			if s.Expansion {
				continue
			}
		case ExpansionsOnly:
			if !s.Expansion {
				continue
			}
		}
		if s.GuildRatings < spec.MinRatings {
			continue
		}
		filtered = append(filtered, s)
	}

	key := func(s GameSummary) float64 {
		switch spec.SortKey {
		case ByGuildAverage:
			return s.GuildAverage
		case ByGuildStdDev:
			return s.GuildStdDev
		case ByVsBGG:
			return s.VsBGG
		default:
			return s.AdjustedAverage
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if spec.Ascending {
			return key(filtered[i]) < key(filtered[j])
		}
		return key(filtered[i]) > key(filtered[j])
	})

	if spec.Rows > 0 && len(filtered) > spec.Rows {
		filtered = filtered[:spec.Rows]
	}

	rows := make([]Row, len(filtered))
	for i, s := range filtered {
		rows[i] = Row{
			Num:     i + 1,
			GameID:  s.GameID,
			Name:    s.Name,
			Ratings: s.GuildRatings,
			Value:   key(s),
		}
	}
	return rows
}

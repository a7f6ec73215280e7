// Package render formats report rows as fixed-width forum-markup tables and
// writes them to dated report files.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// NameWidth is the fixed width of game-name columns; longer names are
// truncated with an ellipsis so link substitution keeps columns aligned.
const NameWidth = 30

const (
	columnGap          = "  "
	reportFileMode     = 0o644
	truncationEllipsis = "..."
)

// Table is a report table ready for rendering. When LinkIDs is non-empty it
// pairs each row with a game id whose cell in LinkColumn is wrapped in a
// [thing=id]...[/thing] forum link; id 0 leaves a row unlinked.
type Table struct {
	Title      string
	Headers    []string
	Rows       [][]string
	LinkColumn int
	LinkIDs    []int64
}

// Name fits a game name into NameWidth exactly, truncating or padding.
func Name(name string) string {
	if len(name) > NameWidth {
		return name[:NameWidth-len(truncationEllipsis)] + truncationEllipsis
	}
	return name + strings.Repeat(" ", NameWidth-len(name))
}

// Float formats a report value the way table columns expect.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Render lays the table out in monospace columns, applies forum links, and
// wraps everything in [c]...[/c] so forum rendering preserves the alignment.
func (t Table) Render() string {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("[b][u]" + t.Title + "[/u][/b]\n")
	}
	b.WriteString("[c]")

	writeLine := func(cells []string, linkID int64) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString(columnGap)
			}
			padded := cell + strings.Repeat(" ", widths[i]-len(cell))
			if linkID != 0 && i == t.LinkColumn {
				padded = geekLink(linkID, padded)
			}
			b.WriteString(padded)
		}
		b.WriteString("\n")
	}

	writeLine(t.Headers, 0)
	separators := make([]string, len(t.Headers))
	for i := range separators {
		separators[i] = strings.Repeat("-", widths[i])
	}
	writeLine(separators, 0)

	for i, row := range t.Rows {
		var linkID int64
		if i < len(t.LinkIDs) {
			linkID = t.LinkIDs[i]
		}
		writeLine(row, linkID)
	}

	b.WriteString("[/c]")
	return b.String()
}

// geekLink wraps the trimmed cell content in a [thing=id] link, re-adding
// the trailing spaces so the rendered column width is unchanged.
func geekLink(id int64, padded string) string {
	text := strings.TrimRight(padded, " ")
	spaces := len(padded) - len(text)
	return fmt.Sprintf("[thing=%d]%s[/thing]", id, text) + strings.Repeat(" ", spaces)
}

// WriteReport writes content to "<date> <name>.txt" in dir, returning the
// full path.
func WriteReport(dir, name, content string) (string, error) {
	filename := fmt.Sprintf("%s %s.txt", time.Now().Format("2006-01-02"), name)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), reportFileMode); err != nil {
		return "", fmt.Errorf("write report %s: %w", name, err)
	}
	return path, nil
}

package render_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nwept/bggstats/internal/adapters/render"
	. "github.com/smartystreets/goconvey/convey"
)

func TestName(t *testing.T) {
	Convey("Given game names of different lengths", t, func() {
		Convey("When the name is short", func() {
			s := render.Name("Carcassonne")

			Convey("Then it pads to the fixed width", func() {
				So(len(s), ShouldEqual, render.NameWidth)
				So(strings.HasPrefix(s, "Carcassonne"), ShouldBeTrue)
				So(strings.HasSuffix(s, " "), ShouldBeTrue)
			})
		})

		Convey("When the name is too long", func() {
			s := render.Name("Twilight Imperium: Fourth Edition Prophecy of Kings")

			Convey("Then it truncates with an ellipsis at the fixed width", func() {
				So(len(s), ShouldEqual, render.NameWidth)
				So(strings.HasSuffix(s, "..."), ShouldBeTrue)
			})
		})

		Convey("When the name is exactly the width", func() {
			name := strings.Repeat("x", render.NameWidth)
			s := render.Name(name)

			Convey("Then it passes through unchanged", func() {
				So(s, ShouldEqual, name)
			})
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given a table with linked rows", t, func() {
		table := render.Table{
			Title:      "Top Games",
			Headers:    []string{"#", "Name", "Rating"},
			LinkColumn: 1,
			Rows: [][]string{
				{"1", render.Name("Alpha"), "8.1250"},
				{"2", render.Name("Bravo"), "7.5000"},
			},
			LinkIDs: []int64{101, 0},
		}

		Convey("When rendering", func() {
			out := table.Render()
			lines := strings.Split(out, "\n")

			Convey("Then the title is bold and underlined", func() {
				So(lines[0], ShouldEqual, "[b][u]Top Games[/u][/b]")
			})

			Convey("And the body is wrapped in a code block", func() {
				So(lines[1], ShouldStartWith, "[c]")
				So(out, ShouldEndWith, "[/c]")
			})

			Convey("And a separator row follows the headers", func() {
				So(lines[2], ShouldContainSubstring, "----")
			})

			Convey("And linked cells carry a geeklink without changing width", func() {
				So(lines[3], ShouldContainSubstring, "[thing=101]Alpha[/thing]")
				plain := strings.Replace(lines[3], "[thing=101]", "", 1)
				plain = strings.Replace(plain, "[/thing]", "", 1)
				So(len(plain), ShouldEqual, len(lines[4]))
			})

			Convey("And id zero leaves the row unlinked", func() {
				So(lines[4], ShouldNotContainSubstring, "[thing=")
			})
		})
	})

	Convey("Given a table without a title", t, func() {
		table := render.Table{
			Headers: []string{"Year", "Plays"},
			Rows:    [][]string{{"2023", "120"}},
		}

		Convey("When rendering", func() {
			out := table.Render()

			Convey("Then it starts straight with the code block", func() {
				So(out, ShouldStartWith, "[c]")
			})
		})
	})
}

func TestFloat(t *testing.T) {
	Convey("Given report values", t, func() {
		So(render.Float(6.125), ShouldEqual, "6.1250")
		So(render.Float(-0.4), ShouldEqual, "-0.4000")
		So(render.Float(0), ShouldEqual, "0.0000")
	})
}

func TestWriteReport(t *testing.T) {
	Convey("Given an output directory", t, func() {
		dir := t.TempDir()

		Convey("When writing a report", func() {
			path, err := render.WriteReport(dir, "hindex", "[c]body[/c]")

			Convey("Then the file lands under a dated name", func() {
				So(err, ShouldBeNil)
				So(filepath.Dir(path), ShouldEqual, dir)
				So(filepath.Base(path), ShouldEqual, time.Now().Format("2006-01-02")+" hindex.txt")

				body, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(body), ShouldEqual, "[c]body[/c]")
			})
		})

		Convey("When the directory does not exist", func() {
			_, err := render.WriteReport(filepath.Join(dir, "missing"), "hindex", "x")

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

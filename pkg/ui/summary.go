package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"xwscraper/pkg/scraper"
)

// RenderSummary prints one row per window and a total
func RenderSummary(out io.Writer, res *scraper.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("%s puzzles %s .. %s", res.PuzzleType, res.Start, res.End))
	t.AppendHeader(table.Row{"Window", "Puzzles", "Elapsed"})

	for _, w := range res.Windows {
		t.AppendRow(table.Row{w.Window.String(), w.Puzzles, w.Duration.Round(time.Millisecond)})
	}

	t.AppendFooter(table.Row{"Total", len(res.Records), res.Duration.Round(time.Millisecond)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

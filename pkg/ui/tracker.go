package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"xwscraper/pkg/nyt"
	"xwscraper/pkg/scraper"
)

const barWidth = 24

// BatchTracker renders scrape progress on a single terminal line.
// It implements scraper.Observer.
type BatchTracker struct {
	mu         sync.Mutex
	out        io.Writer
	quiet      bool
	puzzleType nyt.PuzzleType
	windows    int
	done       int
	puzzles    int
	startTime  time.Time
}

// NewBatchTracker creates a tracker writing to out. A quiet tracker only
// counts.
func NewBatchTracker(out io.Writer, quiet bool) *BatchTracker {
	return &BatchTracker{
		out:       out,
		quiet:     quiet,
		startTime: time.Now(),
	}
}

// Planned records the number of windows to fetch
func (t *BatchTracker) Planned(pt nyt.PuzzleType, windows []nyt.Window) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.puzzleType = pt
	t.windows = len(windows)
	t.startTime = time.Now()
	if !t.quiet && len(windows) > 0 {
		fmt.Fprintf(t.out, "%s %s\n",
			labelStyle.Render("Batches:"),
			valueStyle.Render(fmt.Sprintf("%d (%s .. %s)", len(windows), windows[0].Start, windows[len(windows)-1].End)))
	}
	t.render()
}

// PuzzleFetched counts one fetched puzzle
func (t *BatchTracker) PuzzleFetched(nyt.Window) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.puzzles++
	t.render()
}

// WindowDone counts one finished window
func (t *BatchTracker) WindowDone(scraper.WindowStat) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done++
	t.render()
}

// Finish ends the progress line
func (t *BatchTracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.quiet {
		fmt.Fprintln(t.out)
	}
}

// Counts returns finished windows, planned windows and fetched puzzles
func (t *BatchTracker) Counts() (done, windows, puzzles int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done, t.windows, t.puzzles
}

// Line returns the current progress line without control characters
func (t *BatchTracker) Line() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.line()
}

func (t *BatchTracker) line() string {
	progress := 0.0
	if t.windows > 0 {
		progress = float64(t.done) / float64(t.windows)
	}
	filled := int(progress * barWidth)
	bar := barFilledStyle.Render(strings.Repeat("━", filled)) +
		barEmptyStyle.Render(strings.Repeat("─", barWidth-filled))

	rate := 0.0
	if elapsed := time.Since(t.startTime).Seconds(); elapsed > 0 {
		rate = float64(t.puzzles) / elapsed
	}

	return fmt.Sprintf("%s [%s] %d/%d batches • %d puzzles • %.1f/s",
		labelStyle.Render(string(t.puzzleType)),
		bar,
		t.done,
		t.windows,
		t.puzzles,
		rate,
	)
}

func (t *BatchTracker) render() {
	if t.quiet {
		return
	}
	fmt.Fprintf(t.out, "\r\033[K%s", t.line())
}

var _ scraper.Observer = (*BatchTracker)(nil)

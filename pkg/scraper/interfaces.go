package scraper

import (
	"xwscraper/pkg/nyt"
)

// Observer receives progress events from a scrape. Methods may be called
// from several goroutines at once.
type Observer interface {
	// Planned is called once the windows of the run are known
	Planned(pt nyt.PuzzleType, windows []nyt.Window)
	// PuzzleFetched is called after each puzzle detail is merged
	PuzzleFetched(w nyt.Window)
	// WindowDone is called when every puzzle of a window has been fetched
	WindowDone(stat WindowStat)
}

type nopObserver struct{}

func (nopObserver) Planned(nyt.PuzzleType, []nyt.Window) {}
func (nopObserver) PuzzleFetched(nyt.Window)             {}
func (nopObserver) WindowDone(WindowStat)                {}

package nyt

import (
	"strconv"
)

const (
	// DefaultBaseURL is the root of the crossword service
	DefaultBaseURL = "https://www.nytimes.com"

	// PuzzleListEndpoint returns the puzzles published in a date range
	PuzzleListEndpoint = "/svc/crosswords/v3/puzzles.json"

	// PuzzleDetailEndpoint is the prefix of the per-puzzle game state endpoint
	PuzzleDetailEndpoint = "/svc/crosswords/v6/game/"

	// PingPuzzleID is a puzzle every subscriber can read; fetching it checks the cookie
	PingPuzzleID = 21830

	// CookieName is the session cookie carrying the subscriber token
	CookieName = "NYT-S"

	// DefaultUserAgent is sent when the session does not name one
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

// PuzzleDetailPath returns the path of the detail endpoint for a puzzle id
func PuzzleDetailPath(puzzleID string) string {
	return PuzzleDetailEndpoint + puzzleID + ".json"
}

// PingPath returns the path used for the liveness check
func PingPath() string {
	return PuzzleDetailPath(strconv.Itoa(PingPuzzleID))
}

// PuzzleListParams returns the query of the list endpoint for one window
func PuzzleListParams(pt PuzzleType, w Window) map[string]string {
	return map[string]string{
		"publish_type": string(pt),
		"sort_order":   "asc",
		"sort_by":      "print_date",
		"date_start":   w.Start,
		"date_end":     w.End,
	}
}

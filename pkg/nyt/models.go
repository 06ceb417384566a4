package nyt

import (
	"fmt"
	"strings"
)

// PuzzleType is the publication series a puzzle belongs to
type PuzzleType string

const (
	Daily PuzzleType = "daily"
	Mini  PuzzleType = "mini"
	Bonus PuzzleType = "bonus"
)

// PuzzleTypes lists every supported series in display order
var PuzzleTypes = []PuzzleType{Daily, Mini, Bonus}

// earliestDates holds the first date the service has records for, per series
var earliestDates = map[PuzzleType]string{
	Mini:  "2014-08-21",
	Daily: "1993-11-21",
	Bonus: "1997-02-01",
}

// ParsePuzzleType converts a user supplied string into a PuzzleType
func ParsePuzzleType(s string) (PuzzleType, error) {
	pt := PuzzleType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := earliestDates[pt]; !ok {
		return "", fmt.Errorf("unknown puzzle type %q (want daily, mini or bonus)", s)
	}
	return pt, nil
}

// EarliestDate returns the first YYYY-MM-DD date with puzzles of this type
func (pt PuzzleType) EarliestDate() string {
	return earliestDates[pt]
}

func (pt PuzzleType) String() string {
	return string(pt)
}

// Window is an inclusive date range in YYYY-MM-DD form fetched as one batch
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (w Window) String() string {
	return w.Start + ".." + w.End
}

// PuzzleRecord is one puzzle as returned by the list endpoint, later
// enriched in place with the fields of its detail response.
// Numbers are held as json.Number.
type PuzzleRecord map[string]any

// ID returns the puzzle_id of the record as a string
func (r PuzzleRecord) ID() (string, bool) {
	v, ok := r["puzzle_id"]
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

// listResponse is the body of the puzzle list endpoint
type listResponse struct {
	Results []PuzzleRecord `json:"results"`
}

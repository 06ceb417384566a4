package nyt

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"xwscraper/pkg/errors"
)

const (
	// FieldBoardGuess holds the flattened guesses of a solved board
	FieldBoardGuess = "board.guess"
	// FieldBoardTimestamp holds the flattened edit timestamps of a solved board
	FieldBoardTimestamp = "board.timestamp"
)

// Cell is one square of a puzzle grid
type Cell struct {
	Blank     bool
	Guess     string
	Timestamp int64
}

// BlankFill is the guess/timestamp pair emitted for blank cells
type BlankFill struct {
	Guess     string
	Timestamp int64
}

// DefaultBlankFill marks blank squares with "-" at time 0
var DefaultBlankFill = BlankFill{Guess: "-", Timestamp: 0}

// NormalizedBoard is a board flattened into two index-aligned columns
type NormalizedBoard struct {
	Guesses    []string
	Timestamps []int64
}

// NormalizeBoard flattens cells in their original order. Blank cells
// take the values of fill, or DefaultBlankFill when fill is nil.
func NormalizeBoard(cells []Cell, fill *BlankFill) NormalizedBoard {
	if fill == nil {
		fill = &DefaultBlankFill
	}

	board := NormalizedBoard{
		Guesses:    make([]string, 0, len(cells)),
		Timestamps: make([]int64, 0, len(cells)),
	}
	for _, cell := range cells {
		if cell.Blank {
			board.Guesses = append(board.Guesses, fill.Guess)
			board.Timestamps = append(board.Timestamps, fill.Timestamp)
			continue
		}
		board.Guesses = append(board.Guesses, cell.Guess)
		board.Timestamps = append(board.Timestamps, cell.Timestamp)
	}
	return board
}

// Fields returns the board as record fields ready to merge into a PuzzleRecord
func (b NormalizedBoard) Fields() map[string]any {
	return map[string]any{
		FieldBoardGuess:     b.Guesses,
		FieldBoardTimestamp: b.Timestamps,
	}
}

// DecodeBoard reads the cells of a raw "board" value as decoded from JSON.
// A cell is blank when it carries a "blank" key, whatever its value.
// Missing guess or timestamp fields decode as zero values.
func DecodeBoard(raw any) ([]Cell, error) {
	if raw == nil {
		return []Cell{}, nil
	}
	board, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrorTypeParsing, 0, "board is %T, want object", raw)
	}

	rawCells, ok := board["cells"]
	if !ok || rawCells == nil {
		return []Cell{}, nil
	}
	list, ok := rawCells.([]any)
	if !ok {
		return nil, errors.New(errors.ErrorTypeParsing, 0, "board cells is %T, want array", rawCells)
	}

	cells := make([]Cell, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrorTypeParsing, 0, "cell %d is %T, want object", i, item)
		}
		if _, blank := obj["blank"]; blank {
			cells = append(cells, Cell{Blank: true})
			continue
		}

		var cell Cell
		if g, ok := obj["guess"]; ok && g != nil {
			cell.Guess = fmt.Sprint(g)
		}
		ts, err := toInt64(obj["timestamp"])
		if err != nil {
			return nil, errors.Wrap(errors.ErrorTypeParsing, err, "cell %d timestamp", i)
		}
		cell.Timestamp = ts
		cells = append(cells, cell)
	}
	return cells, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return wholeSeconds(f)
	case float64:
		return wholeSeconds(n)
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

// wholeSeconds accepts integral floats such as 17.0 and rejects fractions
func wholeSeconds(f float64) (int64, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("timestamp %v is not a whole number", f)
	}
	return int64(f), nil
}

package nyt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xwscraper/pkg/errors"
)

func TestNormalizeBoard(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
		fill  *BlankFill
		want  NormalizedBoard
	}{
		{
			name:  "empty board",
			cells: nil,
			want:  NormalizedBoard{Guesses: []string{}, Timestamps: []int64{}},
		},
		{
			name: "filled and blank cells keep order",
			cells: []Cell{
				{Guess: "C", Timestamp: 10},
				{Blank: true},
				{Guess: "T", Timestamp: 12},
			},
			want: NormalizedBoard{
				Guesses:    []string{"C", "-", "T"},
				Timestamps: []int64{10, 0, 12},
			},
		},
		{
			name:  "all blank",
			cells: []Cell{{Blank: true}, {Blank: true}},
			want:  NormalizedBoard{Guesses: []string{"-", "-"}, Timestamps: []int64{0, 0}},
		},
		{
			name:  "custom fill",
			cells: []Cell{{Blank: true}, {Guess: "A", Timestamp: 5}},
			fill:  &BlankFill{Guess: "#", Timestamp: -1},
			want:  NormalizedBoard{Guesses: []string{"#", "A"}, Timestamps: []int64{-1, 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBoard(tt.cells, tt.fill)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeBoard() mismatch (-want +got):\n%s", diff)
			}
			assert.Len(t, got.Guesses, len(tt.cells))
			assert.Len(t, got.Timestamps, len(tt.cells))
		})
	}
}

func TestNormalizeBoardLengthsMatchInput(t *testing.T) {
	for n := 0; n < 50; n++ {
		cells := make([]Cell, n)
		for i := range cells {
			if i%3 == 0 {
				cells[i] = Cell{Blank: true}
			} else {
				cells[i] = Cell{Guess: string(rune('A' + i%26)), Timestamp: int64(i)}
			}
		}

		got := NormalizeBoard(cells, nil)
		require.Len(t, got.Guesses, n)
		require.Len(t, got.Timestamps, n)
		for i, c := range cells {
			if c.Blank {
				assert.Equal(t, DefaultBlankFill.Guess, got.Guesses[i])
				assert.Equal(t, DefaultBlankFill.Timestamp, got.Timestamps[i])
			} else {
				assert.Equal(t, c.Guess, got.Guesses[i])
				assert.Equal(t, c.Timestamp, got.Timestamps[i])
			}
		}
	}
}

func TestNormalizedBoardFields(t *testing.T) {
	fields := NormalizeBoard([]Cell{{Guess: "X", Timestamp: 1}, {Blank: true}}, nil).Fields()

	assert.Equal(t, []string{"X", "-"}, fields[FieldBoardGuess])
	assert.Equal(t, []int64{1, 0}, fields[FieldBoardTimestamp])
	assert.Len(t, fields, 2)
}

func decodeRaw(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestDecodeBoard(t *testing.T) {
	raw := decodeRaw(t, `{"cells": [
		{"guess": "C", "timestamp": 1672531200},
		{"blank": true},
		{"blank": false},
		{},
		{"guess": "T", "timestamp": 17.0, "checked": true}
	]}`)

	cells, err := DecodeBoard(raw)
	require.NoError(t, err)

	want := []Cell{
		{Guess: "C", Timestamp: 1672531200},
		{Blank: true},
		{Blank: true},
		{},
		{Guess: "T", Timestamp: 17},
	}
	if diff := cmp.Diff(want, cells); diff != "" {
		t.Errorf("DecodeBoard() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBoardEmpty(t *testing.T) {
	for _, input := range []string{`null`, `{}`, `{"cells": null}`, `{"cells": []}`} {
		cells, err := DecodeBoard(decodeRaw(t, input))
		require.NoError(t, err, input)
		assert.Empty(t, cells, input)
		assert.NotNil(t, cells, input)
	}
}

func TestDecodeBoardRejectsNonObjects(t *testing.T) {
	for _, input := range []string{`[]`, `{"cells": {}}`, `{"cells": ["A"]}`, `{"cells": [{"timestamp": "soon"}]}`, `{"cells": [{"guess": "A", "timestamp": 17.9}]}`} {
		_, err := DecodeBoard(decodeRaw(t, input))
		require.Error(t, err, input)
		assert.True(t, errors.IsType(err, errors.ErrorTypeParsing), input)
	}
}

func TestDecodeBoardTimestampTypes(t *testing.T) {
	cells, err := DecodeBoard(map[string]any{"cells": []any{
		map[string]any{"guess": "A", "timestamp": float64(42)},
		map[string]any{"guess": "B", "timestamp": "43"},
		map[string]any{"guess": "C", "timestamp": 44},
	}})
	require.NoError(t, err)
	require.Len(t, cells, 3)
	assert.Equal(t, int64(42), cells[0].Timestamp)
	assert.Equal(t, int64(43), cells[1].Timestamp)
	assert.Equal(t, int64(44), cells[2].Timestamp)

	_, err = DecodeBoard(map[string]any{"cells": []any{
		map[string]any{"guess": "A", "timestamp": 42.5},
	}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParsing))
	assert.Contains(t, err.Error(), "not a whole number")
}

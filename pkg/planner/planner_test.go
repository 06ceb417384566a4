package planner

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xwscraper/pkg/errors"
	"xwscraper/pkg/nyt"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name       string
		pt         nyt.PuzzleType
		start, end string
		want       []nyt.Window
	}{
		{
			name:  "one full month",
			pt:    nyt.Daily,
			start: "2023-01-01", end: "2023-01-31",
			want: []nyt.Window{{Start: "2023-01-01", End: "2023-01-31"}},
		},
		{
			name:  "inside one month",
			pt:    nyt.Mini,
			start: "2023-03-05", end: "2023-03-20",
			want: []nyt.Window{{Start: "2023-03-05", End: "2023-03-20"}},
		},
		{
			name:  "single day",
			pt:    nyt.Daily,
			start: "2023-03-01", end: "2023-03-01",
			want: []nyt.Window{{Start: "2023-03-01", End: "2023-03-01"}},
		},
		{
			name:  "last day of month only",
			pt:    nyt.Daily,
			start: "2023-01-31", end: "2023-01-31",
			want: []nyt.Window{{Start: "2023-01-31", End: "2023-01-31"}},
		},
		{
			name:  "partial edges",
			pt:    nyt.Daily,
			start: "2023-01-15", end: "2023-03-10",
			want: []nyt.Window{
				{Start: "2023-01-15", End: "2023-01-31"},
				{Start: "2023-02-01", End: "2023-02-28"},
				{Start: "2023-03-01", End: "2023-03-10"},
			},
		},
		{
			name:  "leap february",
			pt:    nyt.Mini,
			start: "2024-02-10", end: "2024-03-31",
			want: []nyt.Window{
				{Start: "2024-02-10", End: "2024-02-29"},
				{Start: "2024-03-01", End: "2024-03-31"},
			},
		},
		{
			name:  "across new year",
			pt:    nyt.Daily,
			start: "2022-12-25", end: "2023-01-05",
			want: []nyt.Window{
				{Start: "2022-12-25", End: "2022-12-31"},
				{Start: "2023-01-01", End: "2023-01-05"},
			},
		},
		{
			name:  "bonus aligns to years",
			pt:    nyt.Bonus,
			start: "2021-06-01", end: "2023-02-01",
			want: []nyt.Window{
				{Start: "2021-06-01", End: "2021-12-31"},
				{Start: "2022-01-01", End: "2022-12-31"},
				{Start: "2023-01-01", End: "2023-02-01"},
			},
		},
		{
			name:  "bonus inside one year",
			pt:    nyt.Bonus,
			start: "2023-02-01", end: "2023-11-30",
			want: []nyt.Window{{Start: "2023-02-01", End: "2023-11-30"}},
		},
		{
			name:  "bonus full year",
			pt:    nyt.Bonus,
			start: "2020-01-01", end: "2020-12-31",
			want: []nyt.Window{{Start: "2020-01-01", End: "2020-12-31"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := Plan(tt.pt, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Plan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlanErrors(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"start after end", "2023-02-01", "2023-01-01"},
		{"bad start", "2023/01/01", "2023-01-31"},
		{"bad end", "2023-01-01", "yesterday"},
		{"impossible date", "2023-02-30", "2023-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Plan(nyt.Daily, tt.start, tt.end)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeRange))
		})
	}
}

// checkPartition asserts windows cover [start, end] in order with no gap or overlap
func checkPartition(t *testing.T, pt nyt.PuzzleType, start, end string, windows []nyt.Window) {
	t.Helper()
	require.NotEmpty(t, windows)
	assert.Equal(t, start, windows[0].Start)
	assert.Equal(t, end, windows[len(windows)-1].End)

	period := PeriodFor(pt)
	for i, w := range windows {
		s, err := time.Parse(dateFormat, w.Start)
		require.NoError(t, err)
		e, err := time.Parse(dateFormat, w.End)
		require.NoError(t, err)

		assert.False(t, s.After(e), "window %d inverted: %v", i, w)
		assert.True(t, period.start(s).Equal(period.start(e)), "window %d spans periods: %v", i, w)
		if i > 0 {
			prev, _ := time.Parse(dateFormat, windows[i-1].End)
			assert.True(t, prev.AddDate(0, 0, 1).Equal(s), "gap or overlap before window %d: %v", i, w)
		}
	}
}

func TestPlanPartitionsRange(t *testing.T) {
	base := time.Date(2019, time.November, 3, 0, 0, 0, 0, time.UTC)
	for _, pt := range nyt.PuzzleTypes {
		for offset := 0; offset < 400; offset += 37 {
			for length := 0; length < 900; length += 53 {
				start := base.AddDate(0, 0, offset).Format(dateFormat)
				end := base.AddDate(0, 0, offset+length).Format(dateFormat)

				windows, n, err := Plan(pt, start, end)
				require.NoError(t, err)
				assert.Len(t, windows, n)
				checkPartition(t, pt, start, end, windows)
			}
		}
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	first, _, err := Plan(nyt.Daily, "2020-02-17", "2021-08-09")
	require.NoError(t, err)
	second, _, err := Plan(nyt.Daily, "2020-02-17", "2021-08-09")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 19)
}

func TestPeriodFor(t *testing.T) {
	assert.Equal(t, Month, PeriodFor(nyt.Daily))
	assert.Equal(t, Month, PeriodFor(nyt.Mini))
	assert.Equal(t, Year, PeriodFor(nyt.Bonus))
	assert.Equal(t, "year", Year.String())
}

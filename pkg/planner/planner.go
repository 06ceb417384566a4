// Package planner splits a date range into calendar aligned fetch windows.
package planner

import (
	"time"

	"xwscraper/pkg/errors"
	"xwscraper/pkg/nyt"
)

const dateFormat = "2006-01-02"

// Period is the calendar unit windows are aligned to
type Period int

const (
	Month Period = iota
	Year
)

func (p Period) String() string {
	if p == Year {
		return "year"
	}
	return "month"
}

// PeriodFor returns the alignment used for a puzzle type: bonus puzzles
// are listed per year, everything else per month
func PeriodFor(pt nyt.PuzzleType) Period {
	if pt == nyt.Bonus {
		return Year
	}
	return Month
}

// start returns the first day of the period containing t
func (p Period) start(t time.Time) time.Time {
	if p == Year {
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// next returns the first day of the period after the one containing t
func (p Period) next(t time.Time) time.Time {
	if p == Year {
		return p.start(t).AddDate(1, 0, 0)
	}
	return p.start(t).AddDate(0, 1, 0)
}

// end returns the last day of the period containing t
func (p Period) end(t time.Time) time.Time {
	return p.next(t).AddDate(0, 0, -1)
}

// Plan returns the windows covering [start, end] and their count.
// Every period boundary inside the range starts or ends a window; a start
// or end falling mid-period opens or closes a partial window.
func Plan(pt nyt.PuzzleType, start, end string) ([]nyt.Window, int, error) {
	from, err := time.Parse(dateFormat, start)
	if err != nil {
		return nil, 0, errors.New(errors.ErrorTypeRange, 0, "invalid start date %q, want YYYY-MM-DD", start)
	}
	to, err := time.Parse(dateFormat, end)
	if err != nil {
		return nil, 0, errors.New(errors.ErrorTypeRange, 0, "invalid end date %q, want YYYY-MM-DD", end)
	}
	if from.After(to) {
		return nil, 0, errors.New(errors.ErrorTypeRange, 0, "start date %s is after end date %s", start, end)
	}

	period := PeriodFor(pt)

	var starts, ends []time.Time
	for d := period.start(from); !d.After(to); d = period.next(d) {
		if !d.Before(from) {
			starts = append(starts, d)
		}
		if e := period.end(d); !e.After(to) && !e.Before(from) {
			ends = append(ends, e)
		}
	}

	if !from.Equal(period.start(from)) {
		starts = append([]time.Time{from}, starts...)
	}
	if !to.Equal(period.end(to)) {
		ends = append(ends, to)
	}

	windows := make([]nyt.Window, 0, len(starts))
	for i := 0; i < len(starts) && i < len(ends); i++ {
		windows = append(windows, nyt.Window{
			Start: starts[i].Format(dateFormat),
			End:   ends[i].Format(dateFormat),
		})
	}
	return windows, len(windows), nil
}

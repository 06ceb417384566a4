package scraper

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"xwscraper/internal/batch"
	"xwscraper/pkg/errors"
	"xwscraper/pkg/hostlimit"
	"xwscraper/pkg/logger"
	"xwscraper/pkg/nyt"
	"xwscraper/pkg/planner"
)

const dateFormat = "2006-01-02"

// Request names what to scrape. Dates are inclusive YYYY-MM-DD.
type Request struct {
	Token      string
	PuzzleType nyt.PuzzleType
	StartDate  string
	EndDate    string
}

// WindowStat summarizes one finished window
type WindowStat struct {
	Window   nyt.Window
	Puzzles  int
	Duration time.Duration
}

// Result is the outcome of a successful scrape
type Result struct {
	PuzzleType nyt.PuzzleType
	// Records holds every puzzle found. Puzzles of one window are contiguous
	// and in print date order; windows appear in completion order.
	Records []nyt.PuzzleRecord
	// Windows is sorted by start date
	Windows []WindowStat
	// Start and End are the effective range after clamping
	Start    string
	End      string
	Clamped  bool
	Duration time.Duration
}

// Options configures a Scraper
type Options struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds each request; zero means none
	Timeout time.Duration
	// HostLimit caps concurrent requests to the service, default hostlimit.DefaultLimit
	HostLimit int
	BlankFill *nyt.BlankFill
	Observer  Observer
	Logger    logger.Logger
}

// Scraper runs scrapes against the crossword service
type Scraper struct {
	opts   Options
	logger logger.Logger
}

// New creates a Scraper
func New(opts Options) *Scraper {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.HostLimit <= 0 {
		opts.HostLimit = hostlimit.DefaultLimit
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &Scraper{
		opts:   opts,
		logger: log.WithField("component", "scraper"),
	}
}

// ClampStart moves start forward to the first date the service has
// puzzles of type pt for. It reports whether start was moved.
func ClampStart(pt nyt.PuzzleType, start string) (string, bool, error) {
	requested, err := time.Parse(dateFormat, start)
	if err != nil {
		return "", false, errors.New(errors.ErrorTypeRange, 0, "invalid start date %q, want YYYY-MM-DD", start)
	}
	floor, err := time.Parse(dateFormat, pt.EarliestDate())
	if err != nil {
		return "", false, errors.New(errors.ErrorTypeRange, 0, "unknown puzzle type %q", pt)
	}
	if requested.Before(floor) {
		return pt.EarliestDate(), true, nil
	}
	return start, false, nil
}

// Scrape fetches every puzzle of req.PuzzleType published between the
// request dates together with the subscriber's solve detail.
//
// The token is checked with one liveness request before any batch work.
// All windows and all puzzles within them are fetched concurrently over one
// shared client; any failure aborts the run and no partial result is returned.
func (s *Scraper) Scrape(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()

	if req.Token == "" {
		return nil, errors.New(errors.ErrorTypeAuth, 0, "no NYT-S token provided")
	}
	pt, err := nyt.ParsePuzzleType(string(req.PuzzleType))
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeRange, err, "invalid request")
	}

	start, clamped, err := ClampStart(pt, req.StartDate)
	if err != nil {
		return nil, err
	}
	if clamped {
		s.logger.InfoWithFields("Start date precedes the earliest available puzzle, clamping", map[string]interface{}{
			"puzzle_type": string(pt),
			"requested":   req.StartDate,
			"start":       start,
		})
	}

	windows, count, err := planner.Plan(pt, start, req.EndDate)
	if err != nil {
		return nil, err
	}
	s.logger.InfoWithFields(fmt.Sprintf("Getting solve stats from %s until %s in %d batches", start, req.EndDate, count), map[string]interface{}{
		"puzzle_type": string(pt),
		"batches":     count,
	})

	limiter := hostlimit.NewLimiter(s.opts.HostLimit)
	client := nyt.NewClient(nyt.Options{
		BaseURL:    s.opts.BaseURL,
		Token:      req.Token,
		UserAgent:  s.opts.UserAgent,
		Timeout:    s.opts.Timeout,
		HTTPClient: limiter.Client(),
		BlankFill:  s.opts.BlankFill,
		Logger:     s.logger,
	})
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		return nil, err
	}
	s.logger.Debug("Session cookie accepted")

	s.opts.Observer.Planned(pt, windows)

	runner := batch.NewRunner(client, s.logger)
	runner.OnDetail = func(w nyt.Window, _ nyt.PuzzleRecord) {
		s.opts.Observer.PuzzleFetched(w)
	}

	result := &Result{
		PuzzleType: pt,
		Records:    []nyt.PuzzleRecord{},
		Windows:    make([]WindowStat, 0, count),
		Start:      start,
		End:        req.EndDate,
		Clamped:    clamped,
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range windows {
		g.Go(func() error {
			windowStart := time.Now()
			records, err := runner.Run(gctx, pt, w)
			logger.LogWindow(s.logger, string(pt), w.Start, w.End, len(records), err)
			if err != nil {
				return err
			}

			stat := WindowStat{Window: w, Puzzles: len(records), Duration: time.Since(windowStart)}
			mu.Lock()
			result.Records = append(result.Records, records...)
			result.Windows = append(result.Windows, stat)
			done := len(result.Windows)
			mu.Unlock()

			s.opts.Observer.WindowDone(stat)
			logger.LogScrapeProgress(s.logger, string(pt), done, count)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Windows, func(i, j int) bool {
		return result.Windows[i].Window.Start < result.Windows[j].Window.Start
	})
	result.Duration = time.Since(started)

	s.logger.InfoWithFields("Scrape completed", map[string]interface{}{
		"puzzle_type": string(pt),
		"puzzles":     len(result.Records),
		"batches":     count,
		"duration":    result.Duration,
	})
	return result, nil
}

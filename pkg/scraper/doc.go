// Package scraper retrieves a subscriber's crossword solve history.
//
// A scrape runs in three phases, each finishing before the next starts:
//
//  1. the start date is clamped to the first date puzzles of the requested
//     type exist, and the range is split into calendar windows (months, or
//     years for bonus puzzles)
//  2. the NYT-S token is checked with a single liveness request
//  3. every window is fetched concurrently: one list request, then all of
//     the window's puzzle details at once
//
// Every request of a run shares one client whose transport admits at most
// hostlimit.DefaultLimit requests at a time. A single failed request aborts
// the whole run.
//
//	s := scraper.New(scraper.Options{Observer: tracker})
//	res, err := s.Scrape(ctx, scraper.Request{
//	    Token:      token,
//	    PuzzleType: nyt.Daily,
//	    StartDate:  "2023-01-01",
//	    EndDate:    "2023-01-31",
//	})
package scraper

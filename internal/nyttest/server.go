// Package nyttest runs an in-process stand-in for the crossword service.
package nyttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"xwscraper/pkg/nyt"
)

// Puzzle is one fixture served by the mock service
type Puzzle struct {
	ID        int
	Type      nyt.PuzzleType
	PrintDate string
	// Cells is the raw board; nil means the detail has no board field
	Cells []map[string]any
}

// Server simulates the list, detail and ping endpoints
type Server struct {
	server *httptest.Server
	token  string

	mu             sync.RWMutex
	puzzles        []Puzzle
	errorResponses map[string]int // path -> status
	delay          time.Duration

	listRequests   int32
	detailRequests int32
	pingRequests   int32
	inFlight       int32
	maxInFlight    int32
}

// NewServer starts a mock service that accepts token as the NYT-S cookie
func NewServer(token string) *Server {
	m := &Server{
		token:          token,
		errorResponses: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(nyt.PuzzleListEndpoint, m.track(m.handleList))
	mux.HandleFunc(nyt.PuzzleDetailEndpoint, m.track(m.handleDetail))

	m.server = httptest.NewServer(mux)
	return m
}

// URL returns the base URL of the mock service
func (m *Server) URL() string {
	return m.server.URL
}

// Close shuts down the mock service
func (m *Server) Close() {
	m.server.Close()
}

// AddPuzzle registers a fixture
func (m *Server) AddPuzzle(p Puzzle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puzzles = append(m.puzzles, p)
}

// AddRange registers one puzzle per day from start to end inclusive, ids
// counting up from firstID. Each gets a four cell board with one blank.
func (m *Server) AddRange(pt nyt.PuzzleType, start, end string, firstID int) int {
	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		panic(err)
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		panic(err)
	}

	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		id := firstID + n
		m.AddPuzzle(Puzzle{
			ID:        id,
			Type:      pt,
			PrintDate: d.Format("2006-01-02"),
			Cells:     SampleCells(int64(id)),
		})
		n++
	}
	return n
}

// SampleCells returns a small board: three filled cells and one blank
func SampleCells(base int64) []map[string]any {
	return []map[string]any{
		{"guess": "C", "timestamp": base},
		{"blank": true},
		{"guess": "A", "timestamp": base + 1},
		{"guess": "T", "timestamp": base + 2},
	}
}

// SetErrorResponse makes requests for path answer with code
func (m *Server) SetErrorResponse(path string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[path] = code
}

// SetDelay holds every list and detail response for d
func (m *Server) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// ListRequests returns the number of list requests served
func (m *Server) ListRequests() int {
	return int(atomic.LoadInt32(&m.listRequests))
}

// DetailRequests returns the number of detail requests served, pings excluded
func (m *Server) DetailRequests() int {
	return int(atomic.LoadInt32(&m.detailRequests))
}

// PingRequests returns the number of liveness checks served
func (m *Server) PingRequests() int {
	return int(atomic.LoadInt32(&m.pingRequests))
}

// MaxInFlight returns the highest number of requests handled at once
func (m *Server) MaxInFlight() int {
	return int(atomic.LoadInt32(&m.maxInFlight))
}

// track counts concurrent requests and pings, applies the configured delay
// and rejects requests without the session cookie
func (m *Server) track(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt32(&m.inFlight, 1)
		defer atomic.AddInt32(&m.inFlight, -1)
		for {
			seen := atomic.LoadInt32(&m.maxInFlight)
			if current <= seen || atomic.CompareAndSwapInt32(&m.maxInFlight, seen, current) {
				break
			}
		}

		m.mu.RLock()
		delay := m.delay
		code := m.errorResponses[r.URL.Path]
		m.mu.RUnlock()

		if delay > 0 {
			time.Sleep(delay)
		}

		// pings are counted even when the cookie is rejected
		if r.URL.Path == nyt.PingPath() {
			atomic.AddInt32(&m.pingRequests, 1)
		}

		cookie, err := r.Cookie(nyt.CookieName)
		if err != nil || cookie.Value != m.token {
			writeJSON(w, http.StatusForbidden, map[string]any{"message": "Forbidden"})
			return
		}
		if code > 0 {
			writeJSON(w, code, map[string]any{"message": http.StatusText(code)})
			return
		}
		next(w, r)
	}
}

func (m *Server) handleList(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.listRequests, 1)

	q := r.URL.Query()
	pt := nyt.PuzzleType(q.Get("publish_type"))
	start, end := q.Get("date_start"), q.Get("date_end")
	if q.Get("sort_by") != "print_date" || q.Get("sort_order") != "asc" || start == "" || end == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad query"})
		return
	}

	m.mu.RLock()
	var matched []Puzzle
	for _, p := range m.puzzles {
		// YYYY-MM-DD compares correctly as a string
		if p.Type == pt && p.PrintDate >= start && p.PrintDate <= end {
			matched = append(matched, p)
		}
	}
	m.mu.RUnlock()
	sort.Slice(matched, func(i, j int) bool { return matched[i].PrintDate < matched[j].PrintDate })

	results := make([]map[string]any, 0, len(matched))
	for _, p := range matched {
		results = append(results, map[string]any{
			"puzzle_id":      p.ID,
			"print_date":     p.PrintDate,
			"publish_type":   string(p.Type),
			"author":         "Mock Constructor",
			"editor":         "Mock Editor",
			"format_type":    "Normal",
			"title":          "",
			"version":        0,
			"percent_filled": 100,
			"solved":         true,
			"star":           nil,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "OK", "results": results})
}

func (m *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, nyt.PuzzleDetailEndpoint)
	id, err := strconv.Atoi(strings.TrimSuffix(name, ".json"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		return
	}

	if id == nyt.PingPuzzleID {
		writeJSON(w, http.StatusOK, map[string]any{"puzzleID": id})
		return
	}
	atomic.AddInt32(&m.detailRequests, 1)

	m.mu.RLock()
	var found *Puzzle
	for i := range m.puzzles {
		if m.puzzles[i].ID == id {
			found = &m.puzzles[i]
			break
		}
	}
	m.mu.RUnlock()
	if found == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": fmt.Sprintf("puzzle %d not found", id)})
		return
	}

	detail := map[string]any{
		"puzzleID": id,
		"calcs": map[string]any{
			"secondsSpentSolving": 300,
			"solved":              true,
		},
		"lastCommitID": "mock-" + strconv.Itoa(id),
		"solved":       true,
	}
	if found.Cells != nil {
		detail["board"] = map[string]any{"cells": found.Cells}
	}
	writeJSON(w, http.StatusOK, detail)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

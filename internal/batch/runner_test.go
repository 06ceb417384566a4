package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xwscraper/internal/nyttest"
	"xwscraper/pkg/logger"
	"xwscraper/pkg/nyt"
)

// mockFetcher serves a fixed list and records detail calls
type mockFetcher struct {
	summaries []nyt.PuzzleRecord
	listErr   error
	failID    string
	delay     time.Duration

	mu          sync.Mutex
	listCalls   []nyt.Window
	detailCalls int32
	current     int32
	peak        int32
}

func (m *mockFetcher) FetchPuzzles(ctx context.Context, pt nyt.PuzzleType, w nyt.Window) ([]nyt.PuzzleRecord, error) {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, w)
	m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.summaries, nil
}

func (m *mockFetcher) FetchPuzzleDetail(ctx context.Context, rec nyt.PuzzleRecord) (nyt.PuzzleRecord, error) {
	atomic.AddInt32(&m.detailCalls, 1)
	n := atomic.AddInt32(&m.current, 1)
	defer atomic.AddInt32(&m.current, -1)
	for {
		p := atomic.LoadInt32(&m.peak)
		if n <= p || atomic.CompareAndSwapInt32(&m.peak, p, n) {
			break
		}
	}

	id, _ := rec.ID()
	if id == m.failID {
		return nil, errors.New("detail unavailable")
	}
	select {
	case <-time.After(m.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	rec["detail"] = "id-" + id
	return rec, nil
}

func summaries(n int) []nyt.PuzzleRecord {
	out := make([]nyt.PuzzleRecord, n)
	for i := range out {
		out[i] = nyt.PuzzleRecord{"puzzle_id": json.Number(fmt.Sprint(1000 + i))}
	}
	return out
}

var january = nyt.Window{Start: "2023-01-01", End: "2023-01-31"}

func TestRunFetchesEveryDetail(t *testing.T) {
	fetcher := &mockFetcher{summaries: summaries(31), delay: 10 * time.Millisecond}
	runner := NewRunner(fetcher, logger.NewNopLogger())

	var seen int32
	runner.OnDetail = func(w nyt.Window, rec nyt.PuzzleRecord) {
		assert.Equal(t, january, w)
		atomic.AddInt32(&seen, 1)
	}

	records, err := runner.Run(context.Background(), nyt.Daily, january)
	require.NoError(t, err)

	require.Len(t, records, 31)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("id-%d", 1000+i), rec["detail"], "records keep list order")
	}
	assert.Equal(t, []nyt.Window{january}, fetcher.listCalls)
	assert.EqualValues(t, 31, atomic.LoadInt32(&fetcher.detailCalls))
	assert.EqualValues(t, 31, atomic.LoadInt32(&seen))
	assert.Greater(t, int(atomic.LoadInt32(&fetcher.peak)), 1, "details run concurrently")
}

func TestRunEmptyWindow(t *testing.T) {
	fetcher := &mockFetcher{summaries: []nyt.PuzzleRecord{}}
	records, err := NewRunner(fetcher, logger.NewNopLogger()).Run(context.Background(), nyt.Bonus, january)

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, atomic.LoadInt32(&fetcher.detailCalls))
}

func TestRunListError(t *testing.T) {
	listErr := errors.New("list down")
	fetcher := &mockFetcher{listErr: listErr}

	_, err := NewRunner(fetcher, logger.NewNopLogger()).Run(context.Background(), nyt.Daily, january)
	require.Error(t, err)
	assert.ErrorIs(t, err, listErr)
	assert.Contains(t, err.Error(), january.String())
	assert.Zero(t, atomic.LoadInt32(&fetcher.detailCalls))
}

func TestRunDetailErrorFailsWindow(t *testing.T) {
	fetcher := &mockFetcher{summaries: summaries(20), failID: "1007", delay: time.Second}

	start := time.Now()
	records, err := NewRunner(fetcher, logger.NewNopLogger()).Run(context.Background(), nyt.Daily, january)

	require.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "puzzle 1007")
	assert.Less(t, time.Since(start), time.Second, "siblings are cancelled")
}

func TestRunAgainstMockService(t *testing.T) {
	srv := nyttest.NewServer("token")
	defer srv.Close()
	n := srv.AddRange(nyt.Daily, "2023-01-01", "2023-01-31", 20000)

	client := nyt.NewClient(nyt.Options{BaseURL: srv.URL(), Token: "token", Logger: logger.NewNopLogger()})
	defer client.Close()

	records, err := NewRunner(client, logger.NewNopLogger()).Run(context.Background(), nyt.Daily, january)
	require.NoError(t, err)

	assert.Len(t, records, n)
	assert.Equal(t, 1, srv.ListRequests())
	assert.Equal(t, n, srv.DetailRequests())
	for _, rec := range records {
		assert.Contains(t, rec, nyt.FieldBoardGuess)
		assert.NotContains(t, rec, "board")
	}
}

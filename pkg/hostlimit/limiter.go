package hostlimit

import (
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultLimit is the number of requests allowed in flight to the service at once
const DefaultLimit = 20

// Limiter caps the number of requests in flight through a transport.
// A slot is held from the start of a round trip until the response body
// is closed, so it covers the whole connection use.
type Limiter struct {
	sem      *semaphore.Weighted
	size     int
	inFlight atomic.Int64
}

// NewLimiter creates a limiter allowing n concurrent requests
func NewLimiter(n int) *Limiter {
	if n <= 0 {
		n = DefaultLimit
	}
	return &Limiter{
		sem:  semaphore.NewWeighted(int64(n)),
		size: n,
	}
}

// Size returns the configured capacity
func (l *Limiter) Size() int {
	return l.size
}

// InFlight returns the number of requests currently holding a slot
func (l *Limiter) InFlight() int {
	return int(l.inFlight.Load())
}

// Acquire blocks until a slot is free or ctx is done
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	l.inFlight.Add(1)
	return nil
}

// Release frees a slot taken by Acquire
func (l *Limiter) Release() {
	l.inFlight.Add(-1)
	l.sem.Release(1)
}

// Transport wraps base so every round trip takes a slot.
// A nil base uses NewTransport(l.Size()).
func (l *Limiter) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = NewTransport(l.size)
	}
	return &roundTripper{limiter: l, base: base}
}

// Client returns an http.Client whose transport is capped by l
func (l *Limiter) Client() *http.Client {
	return &http.Client{Transport: l.Transport(nil)}
}

// NewTransport clones the default transport with the per-host connection
// pool capped at n
func NewTransport(n int) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxConnsPerHost = n
	t.MaxIdleConnsPerHost = n
	return t
}

type roundTripper struct {
	limiter *Limiter
	base    http.RoundTripper
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := rt.limiter.Acquire(req.Context()); err != nil {
		return nil, err
	}

	resp, err := rt.base.RoundTrip(req)
	if err != nil {
		rt.limiter.Release()
		return nil, err
	}
	resp.Body = &releaseOnClose{ReadCloser: resp.Body, release: rt.limiter.Release}
	return resp, nil
}

// CloseIdleConnections forwards to the wrapped transport
func (rt *roundTripper) CloseIdleConnections() {
	type closeIdler interface{ CloseIdleConnections() }
	if c, ok := rt.base.(closeIdler); ok {
		c.CloseIdleConnections()
	}
}

type releaseOnClose struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (r *releaseOnClose) Close() error {
	err := r.ReadCloser.Close()
	r.once.Do(r.release)
	return err
}

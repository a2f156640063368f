package chesscom

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type timedRequest struct {
	start time.Time
	end   time.Time
}

// timedServer answers every archive after latency and records when each
// request arrived and when its handler finished.
type timedServer struct {
	mu       sync.Mutex
	requests []timedRequest
}

func (s *timedServer) timings() []timedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]timedRequest(nil), s.requests...)
}

func newTimedServer(t *testing.T, latency time.Duration) (*timedServer, *httptest.Server) {
	t.Helper()
	ts := &timedServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		time.Sleep(latency)
		fmt.Fprintf(w, "games for %s", r.URL.Path)
		ts.mu.Lock()
		ts.requests = append(ts.requests, timedRequest{start: start, end: time.Now()})
		ts.mu.Unlock()
	}))
	t.Cleanup(srv.Close)
	return ts, srv
}

// brokenDoer fails the listed paths at the transport level and hands the rest
// to next.
type brokenDoer struct {
	next  *http.Client
	paths map[string]bool
}

func (b *brokenDoer) Do(req *http.Request) (*http.Response, error) {
	if b.paths[req.URL.Path] {
		return nil, errors.New("connection reset by peer")
	}
	return b.next.Do(req)
}

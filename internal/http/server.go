// Package http exposes the ledger over a JSON API: the boundary the
// entry-creation and dashboard screens talk to.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/session"
)

const postRateLimit = 60 // per IP per minute

type Server struct {
	http.Server

	svc  *ledger.Service
	gate *session.Gate

	rateLimiter  *rateLimiter
	summaryCache *cache.LRU[core.Overview]

	unsubscribe  func()
	stopWatching chan struct{}
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run
// server. The ledger service must already be loaded by the caller.
func NewServer(addr string, svc *ledger.Service, gate *session.Gate) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:          svc,
		gate:         gate,
		rateLimiter:  newRateLimiter(postRateLimit),
		summaryCache: cache.NewLRU[core.Overview](100, 5*time.Minute),
		stopWatching: make(chan struct{}),
	}

	// Drop memoized summaries whenever the ledger changes.
	notify, unsubscribe := svc.Subscribe()
	s.unsubscribe = unsubscribe
	go s.watchLedger(notify)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/register", s.withCommon(s.handleRegister))
	mux.HandleFunc("/api/login", s.withCommon(s.handleLogin))
	mux.HandleFunc("/api/categories", s.withCommon(s.handleCategories))
	mux.HandleFunc("/api/progress", s.withCommon(s.handleProgress))

	mux.HandleFunc("/api/entries", s.withCommon(s.withAuth(s.handleEntries)))
	mux.HandleFunc("/api/summary", s.withCommon(s.withAuth(s.handleSummary)))

	return s
}

func (s *Server) watchLedger(notify <-chan struct{}) {
	for {
		select {
		case <-notify:
			s.summaryCache.Purge()
		case <-s.stopWatching:
			return
		}
	}
}

// Shutdown stops the HTTP server plus the cache watcher and rate
// limiter goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopWatching)
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready once the ledger cache is valid.
	if s.svc.Revision() == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"
)

// InMemoryIdempotencyStore caches responses by Idempotency-Key so retried
// provider actions (at-least-once delivery) do not execute twice at the
// HTTP layer. The engine's operations are additionally retry-safe on their
// own; this is a fast path, not the correctness mechanism.
type InMemoryIdempotencyStore struct {
	ttl      time.Duration
	mu       sync.Mutex
	entries  map[string]*idempotencyEntry
	stop     chan struct{}
	stopOnce sync.Once
}

type idempotencyEntry struct {
	statusCode int
	body       []byte
	storedAt   time.Time
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		ttl:     ttl,
		entries: make(map[string]*idempotencyEntry),
		stop:    make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *InMemoryIdempotencyStore) get(key string) (*idempotencyEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || time.Since(e.storedAt) > s.ttl {
		return nil, false
	}
	return e, true
}

func (s *InMemoryIdempotencyStore) put(key string, statusCode int, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &idempotencyEntry{
		statusCode: statusCode,
		body:       body,
		storedAt:   time.Now(),
	}
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			for key, e := range s.entries {
				if time.Since(e.storedAt) > s.ttl {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

type recordingWriter struct {
	http.ResponseWriter
	statusCode int
	buf        bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.buf.Write(b)
	return rw.ResponseWriter.Write(b)
}

// Idempotency replays the cached response for repeated POSTs carrying the
// same key header. Only successful responses are cached, so a failed
// attempt can be retried for real.
func Idempotency(store *InMemoryIdempotencyStore, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(header)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if cached, ok := store.get(key); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotency-Replay", "true")
				w.WriteHeader(cached.statusCode)
				_, _ = w.Write(cached.body)
				return
			}

			rw := &recordingWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			if rw.statusCode < 300 {
				store.put(key, rw.statusCode, rw.buf.Bytes())
			}
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeIdempotencyStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{values: make(map[string][]byte)}
}

func (s *fakeIdempotencyStore) CheckAndSet(_ context.Context, key string, _ []byte, _ time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key]; ok {
		return true, v, nil
	}
	s.values[key] = []byte("processing")
	return false, nil, nil
}

func (s *fakeIdempotencyStore) Update(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func TestIdempotencyReplaysFirstResponse(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"ord_1"}`))
	})

	mw := NewIdempotencyMiddleware(newFakeIdempotencyStore())
	wrapped := mw.Wrap(handler)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{}"))
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	wrapped.ServeHTTP(first, req)

	if first.Code != http.StatusCreated {
		t.Fatalf("first request status = %d, want 201", first.Code)
	}

	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{}"))
	req2.Header.Set(IdempotencyKeyHeader, "key-1")
	wrapped.ServeHTTP(second, req2)

	if calls != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
	if second.Header().Get("X-Idempotency-Replay") != "true" {
		t.Error("expected replay header on second response")
	}
	if second.Body.String() != `{"id":"ord_1"}` {
		t.Errorf("replayed body = %q", second.Body.String())
	}
}

func TestIdempotencySkipsGetRequests(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	mw := NewIdempotencyMiddleware(newFakeIdempotencyStore())
	wrapped := mw.Wrap(handler)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ord_1", nil)
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		wrapped.ServeHTTP(rec, req)
	}

	if calls != 2 {
		t.Fatalf("handler called %d times, want 2", calls)
	}
}

func TestIdempotencyDoesNotCacheFailures(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"ord_2"}`))
	})

	store := newFakeIdempotencyStore()
	mw := NewIdempotencyMiddleware(store)
	wrapped := mw.Wrap(handler)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-2")
	wrapped.ServeHTTP(first, req)

	if first.Code != http.StatusConflict {
		t.Fatalf("first status = %d, want 409", first.Code)
	}

	// The placeholder stays "processing" after a failure, so the retry runs
	// the handler again.
	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	req2.Header.Set(IdempotencyKeyHeader, "key-2")
	wrapped.ServeHTTP(second, req2)

	if calls != 2 {
		t.Fatalf("handler called %d times, want 2", calls)
	}
	if second.Code != http.StatusCreated {
		t.Errorf("second status = %d, want 201", second.Code)
	}
}

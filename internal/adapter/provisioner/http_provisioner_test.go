package provisioner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
)

func testRequest() usecase.ProvisionRequest {
	return usecase.ProvisionRequest{
		Server:      domain.ServerRef{ID: "srv-de-1", Name: "Germany 1"},
		Username:    "SUB-ABCDEFGH",
		DataLimitGB: 50,
		ExpiresAt:   time.Now().UTC().Add(30 * 24 * time.Hour),
	}
}

func TestProvisionSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req struct {
			Username string `json:"username"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "SUB-ABCDEFGH" {
			t.Errorf("unexpected username %q", req.Username)
		}

		_ = json.NewEncoder(w).Encode(map[string]string{"access_config": "vpn://abc"})
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL, APIKey: "test-key"}, zerolog.Nop())

	config, err := p.Provision(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("provision failed: %v", err)
	}
	if config != "vpn://abc" {
		t.Errorf("expected vpn://abc, got %q", config)
	}
}

func TestProvisionRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_config": "vpn://abc"})
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL, APIKey: "k", MaxRetries: 5}, zerolog.Nop())

	config, err := p.Provision(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("provision failed: %v", err)
	}
	if config != "vpn://abc" {
		t.Errorf("expected config after retries, got %q", config)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestProvisionClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "duplicate username", http.StatusConflict)
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL, APIKey: "k", MaxRetries: 5}, zerolog.Nop())

	_, err := p.Provision(context.Background(), testRequest())

	var perm *permanentStatusError
	if !errors.As(err, &perm) {
		t.Fatalf("expected permanent status error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected no retries on 4xx, got %d attempts", got)
	}
}

func TestProvisionGivesUpAfterMaxRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL, APIKey: "k", MaxRetries: 2}, zerolog.Nop())

	if _, err := p.Provision(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

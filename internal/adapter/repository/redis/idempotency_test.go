package redis

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestIdempotencyFirstRequestClaimsKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if exists {
		t.Fatal("expected first request to claim the key")
	}

	if err := store.Update(ctx, "key-1", []byte(`{"order_id":"ord_1"}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, response, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !exists {
		t.Fatal("expected replay to find the stored response")
	}
	if !bytes.Equal(response, []byte(`{"order_id":"ord_1"}`)) {
		t.Fatalf("unexpected stored response: %s", response)
	}
}

func TestIdempotencyConcurrentClaimReturnsPlaceholder(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if exists, _, _ := store.CheckAndSet(ctx, "key-1", nil, time.Minute); exists {
		t.Fatal("expected first claim to win")
	}

	// A second request before the first finished sees the in-flight marker.
	exists, response, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !exists {
		t.Fatal("expected second claim to lose")
	}
	if !bytes.Equal(response, []byte("processing")) {
		t.Fatalf("expected processing marker, got %s", response)
	}
}

func TestIdempotencyKeyExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", []byte("resp"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	exists, _, err := store.CheckAndSet(ctx, "key-1", []byte("resp"), time.Minute)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if exists {
		t.Fatal("expected key to have expired")
	}
}

package eventpublisher

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase/mocks"
)

func TestProcessEventsMarksPublished(t *testing.T) {
	outbox := mocks.NewMockOutboxRepository()

	ctx := context.Background()
	for _, id := range []string{"evt_1", "evt_2"} {
		err := outbox.Create(ctx, nil, &domain.OutboxEvent{
			ID:            id,
			AggregateID:   "ord_1",
			AggregateType: domain.AggregateTypeOrder,
			EventType:     domain.EventTypeOrderCompleted,
			Payload:       map[string]any{"order_id": "ord_1"},
			CreatedAt:     time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("seed outbox: %v", err)
		}
	}

	ep := NewEventPublisher(Config{
		OutboxRepo: outbox,
		Publisher:  NewLogPublisher(zerolog.Nop()),
		Logger:     zerolog.Nop(),
	})

	if err := ep.processEvents(ctx); err != nil {
		t.Fatalf("processEvents: %v", err)
	}

	remaining, err := outbox.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("GetUnpublished: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("unpublished after drain = %d, want 0", len(remaining))
	}
}

func TestRedisStreamPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	pub := NewRedisStreamPublisher(client, "test:events")

	ctx := context.Background()
	err := pub.Publish(ctx, &domain.OutboxEvent{
		ID:            "evt_1",
		AggregateID:   "srv_1",
		AggregateType: domain.AggregateTypeService,
		EventType:     domain.EventTypeServiceExpired,
		Payload:       map[string]any{"service_id": "srv_1"},
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	entries, err := client.XRange(ctx, "test:events", "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("stream length = %d, want 1", len(entries))
	}
	if entries[0].Values["event_type"] != domain.EventTypeServiceExpired {
		t.Errorf("event_type = %v", entries[0].Values["event_type"])
	}
}

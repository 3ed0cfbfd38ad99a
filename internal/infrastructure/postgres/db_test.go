package postgres

import (
	"context"
	"testing"
	"time"
)

func TestNewPoolWithConfigRejectsBadTargets(t *testing.T) {
	tests := []struct {
		name string
		cfg  PoolConfig
	}{
		{"malformed URL", PoolConfig{DatabaseURL: "not-a-url"}},
		{"unreachable host", PoolConfig{
			DatabaseURL:    "postgres://invalid:5432/subledger",
			MaxConns:       1,
			ConnectTimeout: time.Second,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPoolWithConfig(context.Background(), tt.cfg); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/orders", "/api/v1/orders"},
		{"/api/v1/orders/ord_01J8X9", "/api/v1/orders/:id"},
		{"/api/v1/orders/ord_01J8X9/approve", "/api/v1/orders/:id/approve"},
		{"/api/v1/charges/chg_01J8X9/complete", "/api/v1/charges/:id/complete"},
		{"/api/v1/accounts/12345/balance", "/api/v1/accounts/:id/balance"},
		{"/api/v1/accounts/12345/orders", "/api/v1/accounts/:id/orders"},
		{"/api/v1/tickets/tkt_01J8X9/reply", "/api/v1/tickets/:id/reply"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

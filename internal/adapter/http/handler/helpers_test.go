package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/iho/subledger/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrOrderNotFound, http.StatusNotFound},
		{domain.ErrAccountNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrServiceNotFound), http.StatusNotFound},
		{domain.ErrInvalidState, http.StatusConflict},
		{domain.ErrTicketClosed, http.StatusConflict},
		{domain.ErrUsernameTaken, http.StatusConflict},
		{domain.ErrInsufficientFunds, http.StatusPaymentRequired},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrInvalidPlan, http.StatusBadRequest},
		{domain.ErrInvalidTicket, http.StatusBadRequest},
		{domain.ErrProvisioningFailed, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

package domain

import "errors"

var (
	// Lookup errors
	ErrAccountNotFound = errors.New("account not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrChargeNotFound  = errors.New("charge not found")
	ErrTicketNotFound  = errors.New("ticket not found")

	// Workflow errors
	ErrInvalidState       = errors.New("transition not allowed from current state")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrProvisioningFailed = errors.New("provisioner did not return a usable access config")

	// Validation errors
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidPlan   = errors.New("invalid plan terms")
	ErrInvalidTicket = errors.New("ticket subject and body are required")
	ErrUsernameTaken = errors.New("service username already in use")
	ErrTicketClosed  = errors.New("ticket is closed")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

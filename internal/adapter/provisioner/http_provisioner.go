package provisioner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/subledger/internal/usecase"
)

// HTTPProvisioner implements usecase.Provisioner against the external access
// panel's REST API. Transient failures are retried with exponential backoff;
// a 4xx response is treated as permanent. Retries stay bounded because the
// caller holds an open database transaction while waiting.
type HTTPProvisioner struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	logger     zerolog.Logger
	maxRetries uint64
}

// Config holds provisioner client settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries uint64
}

// New creates a new HTTPProvisioner.
func New(cfg Config, logger zerolog.Logger) *HTTPProvisioner {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	return &HTTPProvisioner{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
		maxRetries: maxRetries,
	}
}

type provisionRequest struct {
	ServerID    string `json:"server_id"`
	Username    string `json:"username"`
	DataLimitGB int64  `json:"data_limit_gb"`
	ExpiresAt   string `json:"expires_at"`
}

type provisionResponse struct {
	AccessConfig string `json:"access_config"`
}

// permanentStatusError marks panel responses that a retry cannot fix.
type permanentStatusError struct {
	status int
	body   string
}

func (e *permanentStatusError) Error() string {
	return fmt.Sprintf("panel rejected request: status %d: %s", e.status, e.body)
}

// Provision creates the access grant on the panel and returns the opaque
// access config.
func (p *HTTPProvisioner) Provision(ctx context.Context, req usecase.ProvisionRequest) (string, error) {
	body, err := json.Marshal(provisionRequest{
		ServerID:    req.Server.ID,
		Username:    req.Username,
		DataLimitGB: req.DataLimitGB,
		ExpiresAt:   req.ExpiresAt.Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}

	var accessConfig string

	operation := func() error {
		config, err := p.doProvision(ctx, body)
		if err != nil {
			var perm *permanentStatusError
			if errors.As(err, &perm) {
				return backoff.Permanent(err)
			}

			p.logger.Warn().Err(err).Str("username", req.Username).Msg("provision attempt failed, retrying")
			return err
		}

		accessConfig = config
		return nil
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.maxRetries)
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}

	return accessConfig, nil
}

func (p *HTTPProvisioner) doProvision(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/users", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", &permanentStatusError{status: resp.StatusCode, body: string(respBody)}
	default:
		return "", fmt.Errorf("panel returned status %d", resp.StatusCode)
	}

	var parsed provisionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode panel response: %w", err)
	}
	if parsed.AccessConfig == "" {
		return "", &permanentStatusError{status: resp.StatusCode, body: "empty access_config"}
	}

	return parsed.AccessConfig, nil
}

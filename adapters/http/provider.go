// Package http provides the outbound HTTP transport for provider calls.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/artpar/digigate/domain/trx"
	"github.com/artpar/digigate/ports"
	"github.com/rs/zerolog"
)

// ProviderClient executes synthesized outbound calls against the third-party
// provider, honoring the per-module timeout and retry tuning.
type ProviderClient struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

// ProviderConfig contains configuration for the provider client.
type ProviderConfig struct {
	UserAgent       string
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// NewProviderClient creates a provider HTTP client.
// Per-call timeouts come from DispatchOptions, not the shared client.
func NewProviderClient(cfg ProviderConfig, logger zerolog.Logger) *ProviderClient {
	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = 100
	}
	idleConnTimeout := cfg.IdleConnTimeout
	if idleConnTimeout == 0 {
		idleConnTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConns,
		IdleConnTimeout:     idleConnTimeout,
	}

	return &ProviderClient{
		client:    &http.Client{Transport: transport},
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// Dispatch executes the outbound call. Transport-level failures are retried
// up to MaxRetries times with RetryWait between attempts; HTTP error statuses
// are returned to the caller as-is.
func (c *ProviderClient) Dispatch(ctx context.Context, call trx.OutboundCall, opts ports.DispatchOptions) (trx.ProviderResponse, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	attempts := opts.MaxRetries + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.logger.Warn().
				Int("attempt", attempt).
				Err(lastErr).
				Msg("retrying provider call")
			select {
			case <-ctx.Done():
				return trx.ProviderResponse{}, fmt.Errorf("dispatch cancelled: %w", ctx.Err())
			case <-time.After(opts.RetryWait):
			}
		}

		resp, err := c.once(ctx, call, opts.AsJSON)
		if err != nil {
			lastErr = err
			continue
		}
		resp.LatencyMs = time.Since(start).Milliseconds()
		return resp, nil
	}

	return trx.ProviderResponse{}, fmt.Errorf("provider unreachable after %d attempts: %w", attempts, lastErr)
}

func (c *ProviderClient) once(ctx context.Context, call trx.OutboundCall, asJSON bool) (trx.ProviderResponse, error) {
	method := strings.ToUpper(call.Method)

	var (
		reqURL      = call.URL
		body        io.Reader
		contentType string
	)
	switch method {
	case http.MethodGet, http.MethodDelete, "":
		if method == "" {
			method = http.MethodGet
		}
		if q := call.EncodeQuery(); q != "" {
			reqURL += "?" + q
		}
	default:
		if asJSON {
			payload, err := encodeJSON(call.Params)
			if err != nil {
				return trx.ProviderResponse{}, fmt.Errorf("encode body: %w", err)
			}
			body = bytes.NewReader(payload)
			contentType = "application/json"
		} else {
			body = strings.NewReader(call.EncodeQuery())
			contentType = "application/x-www-form-urlencoded"
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return trx.ProviderResponse{}, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return trx.ProviderResponse{}, fmt.Errorf("provider call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return trx.ProviderResponse{}, fmt.Errorf("read provider response: %w", err)
	}

	return trx.ProviderResponse{Status: resp.StatusCode, Body: data}, nil
}

// encodeJSON marshals the ordered parameter set as a JSON object, keeping
// template order instead of Go's sorted map order.
func encodeJSON(params []trx.ParamValue) ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Ensure interface compliance.
var _ ports.Upstream = (*ProviderClient)(nil)

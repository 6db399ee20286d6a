// Package client talks to the record-lookup service.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	commonhttp "lookup-workers/internal/common/http"
	"lookup-workers/internal/common/logger"
	"lookup-workers/internal/lookup/payload"
	"lookup-workers/internal/lookup/query"
	"lookup-workers/internal/models"
)

const (
	// FindPath is the batch lookup endpoint.
	FindPath = "/api/v1/find/mass"

	DefaultTimeout     = 40 * time.Second
	DefaultFindType    = "Detail"
	DefaultCountryType = "RU"

	apiKeyHeader = "X-Api-Key"
	maxBodyBytes = 8 << 20
)

var (
	ErrLookupTimeout = errors.New("LOOKUP_TIMEOUT")
)

// TransportError is returned for any non-2xx answer.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("lookup service returned %d", e.StatusCode)
}

type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	FindType    string
	CountryType string
}

// Request is the outbound body. CountryType is sent for person queries only.
type Request struct {
	Requests    []string `json:"Requests"`
	FindType    string   `json:"FindType"`
	CountryType string   `json:"CountryType,omitempty"`
}

type Client struct {
	config *Config
	http   *commonhttp.Client
	logger logger.Logger
}

func New(config *Config, log logger.Logger) *Client {
	cfg := *config
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.FindType == "" {
		cfg.FindType = DefaultFindType
	}
	if cfg.CountryType == "" {
		cfg.CountryType = DefaultCountryType
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		config: &cfg,
		http:   commonhttp.NewClient(cfg.Timeout),
		logger: log.With(map[string]interface{}{"component": "lookup-client"}),
	}
}

// BuildRequest returns the body sent for q.
func (c *Client) BuildRequest(q query.Query) Request {
	req := Request{
		Requests: []string{q.Normalized()},
		FindType: c.config.FindType,
	}
	if q.NeedCountry() {
		req.CountryType = c.config.CountryType
	}
	return req
}

// Find performs one lookup call. The call is never retried.
func (c *Client) Find(ctx context.Context, q query.Query) (payload.Response, error) {
	if q.Kind() == models.QueryKindInvalid {
		return payload.Response{}, errors.New("lookup call: query is not classified")
	}
	body := c.BuildRequest(q)

	resp, err := c.http.PostJSON(ctx, c.config.BaseURL+FindPath, map[string]string{
		apiKeyHeader: c.config.APIKey,
	}, body)
	if err != nil {
		if isTimeout(ctx, err) {
			c.logger.Warn("lookup service timed out", map[string]interface{}{
				"timeout": c.http.Timeout().String(),
			})
			return payload.Response{}, fmt.Errorf("%w: %v", ErrLookupTimeout, err)
		}
		return payload.Response{}, fmt.Errorf("lookup call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return payload.Response{}, fmt.Errorf("%w: %v", ErrLookupTimeout, err)
		}
		return payload.Response{}, fmt.Errorf("read lookup response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("lookup service returned error status", map[string]interface{}{
			"statusCode": resp.StatusCode,
		})
		return payload.Response{}, &TransportError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	c.logger.Debug("lookup raw response", map[string]interface{}{
		"kind": string(q.Kind()),
		"body": string(data),
	})

	parsed, _, err := payload.Decode(data)
	if err != nil {
		return payload.Response{}, err
	}
	return parsed, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

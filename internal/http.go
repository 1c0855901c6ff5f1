package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	psnerrors "github.com/jamesprial/go-psn-api-wrapper/pkg/errors"
)

// TokenProvider supplies a currently valid bearer token. The Authenticator
// implements it; the gateway calls it before every single dispatch, so any
// request can trigger a silent refresh.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// RateLimitConfig controls how requests are paced before reaching PSN.
// The defaults match the service's guideline of 300 requests per 15 minutes.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. Defaults to 20 if zero.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 5 if zero.
	Burst int
}

const (
	DefaultRequestsPerMinute = 20
	DefaultRateLimitBurst    = 5
	secondsPerMinute         = 60.0
)

// RequestOptions carries the per-call overrides accepted by the gateway.
type RequestOptions struct {
	// Headers are merged over the gateway's base headers; per-call wins.
	Headers map[string]string
	// Query is appended to the URL's query string.
	Query url.Values
	// Body is the request body, if any.
	Body io.Reader
	// ContentType is set when Body is present. Defaults to application/json.
	ContentType string
}

// Gateway attaches authentication and uniform headers to every outbound
// call and translates non-2xx responses into the error taxonomy. It holds
// no per-request state beyond the shared limiter.
type Gateway struct {
	client      *http.Client
	auth        TokenProvider
	baseHeaders map[string]string
	limiter     *rate.Limiter
	logger      zerolog.Logger
}

// NewGateway returns a gateway dispatching through httpClient with the
// given base header set (User-Agent, Accept-Language, Country).
func NewGateway(httpClient *http.Client, auth TokenProvider, baseHeaders map[string]string, rateCfg *RateLimitConfig, logger zerolog.Logger) *Gateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if rateCfg == nil {
		rateCfg = &RateLimitConfig{}
	}

	headers := make(map[string]string, len(baseHeaders))
	for k, v := range baseHeaders {
		headers[k] = v
	}

	return &Gateway{
		client:      httpClient,
		auth:        auth,
		baseHeaders: headers,
		limiter:     buildLimiter(*rateCfg),
		logger:      logger,
	}
}

func buildLimiter(cfg RateLimitConfig) *rate.Limiter {
	requestsPerMinute := cfg.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultRateLimitBurst
	}

	limitPerSecond := rate.Limit(requestsPerMinute / secondsPerMinute)
	if limitPerSecond <= 0 {
		limitPerSecond = rate.Limit(1)
	}

	return rate.NewLimiter(limitPerSecond, burst)
}

// Do dispatches a single authenticated request and returns the raw response
// body. Non-2xx statuses come back as taxonomy errors; the body is never
// parsed at this layer.
func (g *Gateway) Do(ctx context.Context, method, rawURL string, opts *RequestOptions) ([]byte, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	token, err := g.auth.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, psnerrors.Wrap(psnerrors.KindClientError, "rate limiter wait aborted", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, opts.Body)
	if err != nil {
		return nil, psnerrors.Wrap(psnerrors.KindInvalidArgument, "failed to create request", err)
	}

	if len(opts.Query) > 0 {
		q := req.URL.Query()
		for key, values := range opts.Query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	for k, v := range g.baseHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if opts.Body != nil && req.Header.Get("Content-Type") == "" {
		contentType := opts.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}

	g.logger.Debug().Str("method", method).Str("url", req.URL.Redacted()).Msg("dispatching request")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, psnerrors.Wrap(psnerrors.KindClientError, "request dispatch failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, psnerrors.Wrap(psnerrors.KindClientError, "failed to read response body", err)
	}

	g.logger.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("received response")

	if statusErr := psnerrors.FromStatusCode(resp.StatusCode, string(body)); statusErr != nil {
		return nil, statusErr
	}

	return body, nil
}

// GetJSON performs a GET and decodes the response into v.
func (g *Gateway) GetJSON(ctx context.Context, rawURL string, opts *RequestOptions, v any) error {
	body, err := g.Do(ctx, http.MethodGet, rawURL, opts)
	if err != nil {
		return err
	}
	return decodeJSON(body, v)
}

// DoJSON marshals payload (if non-nil) as the request body and decodes the
// response into v (if non-nil). Used for POST, PATCH, PUT and DELETE calls.
func (g *Gateway) DoJSON(ctx context.Context, method, rawURL string, payload, v any) error {
	opts := &RequestOptions{}
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return psnerrors.Wrap(psnerrors.KindInvalidArgument, "failed to encode request payload", err)
		}
		opts.Body = bytes.NewReader(encoded)
	}

	body, err := g.Do(ctx, method, rawURL, opts)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return decodeJSON(body, v)
}

func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return psnerrors.Wrap(psnerrors.KindClientError, "failed to decode response body", err)
	}
	return nil
}

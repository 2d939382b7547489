// Package rest implements the JSON HTTP transport to the Arcanum backend.
//
// The client is deliberately thin: one request per call, no retries, no
// response caching. Concurrency control and staleness live in the cache and
// query layers; this package only moves bytes and maps transport outcomes
// onto domain error codes.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	apperrors "github.com/arcanumlarp/arcanum-go/internal/platform/errors"
	"github.com/arcanumlarp/arcanum-go/internal/platform/id"
)

// nowFunc is swapped out in tests to pin clock-dependent expiry checks.
var nowFunc = time.Now

// TokenSource supplies the bearer token for each request. Returning an empty
// string fails the call before any network traffic.
type TokenSource func() string

// Config configures a Client.
type Config struct {
	// BaseURL is the backend root, with or without a trailing slash.
	BaseURL string
	// Token supplies the bearer token per request.
	Token TokenSource
	// HTTPClient overrides the underlying client. Defaults to a client with
	// the shared request timeout.
	HTTPClient *http.Client
	// Limiter throttles outgoing requests. Nil means unthrottled.
	Limiter *rate.Limiter
	// OnSessionExpired is called once per rejected request when the backend
	// or a local expiry check decides the session is over. The SDK uses it
	// to tear down cached state.
	OnSessionExpired func()
	// Logf receives transport diagnostics. Nil discards them.
	Logf func(format string, args ...any)
}

// Client is the JSON HTTP client for the Arcanum backend.
type Client struct {
	baseURL          string
	http             *http.Client
	token            TokenSource
	limiter          *rate.Limiter
	tracer           trace.Tracer
	onSessionExpired func()
	logf             func(format string, args ...any)
}

// NewClient validates the config and builds a client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, apperrors.New(apperrors.CodeConfigBaseURLMissing, "base url is required")
	}
	if cfg.Token == nil {
		return nil, apperrors.New(apperrors.CodeConfigTokenMissing, "token source is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Client{
		baseURL:          base,
		http:             httpClient,
		token:            cfg.Token,
		limiter:          cfg.Limiter,
		tracer:           otel.Tracer("arcanum/transport/rest"),
		onSessionExpired: cfg.OnSessionExpired,
		logf:             logf,
	}, nil
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
// Both in and out may be nil.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// Patch issues a PATCH with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPatch, path, in, out)
}

// Delete issues a DELETE, discarding any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	token, err := c.checkToken()
	if err != nil {
		return err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperrors.Wrap(apperrors.CodeTransportFailure, "rate limit wait", err)
		}
	}

	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeTransportFailure, "encode request body", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransportFailure, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-Id", id.MustNewID())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return apperrors.Wrap(apperrors.CodeTransportFailure, method+" "+path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		err := c.errorFromResponse(resp)
		span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransportFailure, "read response body", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Wrap(apperrors.CodeTransportDecode, "decode response body", err)
	}
	return nil
}

// checkToken returns the current token, failing locally when it is missing
// or carries an already-passed JWT expiry. Opaque tokens pass through; the
// backend remains the authority on their validity.
func (c *Client) checkToken() (string, error) {
	token := strings.TrimSpace(c.token())
	if token == "" {
		return "", apperrors.New(apperrors.CodeAuthTokenMissing, "bearer token is missing")
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return token, nil
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(nowFunc()) {
		c.expireSession()
		return "", apperrors.New(apperrors.CodeAuthTokenExpired, "bearer token is expired")
	}
	return token, nil
}

// errorFromResponse maps a non-2xx response onto a domain error, pulling the
// human-readable detail out of the backend's JSON error envelope when one is
// present.
func (c *Client) errorFromResponse(resp *http.Response) error {
	code := apperrors.CodeForHTTPStatus(resp.StatusCode)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.expireSession()
	}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if readErr != nil {
		return apperrors.New(code, resp.Status)
	}
	var envelope struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	detail := ""
	if err := json.Unmarshal(raw, &envelope); err == nil {
		detail = envelope.Detail
		if detail == "" {
			detail = envelope.Error
		}
	}
	if detail == "" {
		// No structured envelope; the raw body text is still the server's
		// explanation and must reach the caller.
		detail = strings.TrimSpace(string(raw))
	}
	if detail == "" {
		c.logf("rest: %s without error detail", resp.Status)
		return apperrors.New(code, resp.Status)
	}
	return apperrors.WithMetadata(code, detail, map[string]string{"Detail": detail})
}

func (c *Client) expireSession() {
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

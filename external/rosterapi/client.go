package rosterapi

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBytes = 4 << 20

var errBackendTransient = crerr.New("roster backend transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Tokens         TokenSource
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the remote roster, advice and stats backend on behalf of
// one caller. The caller's bearer token is forwarded unchanged.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	tokens     TokenSource
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = ContextTokenSource{}
	}
	breaker := resilience.NewBreaker(cfg.CircuitBreaker, func(from, to resilience.CircuitState) {
		logger.Warn("roster backend circuit state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		maxRetries: max(cfg.MaxRetries, 0),
		tokens:     tokens,
		logger:     logger,
		breaker:    breaker,
	}
}

// getJSON issues an idempotent read. Identical concurrent reads by the same
// caller share one request, and transient failures are retried.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	return c.fetchJSON(ctx, path, query, target, c.maxRetries)
}

// getOnce is a GET that the backend bills for, so it is never retried.
func (c *Client) getOnce(ctx context.Context, path string, query url.Values, target any) error {
	return c.fetchJSON(ctx, path, query, target, 0)
}

func (c *Client) fetchJSON(ctx context.Context, path string, query url.Values, target any, retries int) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	out, err, _ := c.flight.DoContext(ctx, flightKey(token, fullURL), func() (any, error) {
		return c.call(ctx, http.MethodGet, fullURL, token, nil, retries)
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode backend payload %s: %v", usecase.ErrDependencyUnavailable, path, err)
	}
	return nil
}

// mutate sends a roster mutation. A snapshot read by the same caller that is
// still in flight predates the change, so it is detached and the next
// GetProfile goes to the backend.
func (c *Client) mutate(ctx context.Context, method, path string, payload any) error {
	if err := c.sendJSON(ctx, method, path, payload, nil); err != nil {
		return err
	}
	if token, err := c.tokens.Token(ctx); err == nil {
		c.flight.Forget(flightKey(token, c.baseURL+pathUserData))
	}
	return nil
}

// sendJSON issues a request with a body. It is never retried.
func (c *Client) sendJSON(ctx context.Context, method, path string, payload any, target any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal backend payload")
	}
	fullURL := c.baseURL + path
	if c.logger.Enabled(logging.LevelDebug) {
		c.logger.DebugContext(ctx, "roster backend request", "curl_preview", buildCurlPreview(method, fullURL, truncateForLog(string(body), 2048)))
	}

	raw, err := c.call(ctx, method, fullURL, token, body, 0)
	if err != nil {
		return err
	}
	if target == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode backend payload %s: %v", usecase.ErrDependencyUnavailable, path, err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, fullURL, token string, body []byte, retries int) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: roster backend base url is not configured", usecase.ErrDependencyUnavailable)
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "roster backend circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: roster backend is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("roster_backend.method", method),
			attribute.String("roster_backend.url", fullURL),
		)
	}

	raw, err := c.executeRequest(ctx, method, fullURL, token, body, retries)
	c.recordCircuitResult(err)
	if err != nil {
		return nil, classify(err)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, method, fullURL, token string, body []byte, retries int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errBackendTransient, strings.ReplaceAll(err.Error(), token, "REDACTED"))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errBackendTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = &statusError{code: resp.StatusCode, body: abbreviateBody(raw), transient: true}
			default:
				return nil, &statusError{code: resp.StatusCode, body: abbreviateBody(raw)}
			}
		}

		if attempt == retries {
			break
		}
		backoff := time.Duration(attempt+1) * 250 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: backend request failed", errBackendTransient)
	}
	c.logger.WarnContext(ctx, "roster backend request failed", "method", method, "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) recordCircuitResult(err error) {
	c.breaker.Record(err != nil && isCircuitFailure(err))
}

type statusError struct {
	code      int
	body      string
	transient bool
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend status=%d body=%s", e.code, e.body)
}

func (e *statusError) Unwrap() error {
	if e.transient {
		return errBackendTransient
	}
	return nil
}

// classify maps transport and status failures onto use case errors.
func classify(err error) error {
	var statusErr *statusError
	if stderrors.As(err, &statusErr) {
		switch {
		case statusErr.code == http.StatusUnauthorized || statusErr.code == http.StatusForbidden:
			return fmt.Errorf("%w: %w", usecase.ErrUnauthorized, err)
		case statusErr.code == http.StatusNotFound:
			return fmt.Errorf("%w: %w", usecase.ErrNotFound, err)
		case statusErr.code == http.StatusConflict:
			return fmt.Errorf("%w: %w", usecase.ErrAlreadyRostered, err)
		case statusErr.code >= 400 && statusErr.code < 500 && !statusErr.transient:
			return fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err)
		}
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errBackendTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

func flightKey(token, fullURL string) string {
	return tokenFingerprint(token) + " " + fullURL
}

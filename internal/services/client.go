package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/logging"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/session"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const RequestIDHeader = "X-Request-Id"

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() string
}

// Client handles communication with the dashboard API. It has no client-side
// timeout; callers bound requests through ctx.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	persisted  session.TokenStore
	metrics    *Metrics
	limiter    *rate.Limiter
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPersistedToken makes a token found in store override the session
// token on every request.
func WithPersistedToken(store session.TokenStore) Option {
	return func(c *Client) { c.persisted = store }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRateLimit makes every request wait for a token from a limiter of
// perSecond requests with the given burst. perSecond <= 0 leaves requests
// unthrottled.
func WithRateLimit(perSecond, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call describes one API request.
type call struct {
	resource    string
	operation   string
	method      string
	path        string
	body        io.Reader
	contentType string
}

// doJSON encodes in (when non-nil) as the request body and decodes the
// response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, cl call, in, out any) error {
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", cl.operation, err)
		}
		cl.body = bytes.NewReader(payload)
		cl.contentType = "application/json"
	}
	raw, err := c.do(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", cl.operation, err)
	}
	return nil
}

// do sends the request and returns the raw response body of a 2xx reply.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	rid := logging.RequestID(ctx)
	if rid == "" {
		rid = uuid.NewString()
		ctx = logging.WithRequestID(ctx, rid)
	}
	logger := logging.NewLogger(ctx, c.logger)
	op := cl.resource + "." + cl.operation
	start := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			logger.LogError(op, err)
			return nil, &HTTPError{Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, cl.body)
	if err != nil {
		logger.LogError(op, err)
		return nil, &HTTPError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, rid)
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	c.authorize(ctx, req, logger, op)

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.LogError(op, err)
		c.metrics.recordCall(cl.resource, cl.operation, 0, duration)
		return nil, &HTTPError{Err: fmt.Errorf("api request failed: %w", err)}
	}
	defer resp.Body.Close()
	c.metrics.recordCall(cl.resource, cl.operation, resp.StatusCode, duration)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.LogError(op, err)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode >= 500:
		logger.LogErrorf(op, "api returned status %d", resp.StatusCode)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: decodeErrorBody(raw)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		logger.LogWarnf(op, "api returned status %d", resp.StatusCode)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: decodeErrorBody(raw)}
	}
	// Reads are too chatty for info.
	if cl.method == http.MethodGet {
		logger.LogDebugf(op, "%s %s -> %d in %s", cl.method, cl.path, resp.StatusCode, duration)
	} else {
		logger.LogInfof(op, "%s %s -> %d in %s", cl.method, cl.path, resp.StatusCode, duration)
	}
	return raw, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request, logger *logging.Logger, op string) {
	if c.tokens != nil {
		req.Header.Set("Authorization", "Bearer "+c.tokens.Token())
	}
	if c.persisted == nil {
		return
	}
	token, err := c.persisted.Load(ctx)
	switch {
	case errors.Is(err, session.ErrNoToken):
	case err != nil:
		logger.LogWarnf(op, "persisted token unavailable: %v", err)
	case token != "":
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeErrorBody(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err == nil {
		return v
	}
	return string(raw)
}

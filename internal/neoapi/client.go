package neoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	apiPrefix = "/api/v1"

	defaultHTTPTimeout = 30 * time.Second
	defaultUserAgent   = "neomovies-cli/1.0"

	// Cap on error bodies copied into TransportError
	maxErrorBody = 512
)

// Request outcomes reported to a RequestObserver.
const (
	OutcomeOK             = "ok"
	OutcomeRemoteError    = "remote_error"
	OutcomeTransportError = "transport_error"
)

// RequestObserver receives one call per finished request.
type RequestObserver interface {
	ObserveRequest(method, outcome string, status int, d time.Duration)
}

// Client talks to the remote API. Each Client carries its own bearer token,
// so separate sessions never share authorization state.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	observer   RequestObserver
	log        *slog.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithObserver reports request outcomes, e.g. to prometheus.
func WithObserver(o RequestObserver) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   trimSlash(baseURL),
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		log: slog.With("component", "neoapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken sets the bearer token sent with every request. An empty token
// removes the Authorization header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope is the {success, data, message} wrapper used by the API.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// do performs a request and decodes the unwrapped payload into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		if c.observer == nil {
			return
		}
		outcome := OutcomeOK
		var remoteErr *RemoteRequestError
		if errors.As(err, &remoteErr) {
			outcome = OutcomeRemoteError
		} else if err != nil {
			outcome = OutcomeTransportError
		}
		c.observer.ObserveRequest(method, outcome, status, time.Since(start))
	}()

	endpoint := c.baseURL + path
	if query != nil {
		normalizePage(query)
		if encoded := query.Encode(); encoded != "" {
			endpoint += "?" + encoded
		}
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Request failed", "method", method, "path", path, "error", err)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Status: status, Err: err}
	}

	c.log.Debug("API response", "method", method, "path", path, "status", status, "bytes", len(raw))

	return c.handleResponse(method, path, status, raw, out)
}

// handleResponse classifies a reply. Any non-2xx status is a transport
// failure, envelope or not; on 2xx a {success: false} envelope is a remote
// error and a success envelope is unwrapped. Other bodies decode as-is.
func (c *Client) handleResponse(method, path string, status int, raw []byte, out interface{}) error {
	env, isEnvelope := parseEnvelope(raw)

	if status < 200 || status > 299 {
		detail := string(bytes.TrimSpace(raw))
		if isEnvelope && env.Message != "" {
			detail = env.Message
		} else if len(detail) > maxErrorBody {
			detail = detail[:maxErrorBody]
		}
		c.log.Error("Unexpected status", "method", method, "path", path, "status", status)
		return &TransportError{
			Method: method,
			Path:   path,
			Status: status,
			Err:    fmt.Errorf("unexpected status: %s", detail),
		}
	}

	if isEnvelope {
		if !env.Success {
			msg := env.Message
			if msg == "" {
				msg = "API request failed"
			}
			c.log.Warn("API request failed", "method", method, "path", path, "status", status, "message", msg)
			return &RemoteRequestError{Method: method, Path: path, Status: status, Message: msg}
		}
		raw = env.Data
	}

	if out == nil || len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Method: method, Path: path, Status: status, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

// parseEnvelope reports whether raw is an envelope: a failure object
// carrying "success": false, or a success object carrying both "success"
// and "data". A success reply without "data" is the payload itself.
func parseEnvelope(raw []byte) (envelope, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return envelope{}, false
	}
	if _, ok := probe["success"]; !ok {
		return envelope{}, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, false
	}
	if _, hasData := probe["data"]; env.Success && !hasData {
		return envelope{}, false
	}
	return env, true
}

// setHeaders sets common headers
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// normalizePage clamps a page parameter to >= 1; non-numeric values become 1.
func normalizePage(query url.Values) {
	if !query.Has("page") {
		return
	}
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		query.Set("page", "1")
	}
}

func pageQuery(page int) url.Values {
	return url.Values{"page": []string{strconv.Itoa(page)}}
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

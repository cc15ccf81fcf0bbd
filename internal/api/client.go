// Package api wraps the expense-tracker REST backend. It owns bearer
// token propagation on outbound requests and the cross-cutting 401
// policy: any unauthorized response tears the session down through the
// registered hook, no matter which endpoint produced it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"outlay/internal/log"
)

// ErrUnauthorized is returned for any 401 response, after the
// unauthorized hook has fired.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx backend response. Message is the server-provided
// error text when present, or a generic fallback.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Client talks to the backend API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentAPI)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SetToken installs the bearer token for all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently installed bearer token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers the hook invoked whenever the backend
// answers 401. The hook runs once per such response, before the call
// returns to its caller.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// do issues one request and decodes a JSON response into out (when out
// is non-nil and the response succeeds). It returns the HTTP status
// code alongside any error so callers can check for exact statuses.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Request failed",
			log.FieldMethod, method,
			log.FieldPath, path,
			log.FieldError, err)
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Request completed",
		log.FieldMethod, method,
		log.FieldPath, path,
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, time.Since(start).Milliseconds())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(ctx, path)
		return resp.StatusCode, &Error{Status: resp.StatusCode, Message: serverMessage(raw)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &Error{Status: resp.StatusCode, Message: serverMessage(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// handleUnauthorized drops the stale token and notifies the session
// layer. This fires for every 401, including calls the session layer
// did not initiate.
func (c *Client) handleUnauthorized(ctx context.Context, path string) {
	c.mu.Lock()
	c.token = ""
	hook := c.onUnauthorized
	c.mu.Unlock()

	c.logger.WarnContext(ctx, "Unauthorized response, tearing down session",
		log.FieldPath, path)
	if hook != nil {
		hook()
	}
}

func serverMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return "request failed"
}

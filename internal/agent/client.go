// ABOUTME: HTTP AgentClient for the recipe agent's chat and memory-reset endpoints
// ABOUTME: JSON request/response bodies, request ids, and transport/server error mapping

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	chatPath        = "/agent-chat"
	clearMemoryPath = "/clear-memory"

	// maxErrorBody bounds how much of an error body is read for its message
	maxErrorBody = 64 << 10
)

// ChatReply is the agent's answer to one message.
type ChatReply struct {
	ResponseText string   `json:"response"`
	SourcesUsed  []string `json:"sources_used"`
}

// chatRequest is the JSON body sent to POST /agent-chat.
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// clearMemoryRequest is the JSON body sent to POST /clear-memory.
type clearMemoryRequest struct {
	SessionID string `json:"session_id"`
}

// Client talks to the recipe agent over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With("component", "agent")
		}
	}
}

// NewClient creates a Client for the agent at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  slog.Default().With("component", "agent"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat sends message under sessionID and returns the agent's reply.
// An empty sessionID is sent as-is; the agent then answers statelessly.
func (c *Client) Chat(ctx context.Context, message, sessionID string) (*ChatReply, error) {
	var reply ChatReply
	if err := c.post(ctx, "chat", chatPath, chatRequest{Message: message, SessionID: sessionID}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ResetMemory asks the agent to forget the conversation for sessionID.
func (c *Client) ResetMemory(ctx context.Context, sessionID string) error {
	return c.post(ctx, "reset memory", clearMemoryPath, clearMemoryRequest{SessionID: sessionID}, nil)
}

// post sends body as JSON and decodes a 2xx response into out when out is non-nil.
func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshaling request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("agent call finished",
		"op", op,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}

	if out == nil {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Message: fmt.Sprintf("decoding response: %v", err)}
	}
	return nil
}

// errorMessage extracts a human message from a JSON error body.
// FastAPI style uses "detail", the gateway style uses "error".
func errorMessage(resp *http.Response) string {
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		return ""
	}
	var errResp map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&errResp); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "error", "message"} {
		if msg, ok := errResp[key].(string); ok && msg != "" {
			return msg
		}
	}
	return ""
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the chat backend. All
// endpoints live under a common /api prefix; authenticated endpoints
// carry the session token as a bearer credential.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/parley-tui/internal/model"
)

// ===== CONSTANTS =====

const (
	// DefaultBaseURL is the backend address used when none is configured.
	DefaultBaseURL = "http://localhost:8000"

	// apiPrefix is prepended to every endpoint path.
	apiPrefix = "/api"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the retry count for idempotent requests.
	DefaultMaxRetries = 3

	// retryBaseDelay is the initial backoff delay.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay caps the exponential backoff.
	retryMaxDelay = 8 * time.Second

	// maxResponseSize caps response bodies at 4MB to prevent
	// unbounded memory use from a misbehaving server.
	maxResponseSize = 4 * 1024 * 1024

	// requestsPerSecond limits outbound request rate.
	requestsPerSecond = 10
)

// ===== CLIENT =====

// Client is an HTTP client for the chat backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the backend base URL. A trailing slash is stripped.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithToken sets the bearer token for authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithMaxRetries sets the retry count for idempotent requests.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used in tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a backend client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken updates the bearer token after authentication.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ClearToken drops the bearer token on logout.
func (c *Client) ClearToken() {
	c.token = ""
}

// HasToken reports whether a bearer token is configured.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// ===== AUTH OPERATIONS =====

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	var resp AuthResponse
	body := credentialsRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp, false); err != nil {
		return AuthResponse{}, fmt.Errorf("login: %w", err)
	}
	return resp, nil
}

// Signup registers a new account and returns a session token.
func (c *Client) Signup(ctx context.Context, username, password string) (AuthResponse, error) {
	var resp AuthResponse
	body := credentialsRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, &resp, false); err != nil {
		return AuthResponse{}, fmt.Errorf("signup: %w", err)
	}
	return resp, nil
}

// FetchUser retrieves the profile for the given user id.
func (c *Client) FetchUser(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	path := "/users/" + userID
	if err := c.doWithRetry(ctx, http.MethodGet, path, nil, &user); err != nil {
		return model.User{}, fmt.Errorf("fetch user: %w", err)
	}
	return user, nil
}

// ===== CONVERSATION OPERATIONS =====

// FetchConversations lists the user's conversations in server order.
func (c *Client) FetchConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	var convos []model.Conversation
	path := "/users/" + userID + "/conversations"
	if err := c.doWithRetry(ctx, http.MethodGet, path, nil, &convos); err != nil {
		return nil, fmt.Errorf("fetch conversations: %w", err)
	}
	return convos, nil
}

// CreateConversation creates a conversation and returns the stored record.
func (c *Client) CreateConversation(ctx context.Context, userID, title string) (model.Conversation, error) {
	var convo model.Conversation
	body := createConversationRequest{UserID: userID, Title: title}
	if err := c.do(ctx, http.MethodPost, "/conversations", body, &convo, true); err != nil {
		return model.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return convo, nil
}

// DeleteConversation removes a conversation and its messages. Deleting a
// conversation that no longer exists returns ErrNotFound.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	path := "/conversations/" + conversationID
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, true); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// ===== MESSAGE OPERATIONS =====

// FetchMessages retrieves a conversation's messages in chronological order.
func (c *Client) FetchMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var msgs []model.Message
	path := "/conversations/" + conversationID + "/messages"
	if err := c.doWithRetry(ctx, http.MethodGet, path, nil, &msgs); err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	return msgs, nil
}

// PostMessage persists a user message and returns the stored record with
// its server-assigned id.
func (c *Client) PostMessage(ctx context.Context, conversationID, content string) (model.Message, error) {
	var msg model.Message
	body := postMessageRequest{
		ConversationID: conversationID,
		Content:        content,
		IsUser:         true,
	}
	if err := c.do(ctx, http.MethodPost, "/messages", body, &msg, true); err != nil {
		return model.Message{}, fmt.Errorf("post message: %w", err)
	}
	return msg, nil
}

// RequestAIReply asks the backend to generate and persist an assistant
// reply to the given message, returning the stored reply.
func (c *Client) RequestAIReply(ctx context.Context, conversationID, message string) (model.Message, error) {
	var msg model.Message
	body := generateRequest{
		ConversationID: conversationID,
		Message:        message,
	}
	if err := c.do(ctx, http.MethodPost, "/ai/generate", body, &msg, true); err != nil {
		return model.Message{}, fmt.Errorf("request reply: %w", err)
	}
	return msg, nil
}

// ===== REQUEST PLUMBING =====

// do performs a single request. Mutating requests are never retried
// here; a retried POST could persist the same message twice.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	url := c.baseURL + apiPrefix + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if err := c.setHeaders(req, authed); err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	log.Printf("[api] %s %s%s", method, apiPrefix, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := readResponse(resp)
	if err != nil {
		return err
	}

	log.Printf("[api] %s %s%s -> %d (%s)", method, apiPrefix, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// doWithRetry performs an idempotent request with exponential backoff on
// transient failures.
func (c *Client) doWithRetry(ctx context.Context, method, path string, body, out any) error {
	var lastErr error
	delay := retryBaseDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[api] retry %d/%d for %s %s", attempt, c.maxRetries, method, path)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > retryMaxDelay {
				delay = retryMaxDelay
			}
		}

		lastErr = c.do(ctx, method, path, body, out, true)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

// setHeaders applies common headers, including bearer auth when required.
func (c *Client) setHeaders(req *http.Request, authed bool) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authed {
		if c.token == "" {
			return ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return nil
}

// readResponse reads the response body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxResponseSize {
		return nil, fmt.Errorf("response exceeds %d byte limit", maxResponseSize)
	}
	return body, nil
}

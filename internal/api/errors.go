// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error variables for common backend failures.
var (
	// ErrNoToken indicates a request was attempted without a bearer token.
	// Callers must check the session before invoking the client; hitting
	// this error is a programming bug, not a user-facing condition.
	ErrNoToken = errors.New("no bearer token configured")

	// ErrAuthFailed indicates the token was missing, invalid, or expired (401).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotFound indicates the requested resource does not exist (404).
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a client-side precondition failed before any
	// request was issued (e.g. mismatched password confirmation).
	ErrValidation = errors.New("validation failed")

	// ErrRateLimited indicates too many requests were made (429).
	ErrRateLimited = errors.New("rate limited")
)

// APIError represents a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}

// errorResponse is the backend's error body shape. The message field is
// optional; when present it is used as the error detail.
type errorResponse struct {
	Message string `json:"message"`
}

// errorFromResponse converts a non-2xx response to an appropriate Go error.
// The body is parsed for the optional message field; well-known status
// codes map to sentinel errors so callers can use errors.Is.
func errorFromResponse(statusCode int, body []byte) error {
	detail := ""
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		detail = errResp.Message
	}

	switch statusCode {
	case http.StatusUnauthorized:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrAuthFailed, detail)
		}
		return ErrAuthFailed
	case http.StatusNotFound:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrNotFound, detail)
		}
		return ErrNotFound
	case http.StatusTooManyRequests:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrRateLimited, detail)
		}
		return ErrRateLimited
	default:
		return &APIError{Status: statusCode, Message: detail}
	}
}

// IsRetryable reports whether an error should trigger a retry. Rate
// limiting and 5xx responses are transient; everything else, including
// context cancellation, is not.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}

	return false
}

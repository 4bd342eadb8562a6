package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
)

func responseError(code int) error {
	return &github.ErrorResponse{Response: &http.Response{StatusCode: code}, Message: http.StatusText(code)}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, expected: true},
		{name: "wrapped deadline", err: fmt.Errorf("failed to list: %w", context.DeadlineExceeded), expected: true},
		{name: "canceled", err: context.Canceled, expected: false},
		{name: "server error", err: responseError(http.StatusInternalServerError), expected: true},
		{name: "too many requests", err: responseError(http.StatusTooManyRequests), expected: true},
		{name: "forbidden", err: responseError(http.StatusForbidden), expected: false},
		{name: "not found", err: responseError(http.StatusNotFound), expected: false},
		{name: "rate limit", err: &github.RateLimitError{Response: &http.Response{StatusCode: http.StatusForbidden}}, expected: true},
		{name: "abuse rate limit", err: &github.AbuseRateLimitError{Response: &http.Response{StatusCode: http.StatusForbidden}}, expected: true},
		{name: "network error", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, expected: true},
		{name: "plain error", err: errors.New("boom"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(fmt.Errorf("wrapped: %w", responseError(http.StatusNotFound))))
	assert.Equal(t, 0, StatusCode(errors.New("boom")))
}

package github

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/google/go-github/v57/github"
)

// IsTransient reports whether a failed API call is worth attempting again.
// Timeouts, network errors, 5xx responses and rate limiting are transient;
// other 4xx responses and caller cancellation are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		if respErr.Response == nil {
			return false
		}
		code := respErr.Response.StatusCode
		return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// StatusCode extracts the HTTP status of a failed API call, or 0 if there was no response
func StatusCode(err error) int {
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode
	}
	return 0
}

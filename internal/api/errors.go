package api

import (
	"context"
	"errors"
	"net"

	"github.com/anthropics/anthropic-sdk-go"
)

// ErrEmptyResponse indicates the model returned no usable text. Callers
// treat it as permanent rather than retrying.
var ErrEmptyResponse = errors.New("model returned an empty response")

// IsTransient reports whether an error is worth retrying: rate limits,
// server errors, timeouts, and network failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 408, 429, 500, 502, 503, 504:
			return true
		}
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsAuth reports whether an error is an authentication or authorization
// failure.
func IsAuth(err error) bool {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == 401 || apierr.StatusCode == 403
	}
	return false
}

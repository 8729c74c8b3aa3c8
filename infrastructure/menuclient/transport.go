package menuclient

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 4 << 20

var errEmptyServerError = errors.New("server error without body")

// RetryTransport is an http.RoundTripper that retries GET and HEAD requests
// on transport failures and on 5xx responses that carry no message. Other
// methods pass straight through. When every attempt returns such a 5xx the
// last response is returned.
type RetryTransport struct {
	inner    http.RoundTripper
	attempts int
	delay    time.Duration
}

// NewRetryTransport creates a RetryTransport making at most attempts tries.
// If inner is nil, http.DefaultTransport is used.
func NewRetryTransport(inner http.RoundTripper, attempts int, delay time.Duration) *RetryTransport {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &RetryTransport{inner: inner, attempts: attempts, delay: delay}
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return t.inner.RoundTrip(req)
	}

	var last *http.Response
	err := retry(req.Context(), t.attempts, t.delay, func() error {
		if last != nil {
			_ = last.Body.Close()
			last = nil
		}
		resp, err := t.inner.RoundTrip(req)
		if err != nil {
			return &retryableError{err: err}
		}
		last = resp
		if resp.StatusCode < http.StatusInternalServerError {
			return nil
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(body))
		if err != nil {
			return &retryableError{err: err}
		}
		if usableBody(body) {
			return nil
		}
		return &retryableError{err: errEmptyServerError}
	})

	switch {
	case err == nil:
		return last, nil
	case last != nil && errors.Is(err, errEmptyServerError):
		return last, nil
	default:
		if last != nil {
			_ = last.Body.Close()
		}
		var r *retryableError
		if errors.As(err, &r) {
			return nil, r.err
		}
		return nil, err
	}
}

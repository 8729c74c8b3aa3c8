package menuclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gdp-poc/gdp/infrastructure/api/v1/dto"
)

// Failure classes.
var (
	// ErrNetwork indicates the server could not be reached.
	ErrNetwork = errors.New("network error")
	// ErrUnresponsive indicates the server answered without a usable body,
	// or did not answer in time.
	ErrUnresponsive = errors.New("service unresponsive")
	// ErrServer indicates the server rejected the request with a message.
	ErrServer = errors.New("server error")
)

// Messages shown to the user for each failure class.
const (
	MessageNetwork      = "check network and retry"
	MessageUnresponsive = "contact system administrator"
	MessageRetry        = "please retry later"
)

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	// Message is the server's message, empty when the body carried none.
	Message    string
	Code       string
	Violations []dto.Violation
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns ErrServer when the server explained itself and
// ErrUnresponsive otherwise.
func (e *StatusError) Unwrap() error {
	if e.Message == "" {
		return ErrUnresponsive
	}
	return ErrServer
}

func newStatusError(status int, body []byte) *StatusError {
	e := &StatusError{StatusCode: status}
	var resp dto.StatusResponse
	if json.Unmarshal(body, &resp) == nil {
		e.Message = strings.TrimSpace(resp.Message)
		e.Code = resp.Error
		e.Violations = resp.Violations
	}
	return e
}

// usableBody reports whether an error body carries a message.
func usableBody(body []byte) bool {
	var resp dto.StatusResponse
	return json.Unmarshal(body, &resp) == nil && strings.TrimSpace(resp.Message) != ""
}

// UserMessage turns a client error into the text shown to the user. Server
// messages are passed through verbatim.
func UserMessage(err error) string {
	var status *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetwork):
		return MessageNetwork
	case errors.As(err, &status) && status.Message != "":
		return status.Message
	case errors.Is(err, ErrUnresponsive):
		return MessageUnresponsive
	default:
		return MessageRetry
	}
}

package greynoise

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrAuth               = errors.New("bad authentication")
	ErrNotFound           = errors.New("IP not found")
	ErrRateLimited        = errors.New("rate limited")
	ErrServer             = errors.New("server side error")
	ErrHTTPStatusNotValid = errors.New("HTTP status is not valid")
	ErrNetwork            = errors.New("network error")
)

// StatusError is returned for every non-success HTTP status code.
// It unwraps to the sentinel error matching its class so callers can
// use errors.Is, and exposes whether it is worth retrying.
type StatusError struct {
	Code int
	Body string
	// RetryAfter is the parsed Retry-After header value,
	// zero when the header is absent or malformed.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	s := fmt.Sprintf("%s: %d", e.Unwrap(), e.Code)
	if e.Body != "" {
		s += ": " + e.Body
	}
	return s
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden:
		return ErrAuth
	case e.Code == http.StatusNotFound:
		return ErrNotFound
	case e.Code == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.Code >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrHTTPStatusNotValid
	}
}

func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests ||
		e.Code >= http.StatusInternalServerError
}

func (e *StatusError) RetryAfterDelay() (delay time.Duration, ok bool) {
	return e.RetryAfter, e.RetryAfter > 0
}

// NetworkError wraps a transport level failure such as a connection
// refusal or timeout. These are always worth retrying.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return ErrNetwork.Error() + ": " + e.Cause.Error()
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Cause}
}

func (e *NetworkError) Temporary() bool { return true }

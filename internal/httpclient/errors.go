package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError classifies a failed outbound call.
type NetworkError string

const (
	ErrUnauthorized    NetworkError = "UNAUTHORIZED"
	ErrRequestTimeout  NetworkError = "REQUEST_TIMEOUT"
	ErrConflict        NetworkError = "CONFLICT"
	ErrPayloadTooLarge NetworkError = "PAYLOAD_TOO_LARGE"
	ErrTooManyRequests NetworkError = "TOO_MANY_REQUESTS"
	ErrServerError     NetworkError = "SERVER_ERROR"
	ErrNoInternet      NetworkError = "NO_INTERNET"
	ErrSerialization   NetworkError = "SERIALIZATION"
	ErrUnknown         NetworkError = "UNKNOWN"
)

func (e NetworkError) Error() string {
	return string(e)
}

// FromStatus maps an HTTP status code to a NetworkError. It returns nil for 2xx.
func FromStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusRequestTimeout:
		return ErrRequestTimeout
	case code == http.StatusConflict:
		return ErrConflict
	case code == http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	case code == http.StatusTooManyRequests:
		return ErrTooManyRequests
	case code >= 500 && code < 600:
		return ErrServerError
	default:
		return ErrUnknown
	}
}

// StatusError carries the upstream status and a trimmed body alongside the
// classified NetworkError. errors.Is matches the NetworkError.
type StatusError struct {
	Kind       NetworkError
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s (status %d)", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Kind
}

// Kind extracts the NetworkError from err, or ErrUnknown if there is none.
func Kind(err error) NetworkError {
	var kind NetworkError
	if errors.As(err, &kind) {
		return kind
	}
	return ErrUnknown
}

// HTTPStatus picks the status the API should answer with when an upstream
// call failed with err.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case ErrTooManyRequests:
		return http.StatusTooManyRequests
	case ErrRequestTimeout, ErrNoInternet:
		return http.StatusGatewayTimeout
	case ErrPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadGateway
	}
}

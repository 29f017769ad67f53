package clusterapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// DefaultErrorMessage is reported when a failed response carries no message.
const DefaultErrorMessage = "API request failed"

var (
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	ErrServerRequired  = errors.New("server is required")
	// ErrAuthRequired is returned by provider clients when no auth variant is given.
	ErrAuthRequired = errors.New("auth is required")
)

// APIError is returned when the server answers with a non-2xx status.
// Error returns the server supplied message verbatim.
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Endpoint   string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError wraps a failure to complete the HTTP exchange, such as a
// refused connection, DNS failure or an expired context.
type TransportError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a response body is not valid JSON, or when a
// successful response does not decode into the expected schema.
type DecodeError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: failed to decode response: %v", e.Method, e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// decodeAPIError builds the APIError for a non-2xx response. A body that is
// not JSON yields a DecodeError instead.
func decodeAPIError(method, endpoint string, status int, body []byte) (*APIError, error) {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DecodeError{Method: method, Endpoint: endpoint, StatusCode: status, Err: err}
	}
	msg, _ := payload.Message.(string)
	if msg == "" {
		msg = DefaultErrorMessage
	}
	return &APIError{StatusCode: status, Message: msg, Method: method, Endpoint: endpoint}, nil
}

// StatusCode returns the HTTP status carried by an APIError or DecodeError in
// err's chain, or 0 when there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

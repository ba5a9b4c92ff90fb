package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedURL indicates the request URL could not be used
	ErrMalformedURL = errors.New("malformed URL")
	// ErrUnsupportedMethod indicates a verb outside the supported set
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	// ErrUnexpectedStatus indicates a non-200 response without a failure shape
	ErrUnexpectedStatus = errors.New("HTTP status code not 200")
	// ErrDecode indicates a response body that could not be decoded into the requested shape
	ErrDecode = errors.New("failed to decode response")
	// ErrUnknownCharset indicates a response charset with no known decoder
	ErrUnknownCharset = errors.New("unsupported response charset")
	// ErrReadTimeout indicates the server stopped sending before the read timeout elapsed
	ErrReadTimeout = errors.New("read timeout")
)

// ConfigurationError reports a request that could not be issued at all
type ConfigurationError struct {
	Method Method
	URL    string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransportError reports an I/O failure or a non-200 response that had no
// failure shape to decode into. StatusCode is zero when no response arrived.
type TransportError struct {
	Method     Method
	URL        string
	StatusCode int
	Body       string
	// HasBody distinguishes an absent response body from an empty one
	HasBody bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s request failed: %v", e.Method, e.Err)
	}
	if !e.HasBody {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: status %d: %v: %s", e.Method, e.URL, e.StatusCode, e.Err, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StructuredError carries a non-200 response decoded into the caller's
// failure shape. Payload is the pointer that was passed to Execute.
type StructuredError struct {
	Method     Method
	URL        string
	StatusCode int
	Body       string
	Payload    any
}

func (e *StructuredError) Error() string {
	if err, ok := e.Payload.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Unwrap exposes the payload when it is itself an error, so callers can
// match their own failure types with errors.As.
func (e *StructuredError) Unwrap() error {
	if err, ok := e.Payload.(error); ok {
		return err
	}
	return nil
}

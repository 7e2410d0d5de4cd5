package model

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Sentinel causes carried by RequestError.Err.
var (
	ErrStatus            = errors.New("unexpected response status")
	ErrMalformedResponse = errors.New("malformed response")
	ErrEmptyCompletion   = errors.New("empty completion")
)

// maxErrorBody caps the response excerpt kept in a RequestError.
const maxErrorBody = 2048

// RequestError reports a failed call to the text-generation service:
// transport failure, timeout, non-2xx status or an unusable response body.
type RequestError struct {
	Endpoint   string
	StatusCode int    // 0 when no response was received
	Body       string // response excerpt for status errors
	Err        error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("model request to %s failed", e.Endpoint)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request hit its deadline.
func (e *RequestError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Refused reports whether nothing was listening at the endpoint.
func (e *RequestError) Refused() bool {
	return errors.Is(e.Err, syscall.ECONNREFUSED)
}

// retryable reports whether another attempt could succeed.
func (e *RequestError) retryable() bool {
	switch {
	case e.StatusCode == 429 || e.StatusCode >= 500:
		return true
	case e.StatusCode != 0:
		return false
	case errors.Is(e.Err, ErrMalformedResponse), errors.Is(e.Err, ErrEmptyCompletion):
		return false
	case errors.Is(e.Err, context.Canceled):
		return false
	default:
		return true
	}
}

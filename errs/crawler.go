package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Remote API & Crawler Specific Errors
var ErrTransport = errors.New("transport failure")

// NewTransportError wraps a network-level failure (timeout, DNS, connection
// refused) from the remote project API. HTTP-level non-success responses are
// not transport errors; the client recovers those into empty defaults.
func NewTransportError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        fmt.Errorf("%s: %w", operation, ErrTransport),
		Cause:      cause,
	}
}

func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

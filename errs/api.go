package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrBadRequest = errors.New("malformed request")
	ErrInternal   = errors.New("internal server error")
	ErrConflict   = errors.New("resource conflict")
)

type ApiErr struct {
	StatusCode int
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        errors.New(message),
	}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		// Check if the cause is also an ApiErr for recursive error handling
		if apiErr, ok := e.Cause.(*ApiErr); ok {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// Common error constructors with appropriate HTTP status codes
func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: errors.New(message)}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: errors.New(message)}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: errors.New(message)}
}

func NewConflictError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, err: errors.New(message)}
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

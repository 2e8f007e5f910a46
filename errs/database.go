package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAlreadyExists             = errors.New("already exists")
	ErrNotFound                  = errors.New("not found")
	ErrDatabaseQuery             = errors.New("database query failed")
	ErrDatabaseConnection        = errors.New("database connection failed")
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	// Check for common database errors and provide more specific messages
	if cause != nil {
		errStr := cause.Error()
		switch {
		// "duplicate key" is postgres wording, "UNIQUE constraint" is sqlite's
		case strings.Contains(errStr, "duplicate key"),
			strings.Contains(errStr, "UNIQUE constraint"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        fmt.Errorf("%s %w", entity, ErrUniqueConstraintViolation),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "not found"):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        fmt.Errorf("%s %w", entity, ErrNotFound),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func NewUniqueConstraintViolationError(entity, field string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrUniqueConstraintViolation,
		Details:    fmt.Sprintf("Unique constraint violation on %s.%s", entity, field),
		Cause:      cause,
		Field:      field,
	}
}

func IsUniqueConstraintViolationError(err error) bool {
	return errors.Is(err, ErrUniqueConstraintViolation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

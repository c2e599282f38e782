package zero2prod

import (
	"bytes"
	"errors"
	"fmt"
)

// Error codes surfaced by the core.
const (
	ErrInvalid            = "invalid"
	ErrInvalidToken       = "invalid_token"
	ErrInvalidCredentials = "invalid_credentials"
	ErrNotFound           = "not_found"
	ErrStorage            = "storage"
	ErrDelivery           = "delivery"
	ErrInternal           = "internal"
)

// Error represents a detail error message
type Error struct {
	Code    string
	Message string
	Op      string
	Err     error
}

// ErrorCode returns the code of the root error, if available.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		if e.Code != "" {
			return e.Code
		}
		if e.Err != nil {
			return ErrorCode(e.Err)
		}
	}

	return ErrInternal
}

// ErrorMessage returns the human-readable message of the error, if available.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != nil {
			return ErrorMessage(e.Err)
		}
	}

	return "An internal error has occurred."
}

func (e *Error) Error() string {
	var buf bytes.Buffer

	if e.Op != "" {
		fmt.Fprintf(&buf, "%s: ", e.Op)
	}

	if e.Err != nil {
		buf.WriteString(e.Err.Error())
	} else {
		if e.Code != "" {
			fmt.Fprintf(&buf, "<%s> ", e.Code)
		}
		buf.WriteString(e.Message)
	}

	return buf.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

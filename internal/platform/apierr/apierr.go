package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound         = "not_found"
	CodeForbidden        = "forbidden"
	CodeInvalidStage     = "invalid_stage"
	CodeAlreadyCompleted = "already_completed"
	CodeValidation       = "validation_failed"
	CodeInternal         = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func Forbidden(err error) *Error {
	return New(http.StatusForbidden, CodeForbidden, err)
}

func InvalidStage(err error) *Error {
	return New(http.StatusUnprocessableEntity, CodeInvalidStage, err)
}

func AlreadyCompleted(err error) *Error {
	return New(http.StatusConflict, CodeAlreadyCompleted, err)
}

func Validation(err error) *Error {
	return New(http.StatusUnprocessableEntity, CodeValidation, err)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// IsCode reports whether err carries the given apierr code.
func IsCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

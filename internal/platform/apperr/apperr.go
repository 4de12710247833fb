// Package apperr carries the domain error model shared by every handler and
// service: a stable code plus a human message, mapped to an HTTP status at
// the boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeAlreadyReturned    Code = "ALREADY_RETURNED"
	CodeNotAuthorized      Code = "NOT_AUTHORIZED"
	CodeAccessDenied       Code = "ACCESS_DENIED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInternal           Code = "INTERNAL"
)

type DomainError struct {
	Code    Code
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NotFound(msg string) error        { return &DomainError{Code: CodeNotFound, Message: msg} }
func AlreadyExists(msg string) error   { return &DomainError{Code: CodeAlreadyExists, Message: msg} }
func AlreadyReturned(msg string) error { return &DomainError{Code: CodeAlreadyReturned, Message: msg} }
func NotAuthorized(msg string) error   { return &DomainError{Code: CodeNotAuthorized, Message: msg} }
func AccessDenied(msg string) error    { return &DomainError{Code: CodeAccessDenied, Message: msg} }
func InvalidArgument(msg string) error { return &DomainError{Code: CodeInvalidArgument, Message: msg} }
func InvalidCredentials(msg string) error {
	return &DomainError{Code: CodeInvalidCredentials, Message: msg}
}
func Internal(msg string) error { return &DomainError{Code: CodeInternal, Message: msg} }

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code Code) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

func ToHTTPStatus(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeAlreadyReturned:
		return http.StatusConflict
	case CodeNotAuthorized, CodeAccessDenied:
		return http.StatusForbidden
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type ErrorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func Body(code Code, msg string) ErrorDTO {
	var e ErrorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

// FromErr builds the wire error body for any error, hiding internals behind
// a generic message unless err carries a domain code.
func FromErr(err error) ErrorDTO {
	var de *DomainError
	if errors.As(err, &de) {
		return Body(de.Code, de.Message)
	}
	return Body(CodeInternal, "an error occurred while processing the request")
}

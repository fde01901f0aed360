package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidScore       = errors.New("invalid score")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrExpired            = errors.New("expired")
	ErrInactive           = errors.New("inactive")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPaymentFailed      = errors.New("payment failed")
)

// AppError is a domain error carrying the HTTP status it maps to.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func AlreadyExists(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrAlreadyExists)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrConflict)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func InvalidScore(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidScore)
}

func InvalidAmount(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidAmount)
}

func Expired(message string) *AppError {
	return NewAppError(http.StatusGone, message, ErrExpired)
}

func Inactive(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message, ErrInactive)
}

func QuotaExceeded(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, message, ErrQuotaExceeded)
}

func PaymentFailed(message string) *AppError {
	return NewAppError(http.StatusPaymentRequired, message, ErrPaymentFailed)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func InvalidCredentials() *AppError {
	return NewAppError(http.StatusUnauthorized, "credenciales inválidas", ErrInvalidCredentials)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

// InternalError hides err behind a generic message; err stays reachable
// through Unwrap for logging.
func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

var sentinelCodes = []struct {
	err  error
	code int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrAlreadyExists, http.StatusConflict},
	{ErrConflict, http.StatusConflict},
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrInvalidScore, http.StatusBadRequest},
	{ErrInvalidAmount, http.StatusBadRequest},
	{ErrExpired, http.StatusGone},
	{ErrInactive, http.StatusUnprocessableEntity},
	{ErrQuotaExceeded, http.StatusTooManyRequests},
	{ErrPaymentFailed, http.StatusPaymentRequired},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
}

// AsAppError converts any error into an AppError. Bare sentinels keep their
// status; anything else is a 500.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			return NewAppError(s.code, s.err.Error(), s.err)
		}
	}
	return InternalError(err)
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField       ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidNationalID  ErrorCode = "INVALID_NATIONAL_ID"
	ErrCodeWrongType          ErrorCode = "WRONG_TYPE"
	ErrCodeInvalidState       ErrorCode = "INVALID_STATE"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, чтобы errors.Is работал с сентинелами пакета.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Internal оборачивает неожиданную ошибку; детали уходят только в лог.
func Internal(err error) *AppError {
	return Wrap(err, ErrCodeInternal, "error interno del servidor")
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized, ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeInvalidNationalID, ErrCodeWrongType:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeInvalidState:
		return http.StatusConflict
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки приложения или пустую строку.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	switch CodeOf(err) {
	case ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeInvalidNationalID:
		return true
	}
	return false
}

var (
	ErrListingNotFound      = New(ErrCodeNotFound, "publicación no encontrada")
	ErrFoundationNotFound   = New(ErrCodeNotFound, "fundación no encontrada")
	ErrUserNotFound         = New(ErrCodeNotFound, "usuario no encontrado")
	ErrNotificationNotFound = New(ErrCodeNotFound, "notificación no encontrada")
	ErrMediaNotFound        = New(ErrCodeNotFound, "archivo no encontrado")
	ErrUnauthorized         = New(ErrCodeUnauthorized, "se requiere autenticación")
	ErrForbidden            = New(ErrCodeForbidden, "permisos insuficientes")
	ErrInvalidCredentials   = New(ErrCodeInvalidCredentials, "credenciales inválidas")
	ErrInvalidNationalID    = New(ErrCodeInvalidNationalID, "RUT inválido")
	ErrEmailTaken           = New(ErrCodeConflict, "el correo ya está registrado")
	ErrNationalIDTaken      = New(ErrCodeConflict, "el RUT ya está registrado")
	ErrTooManyRequests      = New(ErrCodeTooManyRequests, "demasiadas solicitudes, intenta más tarde")
)

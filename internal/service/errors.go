package service

import (
	"errors"
	"fmt"
)

// Authentication failures are flattened to one generic message so callers
// cannot distinguish unknown users from wrong passwords. The lockout message
// is the single deliberate exception.
var (
	ErrCredencialesInvalidas = errors.New("Credenciales inválidas")
	ErrCuentaBloqueada       = errors.New("Cuenta bloqueada temporalmente por intentos fallidos. Intente nuevamente más tarde")
	ErrSesionInvalida        = errors.New("sesión inválida o expirada")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity that is absent or soft deleted.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

func NotFoundf(format string, args ...any) error {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports an operation blocked by the current state of the
// data, such as deleting an entity with active dependents.
type ConflictError struct {
	msg string
}

func (e *ConflictError) Error() string { return e.msg }

func Conflictf(format string, args ...any) error {
	return &ConflictError{msg: fmt.Sprintf(format, args...)}
}

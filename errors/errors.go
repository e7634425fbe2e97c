package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code Code
	Op   string
	Err  error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func WrapWithCode(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code: code,
		Op:   op,
		Err:  err,
	}
}

// Validation, Derivation and Internal are shorthands for WrapWithCode.
func Validation(op string, err error) error {
	return WrapWithCode(CodeValidation, op, err)
}

func Derivation(op string, err error) error {
	return WrapWithCode(CodeDerivation, op, err)
}

func Internal(op string, err error) error {
	return WrapWithCode(CodeInternal, op, err)
}

// CodeOf returns the code of the outermost AppError in err's chain.
// Errors that carry no code are internal.
func CodeOf(err error) Code {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	switch CodeOf(err) {
	case CodeValidation, CodeDerivation:
		return true
	}
	return false
}

// Message returns the wrapped cause without the code and op prefix, suitable
// for showing to the caller of a rejected request.
func Message(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return err.Error()
}

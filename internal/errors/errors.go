// Package errors wraps github.com/go-errors/errors so that errors created
// outside the driver carry a stack trace for --debug output.
package errors

import (
	"errors"

	errorsGo "github.com/go-errors/errors"
)

func Is(err, target error) bool { return errorsGo.Is(err, target) }

func Join(errs ...error) error {
	if err := errorsGo.Join(errs...); err != nil {
		return errorsGo.Wrap(err, 1)
	}
	return nil
}

// New wraps obj with a stack trace. Unlike go-errors it returns nil for nil
// and keeps the stack of an already wrapped error.
func New(obj any) error {
	if obj == nil {
		return nil
	}
	if errGo, okErrGo := obj.(*errorsGo.Error); okErrGo {
		return errGo
	}
	return errorsGo.Wrap(obj, 1)
}

func Errorf(format string, a ...any) error { return errorsGo.Errorf(format, a...) }

func WrapPrefix(e any, prefix string, skip int) error {
	return errorsGo.WrapPrefix(e, prefix, skip+1)
}

// Stack returns the stack trace of err, or its message when it has none.
func Stack(err error) string {
	if err == nil {
		return ``
	}
	var stackFramer interface{ ErrorStack() string }
	if errors.As(err, &stackFramer) {
		return stackFramer.ErrorStack()
	}
	return err.Error()
}

package runner

import (
	"errors"
	"fmt"
)

// 进程退出码
const (
	ExitOK        = 0
	ExitFatal     = 1
	ExitConfig    = 2
	ExitThreshold = 3
	ExitVerify    = 4
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exit wraps err with an exit code. A nil err stays nil.
func Exit(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error to the process exit code. Errors without an
// explicit code are treated as fatal.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitFatal
}

// ErrThresholdExceeded is returned when the error rate is above load.max_error_rate.
var ErrThresholdExceeded = errors.New("error rate threshold exceeded")

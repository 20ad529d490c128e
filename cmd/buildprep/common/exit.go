package common

import "errors"

const (
	ExitCodeSuccess = 0
	ExitCodeFailure = 1
)

// ExitError is an error with an explicit process exit status.
type ExitError struct {
	Code int
	Msg  string
}

func (e ExitError) Error() string { return e.Msg }
func (e ExitError) ExitCode() int { return e.Code }

type exitCoder interface {
	ExitCode() int
}

// ExitCode maps err to a process status: 0 for nil, the error's own code
// when it carries a positive one, otherwise 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var ec exitCoder
	if errors.As(err, &ec) {
		if c := ec.ExitCode(); c > 0 {
			return c
		}
	}
	return ExitCodeFailure
}

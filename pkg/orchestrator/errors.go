package orchestrator

import (
	"errors"
	"fmt"
)

// Stage names a pipeline step for error reporting.
type Stage string

const (
	StageRead   Stage = "read"
	StageEncode Stage = "encode"
	StageWrite  Stage = "write"
)

// Process exit statuses.
const (
	ExitOK     = 0
	ExitUsage  = 1
	ExitRead   = 2
	ExitEncode = 3
	ExitWrite  = 4
	ExitConfig = 5 // Invalid settings; reported by the command line only
)

// StageError records which pipeline step failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Run to a process exit status.
// Errors that did not come from a stage are usage errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var se *StageError
	if !errors.As(err, &se) {
		return ExitUsage
	}
	switch se.Stage {
	case StageRead:
		return ExitRead
	case StageEncode:
		return ExitEncode
	case StageWrite:
		return ExitWrite
	default:
		return ExitUsage
	}
}

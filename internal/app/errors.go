package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrUnknownScript indicates a reload for a script that was never loaded.
	ErrUnknownScript = errors.New("script not loaded")

	// ErrScriptConflict indicates a script already attached to another manager.
	ErrScriptConflict = errors.New("script attached to another manager")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "load", "reload", "fire")
	Target string // Target of the operation (e.g., script path, event name)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

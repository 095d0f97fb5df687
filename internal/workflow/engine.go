package workflow

import (
	"context"
	"encoding/json"
	"errors"
)

// Status is the engine-owned execution state. The coordinator only reads it.
type Status string

const (
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
	StatusTimedOut  Status = "TIMED_OUT"
	StatusAborted   Status = "ABORTED"
)

// Terminal reports whether no further transition can occur.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusTimedOut, StatusAborted:
		return true
	}
	return false
}

// Execution is a point-in-time view of one workflow run. Output is set only
// on terminal success.
type Execution struct {
	ID     string          `json:"executionArn"`
	Status Status          `json:"status"`
	Output json.RawMessage `json:"output,omitempty"`
}

var (
	ErrStartFailed       = errors.New("workflow: start failed")
	ErrLookupFailed      = errors.New("workflow: lookup failed")
	ErrExecutionNotFound = errors.New("workflow: execution not found")
	ErrNotReady          = errors.New("workflow: result not ready")
	ErrExecutionFailed   = errors.New("workflow: execution did not succeed")
)

// Engine starts and tracks named executions with JSON input and output.
type Engine interface {
	StartExecution(ctx context.Context, input json.RawMessage) (string, error)
	DescribeExecution(ctx context.Context, id string) (*Execution, error)
}

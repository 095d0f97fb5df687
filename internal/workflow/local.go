package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Task is the body a local execution runs to completion.
type Task func(ctx context.Context, input json.RawMessage) (json.RawMessage, error)

// LocalEngine runs executions in-process, one goroutine per start. Once
// started, an execution runs until a terminal state or its deadline; there
// is no client-facing cancellation.
type LocalEngine struct {
	name    string
	run     Task
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.RWMutex
	execs   map[string]*Execution
	cancels map[string]context.CancelFunc
}

func NewLocalEngine(name string, run Task, timeout time.Duration, logger *zap.Logger) *LocalEngine {
	return &LocalEngine{
		name:    name,
		run:     run,
		timeout: timeout,
		logger:  logger,
		execs:   make(map[string]*Execution),
		cancels: make(map[string]context.CancelFunc),
	}
}

// StartExecution records a RUNNING execution and returns immediately.
func (e *LocalEngine) StartExecution(ctx context.Context, input json.RawMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := fmt.Sprintf("arn:local:execution:%s:%s", e.name, uuid.NewString())

	// Detached from the request context: the run outlives the submission.
	runCtx, cancel := context.WithTimeout(context.Background(), e.timeout)

	e.mu.Lock()
	e.execs[id] = &Execution{ID: id, Status: StatusRunning}
	e.cancels[id] = cancel
	e.mu.Unlock()

	go e.execute(runCtx, id, input)

	e.logger.Info("execution started", zap.String("execution_arn", id))
	return id, nil
}

func (e *LocalEngine) execute(ctx context.Context, id string, input json.RawMessage) {
	output, err := e.run(ctx, input)

	status := StatusSucceeded
	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		status = StatusTimedOut
	case err != nil && errors.Is(err, context.Canceled):
		status = StatusAborted
	case err != nil:
		status = StatusFailed
	}

	e.mu.Lock()
	exec := e.execs[id]
	if exec != nil && !exec.Status.Terminal() {
		exec.Status = status
		if status == StatusSucceeded {
			exec.Output = output
		}
	}
	if cancel := e.cancels[id]; cancel != nil {
		cancel()
		delete(e.cancels, id)
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("execution finished",
			zap.String("execution_arn", id),
			zap.String("status", string(status)),
			zap.Error(err))
		return
	}
	e.logger.Info("execution finished",
		zap.String("execution_arn", id),
		zap.String("status", string(status)))
}

// DescribeExecution is a pure read; the returned value is a copy.
func (e *LocalEngine) DescribeExecution(ctx context.Context, id string) (*Execution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	exec, ok := e.execs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExecutionNotFound, id)
	}
	view := *exec
	return &view, nil
}

// Abort is an administrative stop. It cancels a running execution's context
// and marks it ABORTED; terminal executions are left untouched.
func (e *LocalEngine) Abort(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	exec, ok := e.execs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrExecutionNotFound, id)
	}
	if exec.Status.Terminal() {
		return nil
	}
	exec.Status = StatusAborted
	if cancel := e.cancels[id]; cancel != nil {
		cancel()
		delete(e.cancels, id)
	}
	return nil
}

package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Coordinator is a typed façade over the workflow engine. It performs no
// business logic; its one job is mapping engine states and errors into the
// service's taxonomy so the rest of the system stays engine-agnostic.
type Coordinator struct {
	engine Engine
	logger *zap.Logger
}

func NewCoordinator(engine Engine, logger *zap.Logger) *Coordinator {
	return &Coordinator{engine: engine, logger: logger}
}

// Start fires an execution and returns its identifier without waiting for
// completion.
func (c *Coordinator) Start(ctx context.Context, input json.RawMessage) (string, error) {
	id, err := c.engine.StartExecution(ctx, input)
	if err != nil {
		c.logger.Error("workflow start failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrStartFailed, err)
	}
	return id, nil
}

// Describe returns the current status and, on terminal success, the output.
// It never mutates execution state.
func (c *Coordinator) Describe(ctx context.Context, id string) (*Execution, error) {
	exec, err := c.engine.DescribeExecution(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExecutionNotFound) {
			return nil, err
		}
		c.logger.Error("workflow lookup failed",
			zap.String("execution_arn", id),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	return exec, nil
}

// Result extracts the output payload of a succeeded execution. While the
// execution is non-terminal it fails with ErrNotReady; a terminal failure
// state yields ErrExecutionFailed.
func (c *Coordinator) Result(ctx context.Context, id string) (json.RawMessage, error) {
	exec, err := c.Describe(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case !exec.Status.Terminal():
		return nil, fmt.Errorf("%w: execution is %s", ErrNotReady, exec.Status)
	case exec.Status != StatusSucceeded:
		return nil, fmt.Errorf("%w: execution ended %s", ErrExecutionFailed, exec.Status)
	}
	return exec.Output, nil
}

package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitTerminal(t *testing.T, engine *LocalEngine, id string) *Execution {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		exec, err := engine.DescribeExecution(context.Background(), id)
		if err != nil {
			t.Fatalf("DescribeExecution failed: %v", err)
		}
		if exec.Status.Terminal() {
			return exec
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("execution never reached a terminal state")
	return nil
}

func TestLocalEngineSucceeds(t *testing.T) {
	task := func(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
		return json.RawMessage(`{"done":true}`), nil
	}
	engine := NewLocalEngine("test", task, time.Second, zap.NewNop())

	id, err := engine.StartExecution(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("StartExecution failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty execution id")
	}

	exec := waitTerminal(t, engine, id)
	if exec.Status != StatusSucceeded {
		t.Errorf("expected SUCCEEDED, got %s", exec.Status)
	}
	if string(exec.Output) != `{"done":true}` {
		t.Errorf("unexpected output: %s", exec.Output)
	}
}

func TestLocalEngineFails(t *testing.T) {
	task := func(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
		return nil, errors.New("boom")
	}
	engine := NewLocalEngine("test", task, time.Second, zap.NewNop())

	id, _ := engine.StartExecution(context.Background(), nil)
	exec := waitTerminal(t, engine, id)
	if exec.Status != StatusFailed {
		t.Errorf("expected FAILED, got %s", exec.Status)
	}
	if len(exec.Output) != 0 {
		t.Errorf("failed execution must carry no output, got %s", exec.Output)
	}
}

func TestLocalEngineTimesOut(t *testing.T) {
	task := func(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	engine := NewLocalEngine("test", task, 20*time.Millisecond, zap.NewNop())

	id, _ := engine.StartExecution(context.Background(), nil)
	exec := waitTerminal(t, engine, id)
	if exec.Status != StatusTimedOut {
		t.Errorf("expected TIMED_OUT, got %s", exec.Status)
	}
}

func TestLocalEngineUnknownExecution(t *testing.T) {
	engine := NewLocalEngine("test", nil, time.Second, zap.NewNop())

	_, err := engine.DescribeExecution(context.Background(), "arn:local:execution:test:nope")
	if !errors.Is(err, ErrExecutionNotFound) {
		t.Errorf("expected execution-not-found error, got %v", err)
	}
}

func TestLocalEngineAbort(t *testing.T) {
	release := make(chan struct{})
	task := func(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
		select {
		case <-release:
			return json.RawMessage(`{}`), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	engine := NewLocalEngine("test", task, time.Second, zap.NewNop())

	id, _ := engine.StartExecution(context.Background(), nil)
	if err := engine.Abort(id); err != nil {
		t.Fatalf("Abort failed: %v", err)
	}
	close(release)

	exec := waitTerminal(t, engine, id)
	if exec.Status != StatusAborted {
		t.Errorf("expected ABORTED, got %s", exec.Status)
	}
}

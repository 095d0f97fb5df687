package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeEngine struct {
	startID  string
	startErr error
	exec     *Execution
	descErr  error
}

func (f *fakeEngine) StartExecution(ctx context.Context, input json.RawMessage) (string, error) {
	return f.startID, f.startErr
}

func (f *fakeEngine) DescribeExecution(ctx context.Context, id string) (*Execution, error) {
	if f.descErr != nil {
		return nil, f.descErr
	}
	return f.exec, nil
}

func TestCoordinatorStart(t *testing.T) {
	c := NewCoordinator(&fakeEngine{startID: "arn:x"}, zap.NewNop())

	id, err := c.Start(context.Background(), json.RawMessage(`{}`))
	if err != nil || id != "arn:x" {
		t.Errorf("unexpected start result: %q, %v", id, err)
	}
}

func TestCoordinatorStartEngineUnreachable(t *testing.T) {
	c := NewCoordinator(&fakeEngine{startErr: errors.New("connection refused")}, zap.NewNop())

	_, err := c.Start(context.Background(), nil)
	if !errors.Is(err, ErrStartFailed) {
		t.Errorf("expected start-failed error, got %v", err)
	}
}

func TestCoordinatorDescribeMapsErrors(t *testing.T) {
	c := NewCoordinator(&fakeEngine{descErr: errors.New("connection refused")}, zap.NewNop())
	if _, err := c.Describe(context.Background(), "arn:x"); !errors.Is(err, ErrLookupFailed) {
		t.Errorf("expected lookup-failed error, got %v", err)
	}

	c = NewCoordinator(&fakeEngine{descErr: ErrExecutionNotFound}, zap.NewNop())
	if _, err := c.Describe(context.Background(), "arn:x"); !errors.Is(err, ErrExecutionNotFound) {
		t.Errorf("expected execution-not-found error, got %v", err)
	}
}

func TestCoordinatorResult(t *testing.T) {
	cases := []struct {
		name    string
		exec    *Execution
		wantErr error
		wantOut string
	}{
		{"running", &Execution{Status: StatusRunning}, ErrNotReady, ""},
		{"failed", &Execution{Status: StatusFailed}, ErrExecutionFailed, ""},
		{"timed out", &Execution{Status: StatusTimedOut}, ErrExecutionFailed, ""},
		{"aborted", &Execution{Status: StatusAborted}, ErrExecutionFailed, ""},
		{"succeeded", &Execution{Status: StatusSucceeded, Output: json.RawMessage(`{"a":1}`)}, nil, `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCoordinator(&fakeEngine{exec: tc.exec}, zap.NewNop())
			out, err := c.Result(context.Background(), "arn:x")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Result failed: %v", err)
			}
			if string(out) != tc.wantOut {
				t.Errorf("expected output %s, got %s", tc.wantOut, out)
			}
		})
	}
}

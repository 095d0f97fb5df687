package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-sdk-go-v2/service/sfn/types"
)

// SFNClient is the subset of the Step Functions API the engine uses.
type SFNClient interface {
	StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error)
	DescribeExecution(ctx context.Context, params *sfn.DescribeExecutionInput, optFns ...func(*sfn.Options)) (*sfn.DescribeExecutionOutput, error)
}

// SFNEngine runs the fulfillment workflow on an AWS Step Functions state
// machine instead of in-process.
type SFNEngine struct {
	client          SFNClient
	stateMachineARN string
}

func NewSFNEngine(client SFNClient, stateMachineARN string) *SFNEngine {
	return &SFNEngine{client: client, stateMachineARN: stateMachineARN}
}

func (e *SFNEngine) StartExecution(ctx context.Context, input json.RawMessage) (string, error) {
	out, err := e.client.StartExecution(ctx, &sfn.StartExecutionInput{
		StateMachineArn: aws.String(e.stateMachineARN),
		Input:           aws.String(string(input)),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.ExecutionArn), nil
}

func (e *SFNEngine) DescribeExecution(ctx context.Context, id string) (*Execution, error) {
	out, err := e.client.DescribeExecution(ctx, &sfn.DescribeExecutionInput{
		ExecutionArn: aws.String(id),
		IncludedData: types.IncludedDataAllData,
	})
	if err != nil {
		return nil, err
	}

	exec := &Execution{
		ID:     aws.ToString(out.ExecutionArn),
		Status: statusFromSFN(out.Status),
	}
	if exec.Status == StatusSucceeded && out.Output != nil {
		exec.Output = json.RawMessage(aws.ToString(out.Output))
	}
	return exec, nil
}

func statusFromSFN(s types.ExecutionStatus) Status {
	switch s {
	case types.ExecutionStatusRunning, types.ExecutionStatusPendingRedrive:
		return StatusRunning
	case types.ExecutionStatusSucceeded:
		return StatusSucceeded
	case types.ExecutionStatusFailed:
		return StatusFailed
	case types.ExecutionStatusTimedOut:
		return StatusTimedOut
	case types.ExecutionStatusAborted:
		return StatusAborted
	}
	return Status(fmt.Sprint(s))
}

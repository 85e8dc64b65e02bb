// Package executor defines the contract for running snippet code in an
// isolated environment.
package executor

import (
	"context"
	"time"
)

// ExecutionRequest carries the code to run.
type ExecutionRequest struct {
	Code string `json:"code"`
}

// ExecutionResult is the captured output and status of one run.
type ExecutionResult struct {
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exitCode"`
	Duration time.Duration `json:"duration"`
}

// Executor runs code in an isolated environment.
type Executor interface {
	Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error)
}

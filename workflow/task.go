// Package workflow builds a DAG of agent calls out of Tasks, validates it,
// and runs it by dispatching each task concurrently as soon as all its
// dependencies have completed, propagating predecessor output into
// successor prompts and surfacing a chronological event log.
package workflow

import (
	"github.com/google/uuid"

	"github.com/flowcraft/llmorch/agent"
	"github.com/flowcraft/llmorch/prompt"
)

// TaskStatus is the lifecycle state of a Task within a Workflow run.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Task is one node of a Workflow's DAG: a prompt to run through an agent,
// a set of dependency task ids that must complete first, and the terminal
// result once the workflow has run it.
type Task struct {
	ID           string
	AgentID      string
	Prompt       *prompt.Prompt
	Dependencies []string
	OutputType   any
	ModelOverride string

	Status TaskStatus
	Result *TaskResult
}

// TaskResult is a Task's outcome: exactly one of Response/Err is set once
// the task reaches a terminal status.
type TaskResult struct {
	Response *agent.ChatResponse
	Err      error
}

// NewTask constructs a Task in TaskPending status. If id is empty, a
// time-ordered UUIDv7 is assigned so tasks naturally sort by creation
// order even across a distributed workflow store.
func NewTask(id, agentID string, p *prompt.Prompt, dependencies ...string) (*Task, error) {
	if id == "" {
		generated, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		id = generated.String()
	}
	return &Task{
		ID:           id,
		AgentID:      agentID,
		Prompt:       p,
		Dependencies: dependencies,
		Status:       TaskPending,
	}, nil
}

package workflow

import (
	"context"
	"fmt"

	"github.com/flowcraft/llmorch/agent"
)

// WorkflowResult is the terminal outcome of a Run: every task's final
// status/result, and the chronologically ordered event log.
type WorkflowResult struct {
	Tasks  map[string]*Task
	Events []Event
}

type taskOutcome struct {
	taskID string
	resp   *agent.ChatResponse
	err    error
}

// Run drives every Task in w to a terminal status: it validates the DAG,
// binds globalContext into every task's stored prompt, then repeatedly
// dispatches the ready set (tasks whose dependencies have all completed)
// to their agents concurrently, injecting each completed predecessor's
// textual output as a named bind into its dependents' prompts before they
// run. A task whose dependency failed is marked Failed with
// DependencyFailed without ever running.
//
// Run is cooperatively cancellable: once ctx is done, already-dispatched
// tasks are allowed to finish (their results are retained) but no new
// task is dispatched; remaining Pending tasks are marked Failed with
// agent.Cancelled. The event log is never corrupted by cancellation.
func (w *Workflow) Run(ctx context.Context, globalContext map[string]any) (*WorkflowResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	ctx = agent.WithWorkflowID(ctx, w.Name)
	if len(globalContext) > 0 {
		for _, t := range w.Tasks {
			bound, err := t.Prompt.BindAll(globalContext)
			if err != nil {
				return nil, err
			}
			t.Prompt = bound
		}
	}

	dependents := w.dependentsOf()
	log := &eventLog{}
	remaining := len(w.Tasks)
	inFlight := 0
	results := make(chan taskOutcome)

	for remaining > 0 {
		cancelled := ctx.Err() != nil

		if !cancelled {
			ready := w.readyTasks()
			for _, t := range ready {
				t.Status = TaskRunning
				log.emit(EventTaskStarted, t.ID, nil)
				inFlight++
				go w.dispatch(ctx, t, results)
			}
		}

		if inFlight == 0 {
			// Nothing running and nothing new to dispatch: either the run
			// was cancelled before any work started, or every remaining
			// task has already been failed by propagation.
			failed := w.failPending(log, cancelled)
			remaining -= failed
			if remaining == 0 {
				break
			}
			if failed == 0 {
				return nil, fmt.Errorf("workflow: no progress possible with %d tasks remaining", remaining)
			}
			continue
		}

		outcome := <-results
		inFlight--
		remaining--
		t := w.Tasks[outcome.taskID]

		if outcome.err != nil {
			t.Status = TaskFailed
			t.Result = &TaskResult{Err: outcome.err}
			log.emit(EventTaskFailed, t.ID, map[string]any{"error": outcome.err.Error()})
			remaining -= w.propagateFailure(t.ID, dependents, log)
			continue
		}

		t.Status = TaskCompleted
		t.Result = &TaskResult{Response: outcome.resp}
		log.emit(EventTaskCompleted, t.ID, nil)

		for _, succID := range dependents[t.ID] {
			succ := w.Tasks[succID]
			if succ.Status != TaskPending {
				continue
			}
			bound, err := succ.Prompt.Bind(t.ID, outcome.resp.Text)
			if err != nil {
				continue
			}
			succ.Prompt = bound
		}
	}

	return &WorkflowResult{Tasks: w.Tasks, Events: log.snapshot()}, nil
}

func (w *Workflow) dispatch(ctx context.Context, t *Task, results chan<- taskOutcome) {
	ctx = agent.WithTaskID(ctx, t.ID)
	ag := w.Agents[t.AgentID]
	resp, err := ag.ExecuteTask(ctx, t.Prompt, t.OutputType, t.ModelOverride)
	results <- taskOutcome{taskID: t.ID, resp: resp, err: err}
}

// readyTasks returns every Pending task whose dependencies have all
// completed.
func (w *Workflow) readyTasks() []*Task {
	var ready []*Task
	for _, id := range w.order {
		t := w.Tasks[id]
		if t.Status != TaskPending {
			continue
		}
		if w.allDepsCompleted(t) {
			ready = append(ready, t)
		}
	}
	return ready
}

func (w *Workflow) allDepsCompleted(t *Task) bool {
	for _, dep := range t.Dependencies {
		if w.Tasks[dep].Status != TaskCompleted {
			return false
		}
	}
	return true
}

// failPending transitions every still-Pending task to Failed, either
// because the run was cancelled or because propagation has already
// doomed it (a dependency failed but the BFS had not yet reached it, e.g.
// a diamond dependency reached through two failed paths). It returns the
// number of tasks it failed.
func (w *Workflow) failPending(log *eventLog, cancelled bool) int {
	count := 0
	for _, id := range w.order {
		t := w.Tasks[id]
		if t.Status != TaskPending {
			continue
		}
		var err error
		if cancelled {
			err = agent.Cancelled
		} else {
			err = firstFailedDependency(t, w.Tasks)
			if err == nil {
				continue
			}
		}
		t.Status = TaskFailed
		t.Result = &TaskResult{Err: err}
		log.emit(EventTaskFailed, t.ID, map[string]any{"error": err.Error()})
		count++
	}
	return count
}

func firstFailedDependency(t *Task, tasks map[string]*Task) error {
	for _, dep := range t.Dependencies {
		if tasks[dep].Status == TaskFailed {
			return &agent.DependencyFailed{UpstreamID: dep}
		}
	}
	return nil
}

// propagateFailure performs a breadth-first walk over failedID's
// dependents, failing every task reachable through a chain of
// dependencies without ever running it. It returns how many tasks it
// failed, so the caller can keep its remaining-task counter accurate.
func (w *Workflow) propagateFailure(failedID string, dependents map[string][]string, log *eventLog) int {
	type node struct{ id, upstream string }
	count := 0
	queue := make([]node, 0, len(dependents[failedID]))
	for _, id := range dependents[failedID] {
		queue = append(queue, node{id: id, upstream: failedID})
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		t := w.Tasks[n.id]
		if t.Status != TaskPending {
			continue
		}
		t.Status = TaskFailed
		t.Result = &TaskResult{Err: &agent.DependencyFailed{UpstreamID: n.upstream}}
		log.emit(EventTaskFailed, t.ID, map[string]any{"error": t.Result.Err.Error(), "upstream": n.upstream})
		count++
		for _, id := range dependents[n.id] {
			queue = append(queue, node{id: id, upstream: n.id})
		}
	}
	return count
}

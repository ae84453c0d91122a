package workflow

import (
	"fmt"
	"sort"

	"github.com/flowcraft/llmorch/agent"
)

// Workflow is a named DAG of Tasks dispatched through a set of Agents.
type Workflow struct {
	Name   string
	Agents map[string]*agent.Agent
	Tasks  map[string]*Task

	order []string // insertion order, for stable iteration and serialization
}

// New creates an empty Workflow.
func New(name string) *Workflow {
	return &Workflow{Name: name, Agents: make(map[string]*agent.Agent), Tasks: make(map[string]*Task)}
}

// AddAgent registers a by which tasks may dispatch via Task.AgentID.
func (w *Workflow) AddAgent(a *agent.Agent) {
	w.Agents[a.ID] = a
}

// AddTask registers t. It does not validate the DAG; call Validate (or
// Run, which validates internally) once every task has been added.
func (w *Workflow) AddTask(t *Task) error {
	if t.ID == "" {
		return &agent.ValidationError{Reason: "task id must not be empty"}
	}
	if _, exists := w.Tasks[t.ID]; exists {
		return &agent.ValidationError{Reason: fmt.Sprintf("duplicate task id %q", t.ID)}
	}
	w.Tasks[t.ID] = t
	w.order = append(w.order, t.ID)
	return nil
}

// Validate checks that every dependency references a known task, that
// every AgentID references a registered agent, and that the dependency
// graph is acyclic.
func (w *Workflow) Validate() error {
	for _, t := range w.Tasks {
		if _, ok := w.Agents[t.AgentID]; !ok {
			return &agent.ValidationError{Reason: fmt.Sprintf("task %q references unknown agent %q", t.ID, t.AgentID)}
		}
		for _, dep := range t.Dependencies {
			if _, ok := w.Tasks[dep]; !ok {
				return &agent.ValidationError{Reason: fmt.Sprintf("task %q depends on unknown task %q", t.ID, dep)}
			}
		}
	}
	if _, err := w.topologicalSort(); err != nil {
		return err
	}
	return nil
}

// topologicalSort runs Kahn's algorithm over the task graph, returning an
// error if a cycle exists. Grounded on the teacher's
// agent/planner_executor.go topologicalSort.
func (w *Workflow) topologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(w.Tasks))
	adjacency := make(map[string][]string, len(w.Tasks))
	for id := range w.Tasks {
		inDegree[id] = 0
	}
	for id, t := range w.Tasks {
		for _, dep := range t.Dependencies {
			adjacency[dep] = append(adjacency[dep], id)
			inDegree[id]++
		}
	}

	queue := make([]string, 0, len(w.Tasks))
	for _, id := range w.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	sorted := make([]string, 0, len(w.Tasks))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		next := adjacency[current]
		sort.Strings(next)
		for _, neighbor := range next {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(sorted) != len(w.Tasks) {
		return nil, &agent.ValidationError{Reason: "cyclic task dependency graph"}
	}
	return sorted, nil
}

// dependentsOf returns, for every task id, the set of task ids that
// directly depend on it.
func (w *Workflow) dependentsOf() map[string][]string {
	dependents := make(map[string][]string, len(w.Tasks))
	for id, t := range w.Tasks {
		for _, dep := range t.Dependencies {
			dependents[dep] = append(dependents[dep], id)
		}
	}
	return dependents
}

package workflow

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/flowcraft/llmorch/prompt"
)

// AgentSpec is the serializable identity of an Agent: enough to recreate
// one against a live transport.Client and responseformat.Resolver after
// load, but never the transport/cache wiring itself.
type AgentSpec struct {
	ID                 string          `json:"id"`
	Provider           prompt.Provider `json:"provider"`
	SystemInstructions []string        `json:"system_instructions,omitempty"`
}

type persistedTask struct {
	ID            string          `json:"id"`
	AgentID       string          `json:"agent_id"`
	Prompt        json.RawMessage `json:"prompt"`
	HasOutputType bool            `json:"has_output_type,omitempty"`
	ModelOverride string          `json:"model_override,omitempty"`
	Status        TaskStatus      `json:"status"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type persistedWorkflow struct {
	Name   string          `json:"name"`
	Agents []AgentSpec     `json:"agents"`
	Tasks  []persistedTask `json:"tasks"`
	Edges  []edge          `json:"edges"`
}

// AgentSpecs returns the serializable identity of every registered agent.
func (w *Workflow) AgentSpecs() []AgentSpec {
	specs := make([]AgentSpec, 0, len(w.Agents))
	for id, a := range w.Agents {
		specs = append(specs, AgentSpec{ID: id, Provider: a.Provider, SystemInstructions: a.SystemInstructions})
	}
	return specs
}

// MarshalJSON encodes w as {name, agents[], tasks[], edges[]}. A Task's
// OutputType is not JSON-serializable and is dropped; callers reattach it
// after Load via AddTaskOutputTypes, keyed by the task id.
func (w *Workflow) MarshalJSON() ([]byte, error) {
	pw := persistedWorkflow{Name: w.Name, Agents: w.AgentSpecs()}
	for _, id := range w.order {
		t := w.Tasks[id]
		promptJSON, err := json.Marshal(t.Prompt)
		if err != nil {
			return nil, err
		}
		pw.Tasks = append(pw.Tasks, persistedTask{
			ID: t.ID, AgentID: t.AgentID, Prompt: promptJSON,
			HasOutputType: t.OutputType != nil, ModelOverride: t.ModelOverride, Status: t.Status,
		})
		for _, dep := range t.Dependencies {
			pw.Edges = append(pw.Edges, edge{From: dep, To: t.ID})
		}
	}
	return json.Marshal(pw)
}

// Load reads a Workflow previously written by Save. Dependencies are
// reconstructed from the edges array. Agents are returned as AgentSpec
// values only (no live transport/cache wiring survives a round trip); the
// caller builds live *agent.Agent values from them and registers each
// with AddAgent before Run. Tasks whose HasOutputType was true need their
// OutputType reattached with AddTaskOutputTypes before Run.
func Load(path string) (*Workflow, []AgentSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var pw persistedWorkflow
	if err := json.Unmarshal(data, &pw); err != nil {
		return nil, nil, err
	}

	dependencies := make(map[string][]string)
	for _, e := range pw.Edges {
		dependencies[e.To] = append(dependencies[e.To], e.From)
	}

	w := New(pw.Name)
	for _, pt := range pw.Tasks {
		p := &prompt.Prompt{}
		if err := json.Unmarshal(pt.Prompt, p); err != nil {
			return nil, nil, fmt.Errorf("workflow: decode task %q prompt: %w", pt.ID, err)
		}
		t := &Task{
			ID: pt.ID, AgentID: pt.AgentID, Prompt: p,
			Dependencies:  dependencies[pt.ID],
			ModelOverride: pt.ModelOverride, Status: pt.Status,
		}
		if err := w.AddTask(t); err != nil {
			return nil, nil, err
		}
	}
	return w, pw.Agents, nil
}

// AddTaskOutputTypes reattaches output types dropped by serialization,
// keyed by task id.
func (w *Workflow) AddTaskOutputTypes(outputTypes map[string]any) {
	for id, t := range w.Tasks {
		if ot, ok := outputTypes[id]; ok {
			t.OutputType = ot
		}
	}
}

// Save writes w to path in the canonical persisted JSON form.
func Save(w *Workflow, path string) error {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

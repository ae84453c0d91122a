package workflow

import (
	"testing"

	"github.com/flowcraft/llmorch/agent"
	"github.com/flowcraft/llmorch/prompt"
	"github.com/flowcraft/llmorch/responseformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPrompt(t *testing.T, text string) *prompt.Prompt {
	t.Helper()
	p, err := prompt.New("gpt-4o", prompt.ProviderOpenAI, text)
	require.NoError(t, err)
	return p
}

func testAgent(id string, tr *fakeTransport) *agent.Agent {
	return agent.New(id, prompt.ProviderOpenAI, tr, responseformat.NewResolver(responseformat.NewMemoryCache(0, 0)), nil, nil)
}

func TestWorkflow_Validate_DetectsMissingDependency(t *testing.T) {
	w := New("wf")
	w.AddAgent(testAgent("a1", &fakeTransport{}))
	task, err := NewTask("t1", "a1", mustPrompt(t, "hi"), "missing")
	require.NoError(t, err)
	require.NoError(t, w.AddTask(task))

	err = w.Validate()
	var valErr *agent.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestWorkflow_Validate_DetectsCycle(t *testing.T) {
	w := New("wf")
	w.AddAgent(testAgent("a1", &fakeTransport{}))
	t1, _ := NewTask("t1", "a1", mustPrompt(t, "a"), "t2")
	t2, _ := NewTask("t2", "a1", mustPrompt(t, "b"), "t1")
	require.NoError(t, w.AddTask(t1))
	require.NoError(t, w.AddTask(t2))

	err := w.Validate()
	var valErr *agent.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestWorkflow_Validate_DetectsUnknownAgent(t *testing.T) {
	w := New("wf")
	task, _ := NewTask("t1", "ghost", mustPrompt(t, "hi"))
	require.NoError(t, w.AddTask(task))

	err := w.Validate()
	var valErr *agent.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestWorkflow_AddTask_RejectsDuplicateID(t *testing.T) {
	w := New("wf")
	t1, _ := NewTask("dup", "a1", mustPrompt(t, "a"))
	t2, _ := NewTask("dup", "a1", mustPrompt(t, "b"))
	require.NoError(t, w.AddTask(t1))
	err := w.AddTask(t2)
	assert.Error(t, err)
}

func TestWorkflow_Validate_AcceptsDiamondDAG(t *testing.T) {
	w := New("wf")
	w.AddAgent(testAgent("a1", &fakeTransport{}))
	root, _ := NewTask("root", "a1", mustPrompt(t, "r"))
	left, _ := NewTask("left", "a1", mustPrompt(t, "l"), "root")
	right, _ := NewTask("right", "a1", mustPrompt(t, "r2"), "root")
	joined, _ := NewTask("joined", "a1", mustPrompt(t, "j"), "left", "right")
	for _, task := range []*Task{root, left, right, joined} {
		require.NoError(t, w.AddTask(task))
	}
	assert.NoError(t, w.Validate())
}

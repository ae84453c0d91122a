package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flowcraft/llmorch/responseformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_SaveLoad_RoundTripsDependenciesAndPrompts(t *testing.T) {
	ft := &fakeTransport{}
	w := New("demo")
	w.AddAgent(testAgent("a1", ft))
	root, _ := NewTask("root", "a1", promptForModel(t, "m1", "root prompt"))
	leaf, _ := NewTask("leaf", "a1", promptForModel(t, "m2", "leaf prompt"), "root")
	leaf.OutputType = &responseformat.Score{}
	require.NoError(t, w.AddTask(root))
	require.NoError(t, w.AddTask(leaf))

	path := filepath.Join(t.TempDir(), "wf.json")
	require.NoError(t, Save(w, path))

	loaded, specs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "a1", specs[0].ID)

	require.Contains(t, loaded.Tasks, "root")
	require.Contains(t, loaded.Tasks, "leaf")
	assert.Empty(t, loaded.Tasks["root"].Dependencies)
	assert.Equal(t, []string{"root"}, loaded.Tasks["leaf"].Dependencies)
	assert.Equal(t, "root prompt", loaded.Tasks["root"].Prompt.UserMessages[0].Parts[0].Text)
	assert.Nil(t, loaded.Tasks["leaf"].OutputType, "output types are not JSON-serializable and must be reattached")

	loaded.AddAgent(testAgent("a1", ft))
	loaded.AddTaskOutputTypes(map[string]any{"leaf": &responseformat.Score{}})
	assert.NotNil(t, loaded.Tasks["leaf"].OutputType)
	assert.NoError(t, loaded.Validate())
}

func TestWorkflow_Save_WritesValidJSONFile(t *testing.T) {
	w := New("tiny")
	w.AddAgent(testAgent("a1", &fakeTransport{}))
	task, _ := NewTask("t1", "a1", promptForModel(t, "m1", "hi"))
	require.NoError(t, w.AddTask(task))

	path := filepath.Join(t.TempDir(), "tiny.json")
	require.NoError(t, Save(w, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "tiny"`)
}

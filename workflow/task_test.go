package workflow

import (
	"testing"

	"github.com/flowcraft/llmorch/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask_AssignsIDWhenEmpty(t *testing.T) {
	p, err := prompt.New("gpt-4o", prompt.ProviderOpenAI, "hi")
	require.NoError(t, err)

	t1, err := NewTask("", "agent-1", p)
	require.NoError(t, err)
	assert.NotEmpty(t, t1.ID)
	assert.Equal(t, TaskPending, t1.Status)
}

func TestNewTask_KeepsExplicitID(t *testing.T) {
	p, err := prompt.New("gpt-4o", prompt.ProviderOpenAI, "hi")
	require.NoError(t, err)

	t1, err := NewTask("fixed-id", "agent-1", p, "dep-1")
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", t1.ID)
	assert.Equal(t, []string{"dep-1"}, t1.Dependencies)
}

package agent

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogAdapter_SatisfiesLogger(t *testing.T) {
	var _ Logger = (*SlogAdapter)(nil)
}

func TestSlogAdapter_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	adapter.Info(context.Background(), "agent dispatched", F("agent_id", "researcher"), F("provider", "openai"))

	out := buf.String()
	assert.Contains(t, out, "agent dispatched")
	assert.Contains(t, out, "researcher")
	assert.Contains(t, out, "openai")
}

func TestSlogAdapter_LevelsRoute(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	adapter := NewSlogAdapter(slog.New(handler))

	adapter.Debug(context.Background(), "should be filtered")
	adapter.Error(context.Background(), "should appear")

	out := buf.String()
	assert.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "should appear")
}

func TestSlogAdapter_IncludesTraceFieldsFromContext(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	ctx := WithWorkflowID(context.Background(), "wf-1")
	ctx = WithTaskID(ctx, "task-a")
	adapter.Info(ctx, "dispatched", F("provider", "openai"))

	out := buf.String()
	assert.Contains(t, out, `"workflow_id":"wf-1"`)
	assert.Contains(t, out, `"task_id":"task-a"`)
	assert.Contains(t, out, `"provider":"openai"`)
}

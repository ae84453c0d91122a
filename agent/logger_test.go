package agent

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	fn()
	require.NoError(t, w.Close())
	os.Stdout = orig

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestStdLogger_RespectsLevel(t *testing.T) {
	logger := NewStdLogger(LogLevelWarn)
	out := captureStdout(t, func() {
		logger.Debug(context.Background(), "too quiet to show")
		logger.Info(context.Background(), "also filtered")
		logger.Warn(context.Background(), "this one shows")
	})
	assert.NotContains(t, out, "too quiet to show")
	assert.NotContains(t, out, "also filtered")
	assert.Contains(t, out, "this one shows")
}

func TestStdLogger_IncludesTraceFieldsFromContext(t *testing.T) {
	logger := NewStdLogger(LogLevelInfo)
	ctx := WithWorkflowID(context.Background(), "wf-1")
	ctx = WithTaskID(ctx, "task-a")

	out := captureStdout(t, func() {
		logger.Info(ctx, "dispatched", F("provider", "openai"))
	})
	assert.Contains(t, out, "workflow_id=wf-1")
	assert.Contains(t, out, "task_id=task-a")
	assert.Contains(t, out, "provider=openai")
	assert.True(t, strings.Index(out, "workflow_id") < strings.Index(out, "provider"))
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "UNKNOWN", LogLevel(99).String())
}

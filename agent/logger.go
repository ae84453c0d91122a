package agent

import (
	"context"
	"fmt"
	"time"
)

// LogLevel defines the severity level for logging.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelNone:
		return "NONE"
	case LogLevelError:
		return "ERROR"
	case LogLevelWarn:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Logger is the structured logging seam every Agent and the workflow
// executor write through. Implementations may sink anywhere (stdout, slog,
// a remote collector); the interface only promises leveled calls carrying
// key/value Fields.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
}

// Field is one key/value pair attached to a log line.
type Field struct {
	Key   string
	Value any
}

// F builds a Field; shorthand for call sites like
// logger.Info(ctx, "dispatched", agent.F("provider", "openai")).
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

type ctxKey int

const (
	ctxKeyTaskID ctxKey = iota
	ctxKeyWorkflowID
)

// WithTaskID attaches a workflow task ID to ctx so every Logger call made
// while handling that task — however deep in the call stack — carries it
// without the caller threading a Field through every ExecutePrompt.
func WithTaskID(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, ctxKeyTaskID, taskID)
}

// WithWorkflowID attaches a workflow run ID to ctx, mirroring WithTaskID.
func WithWorkflowID(ctx context.Context, workflowID string) context.Context {
	return context.WithValue(ctx, ctxKeyWorkflowID, workflowID)
}

// traceFields reads whatever correlation IDs ctx carries and returns them
// as Fields, so a logger implementation need not know about workflow at all.
func traceFields(ctx context.Context) []Field {
	var fields []Field
	if v, ok := ctx.Value(ctxKeyWorkflowID).(string); ok && v != "" {
		fields = append(fields, F("workflow_id", v))
	}
	if v, ok := ctx.Value(ctxKeyTaskID).(string); ok && v != "" {
		fields = append(fields, F("task_id", v))
	}
	return fields
}

// NoopLogger discards every call; it is the default when New is given a
// nil Logger, so unconfigured agents pay nothing for logging.
type NoopLogger struct{}

func (l *NoopLogger) Debug(ctx context.Context, msg string, fields ...Field) {}
func (l *NoopLogger) Info(ctx context.Context, msg string, fields ...Field)  {}
func (l *NoopLogger) Warn(ctx context.Context, msg string, fields ...Field)  {}
func (l *NoopLogger) Error(ctx context.Context, msg string, fields ...Field) {}

// StdLogger writes human-readable lines to stdout via fmt, gated by Level.
// Every line is prefixed with whatever task/workflow IDs traceFields finds
// on ctx, ahead of the caller-supplied fields.
type StdLogger struct {
	Level LogLevel
}

func NewStdLogger(level LogLevel) *StdLogger {
	return &StdLogger{Level: level}
}

func (l *StdLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	if l.Level >= LogLevelDebug {
		l.log(ctx, "DEBUG", msg, fields)
	}
}

func (l *StdLogger) Info(ctx context.Context, msg string, fields ...Field) {
	if l.Level >= LogLevelInfo {
		l.log(ctx, "INFO", msg, fields)
	}
}

func (l *StdLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	if l.Level >= LogLevelWarn {
		l.log(ctx, "WARN", msg, fields)
	}
}

func (l *StdLogger) Error(ctx context.Context, msg string, fields ...Field) {
	if l.Level >= LogLevelError {
		l.log(ctx, "ERROR", msg, fields)
	}
}

func (l *StdLogger) log(ctx context.Context, level, msg string, fields []Field) {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	output := fmt.Sprintf("[%s] %s: %s", timestamp, level, msg)

	all := append(traceFields(ctx), fields...)
	if len(all) > 0 {
		output += " |"
		for _, f := range all {
			output += fmt.Sprintf(" %s=%v", f.Key, f.Value)
		}
	}

	fmt.Println(output)
}

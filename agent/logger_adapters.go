package agent

import (
	"context"
	"log/slog"
)

// SlogAdapter routes Logger calls through a *slog.Logger, so llmorch's
// per-provider structured fields land in whatever handler the caller
// configured (JSON for a collector, text for a terminal). Like StdLogger,
// it prepends traceFields(ctx) ahead of the call's own fields.
type SlogAdapter struct {
	logger *slog.Logger
}

func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(ctx context.Context, msg string, fields ...Field) {
	s.logger.DebugContext(ctx, msg, s.attrs(ctx, fields)...)
}

func (s *SlogAdapter) Info(ctx context.Context, msg string, fields ...Field) {
	s.logger.InfoContext(ctx, msg, s.attrs(ctx, fields)...)
}

func (s *SlogAdapter) Warn(ctx context.Context, msg string, fields ...Field) {
	s.logger.WarnContext(ctx, msg, s.attrs(ctx, fields)...)
}

func (s *SlogAdapter) Error(ctx context.Context, msg string, fields ...Field) {
	s.logger.ErrorContext(ctx, msg, s.attrs(ctx, fields)...)
}

// attrs merges traceFields(ctx) with the call's own fields into a slice of
// slog.Attr values, passed to slog as its variadic args.
func (s *SlogAdapter) attrs(ctx context.Context, fields []Field) []any {
	all := append(traceFields(ctx), fields...)
	attrs := make([]any, len(all))
	for i, field := range all {
		attrs[i] = slog.Any(field.Key, field.Value)
	}
	return attrs
}

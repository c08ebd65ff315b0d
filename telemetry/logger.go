package telemetry

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTELHook adds trace and span IDs to every log entry
type OTELHook struct{}

func (h OTELHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	// Skip if no context
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	// Extract span from context
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}

	// Add trace context to log
	e.Str("trace_id", span.SpanContext().TraceID().String())
	e.Str("span_id", span.SpanContext().SpanID().String())

	if level == zerolog.ErrorLevel {
		span.SetStatus(codes.Error, msg)
	}
}

// Logger wraps zerolog with OTEL integration
type Logger struct {
	zerolog.Logger
}

// NewLogger creates a new logger with OTEL hooks
func NewLogger(service string) *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	logger := zerolog.New(os.Stderr).
		With().
		Timestamp().
		Str("service", service).
		Logger().
		Hook(OTELHook{})

	return &Logger{Logger: logger}
}

// SetLevel adjusts the minimum emitted level, defaulting to info on bad input.
func (l *Logger) SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	l.Logger = l.Logger.Level(parsed)
}

// WithContext returns a logger with context (for trace propagation)
func (l *Logger) WithContext(ctx context.Context) *zerolog.Logger {
	logger := l.Logger.With().Ctx(ctx).Logger()
	return &logger
}

// Convenience methods for the scan pipeline

func (l *Logger) LogFetchStart(ctx context.Context, environment, region string) {
	l.WithContext(ctx).Info().
		Str("environment", environment).
		Str("region", region).
		Str("operation", "fetch").
		Msg("fetching tagged resources")
}

func (l *Logger) LogFetchPage(ctx context.Context, environment string, pageSize, total int) {
	l.WithContext(ctx).Debug().
		Str("environment", environment).
		Int("page_size", pageSize).
		Int("total_so_far", total).
		Str("operation", "fetch").
		Msg("page received")
}

func (l *Logger) LogFetchRetry(ctx context.Context, environment string, attempt, maxRetries int, err error) {
	l.WithContext(ctx).Warn().
		Err(err).
		Str("environment", environment).
		Int("attempt", attempt).
		Int("max_retries", maxRetries).
		Str("operation", "fetch").
		Msg("transient fetch failure, retrying same page")
}

func (l *Logger) LogFetchComplete(ctx context.Context, environment string, resourceCount int, durationMs float64) {
	l.WithContext(ctx).Info().
		Str("environment", environment).
		Int("resources", resourceCount).
		Float64("duration_ms", durationMs).
		Str("operation", "fetch").
		Msg("fetch completed")
}

func (l *Logger) LogReportWritten(ctx context.Context, path string, rows int) {
	l.WithContext(ctx).Info().
		Str("path", path).
		Int("rows", rows).
		Str("operation", "report").
		Msg("report written")
}

func (l *Logger) LogEnvironmentError(ctx context.Context, environment string, err error) {
	l.WithContext(ctx).Error().
		Err(err).
		Str("environment", environment).
		Msg("environment processing failed")
}

func (l *Logger) LogRunComplete(ctx context.Context, environments int, outputDir string) {
	l.WithContext(ctx).Info().
		Int("environments", environments).
		Str("output_dir", outputDir).
		Msg("scan run completed")
}

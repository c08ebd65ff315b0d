package main

import (
	"context"
	"os"

	"github.com/yairfalse/tagscope/telemetry"
)

// initTelemetry initializes OTEL for tagscope
// Can be disabled with TAGSCOPE_TELEMETRY_DISABLED=true
func initTelemetry(ctx context.Context, logger *telemetry.Logger) func() {
	if os.Getenv("TAGSCOPE_TELEMETRY_DISABLED") == "true" {
		logger.Debug().Msg("telemetry disabled")
		return func() {}
	}

	cfg := telemetry.Config{
		ServiceName:    "tagscope",
		ServiceVersion: version,
		Environment:    os.Getenv("TAGSCOPE_ENVIRONMENT"),
		OTELEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Insecure:       true, // For local development
	}

	shutdown, err := telemetry.InitOTEL(ctx, cfg)
	if err != nil {
		// A scan is still useful without telemetry; warn and continue
		logger.Warn().Err(err).Msg("telemetry initialization failed, running without it")
		return func() {}
	}

	logger.Debug().Str("endpoint", cfg.OTELEndpoint).Msg("telemetry enabled")

	return func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}
}

// Environment variables for configuration:
// - OTEL_EXPORTER_OTLP_ENDPOINT: Where to send telemetry (default: localhost:4317)
// - TAGSCOPE_TELEMETRY_DISABLED: Set to "true" to disable telemetry
// - TAGSCOPE_ENVIRONMENT: Deployment environment name (dev, staging, prod)

package main

import (
	"context"
	"log"
	"os"

	"github.com/yairfalse/amiguard/telemetry"
)

// initTelemetry initializes OTEL for amiguard.
// Can be disabled with AMIGUARD_TELEMETRY_DISABLED=true
func initTelemetry(ctx context.Context) func() {
	if os.Getenv("AMIGUARD_TELEMETRY_DISABLED") == "true" {
		return func() {}
	}

	cfg := telemetry.Config{
		ServiceName:    "amiguard",
		ServiceVersion: version,
		Environment:    os.Getenv("AMIGUARD_ENVIRONMENT"),
		OTELEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Insecure:       os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
	}

	shutdown, err := telemetry.InitOTEL(ctx, cfg)
	if err != nil {
		// Remediation must not fail because a collector is down
		log.Printf("telemetry initialization failed, continuing without: %v", err)
		return func() {}
	}

	return func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("error shutting down telemetry: %v", err)
		}
	}
}

// Environment variables:
// - OTEL_EXPORTER_OTLP_ENDPOINT: collector endpoint (unset = telemetry off)
// - OTEL_EXPORTER_OTLP_INSECURE: "true" for plaintext gRPC
// - AMIGUARD_TELEMETRY_DISABLED: "true" to skip OTEL entirely
// - AMIGUARD_ENVIRONMENT: environment name (dev, staging, prod)

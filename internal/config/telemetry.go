package config

import "strconv"

// TelemetryConfig holds the OpenTelemetry tracing settings.  Tracing is
// off unless OTEL_ENABLED is set since local runs have no collector.
type TelemetryConfig struct {
	Enabled      bool    // OTEL_ENABLED
	ServiceName  string  // OTEL_SERVICE_NAME
	OTLPEndpoint string  // OTEL_EXPORTER_OTLP_ENDPOINT, host:port
	SampleRatio  float64 // OTEL_SAMPLING_RATIO, 0..1
}

// LoadTelemetryConfig reads the OTEL_* variables.
func LoadTelemetryConfig(service string) TelemetryConfig {
	ratio := 1.0
	if f, err := strconv.ParseFloat(envStr("OTEL_SAMPLING_RATIO", "1"), 64); err == nil && f >= 0 && f <= 1 {
		ratio = f
	}
	return TelemetryConfig{
		Enabled:      envBool("OTEL_ENABLED", false),
		ServiceName:  envStr("OTEL_SERVICE_NAME", service),
		OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		SampleRatio:  ratio,
	}
}

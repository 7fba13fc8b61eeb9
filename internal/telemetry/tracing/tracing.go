package tracing

import (
	"fmt"

	"github.com/honeycombio/otel-config-go/otelconfig"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

// GlobalTracer is used across the service packages to start spans.
var GlobalTracer = otel.Tracer("velora-backend")

// Setup configures the OpenTelemetry SDK via the honeycomb distro and
// returns the shutdown func. When tracing is disabled, the returned
// shutdown is a no-op and the global tracer produces inert spans.
func Setup(enabled bool, serviceName string) (func(), error) {
	if !enabled {
		log.Debugln("tracing disabled, otel setup skipped")
		return func() {}, nil
	}

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(serviceName),
	)
	if err != nil {
		return nil, fmt.Errorf("configure opentelemetry: %w", err)
	}

	return otelShutdown, nil
}

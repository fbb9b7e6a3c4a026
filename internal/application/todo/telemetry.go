package todo

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/rezkam/cadence/internal/application/todo"

// telemetry holds the tracer and instruments of the service.
// Instruments resolve against the global providers, so the service may be
// constructed before observability is initialised.
type telemetry struct {
	tracer     trace.Tracer
	completed  metric.Int64Counter
	successors metric.Int64Counter
}

func newTelemetry() *telemetry {
	meter := otel.Meter(instrumentationName)

	completed, err := meter.Int64Counter("cadence.tasks.completed",
		metric.WithDescription("Tasks marked completed"),
		metric.WithUnit("{task}"))
	if err != nil {
		otel.Handle(err)
		completed = noop.Int64Counter{}
	}

	successors, err := meter.Int64Counter("cadence.tasks.successors",
		metric.WithDescription("Follow-up tasks created for recurring tasks"),
		metric.WithUnit("{task}"))
	if err != nil {
		otel.Handle(err)
		successors = noop.Int64Counter{}
	}

	return &telemetry{
		tracer:     otel.Tracer(instrumentationName),
		completed:  completed,
		successors: successors,
	}
}

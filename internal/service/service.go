// Package service validates requests and combines store access with the
// query derivations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"taskflow/internal/store"
)

// ErrInvalid marks a request rejected by validation.
var ErrInvalid = errors.New("invalid input")

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

var tracer = otel.Tracer("taskflow/internal/service")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Services groups the per-entity services over one store.
type Services struct {
	Tasks      *TaskService
	Lists      *ListService
	Categories *CategoryService
}

type options struct {
	now func() time.Time
}

// Option configures the services.
type Option func(*options)

// WithClock sets the clock used for date-relative derivations.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New wires the services to s.
func New(s store.Store, opts ...Option) *Services {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	tasks := &TaskService{store: s, now: o.now}
	return &Services{
		Tasks:      tasks,
		Lists:      &ListService{store: s, tasks: s},
		Categories: &CategoryService{store: s},
	}
}

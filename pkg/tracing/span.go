package tracing

import (
	"context"
	"fmt"

	"go.opencensus.io/trace"
)

// Tracer is the span API the services depend on
type Tracer interface {
	StartServiceSpan(ctx context.Context, serviceName, methodName string) (context.Context, *trace.Span)
	EndSpan(span *trace.Span, err error)
	AddAttribute(ctx context.Context, key string, value interface{})
	MarkSpanError(ctx context.Context, err error)
}

type defaultTracer struct{}

func NewTracer() Tracer {
	return defaultTracer{}
}

func (defaultTracer) StartServiceSpan(ctx context.Context, serviceName, methodName string) (context.Context, *trace.Span) {
	return StartServiceSpan(ctx, serviceName, methodName)
}

func (defaultTracer) EndSpan(span *trace.Span, err error) { EndSpan(span, err) }

func (defaultTracer) AddAttribute(ctx context.Context, key string, value interface{}) {
	AddAttribute(ctx, key, value)
}

func (defaultTracer) MarkSpanError(ctx context.Context, err error) { MarkSpanError(ctx, err) }

// StartServiceSpan names the span "service.method"
func StartServiceSpan(ctx context.Context, serviceName, methodName string) (context.Context, *trace.Span) {
	return trace.StartSpan(ctx, serviceName+"."+methodName)
}

// EndSpan ends a span, recording err as its status when non-nil
func EndSpan(span *trace.Span, err error) {
	if err != nil {
		span.SetStatus(errorStatus(err))
	}
	span.End()
}

// TraceMethodWithResult wraps f in a service span
func TraceMethodWithResult[T any](ctx context.Context, serviceName, methodName string, f func(context.Context) (T, error)) (T, error) {
	ctx, span := StartServiceSpan(ctx, serviceName, methodName)
	result, err := f(ctx)
	EndSpan(span, err)
	return result, err
}

func AddAttribute(ctx context.Context, key string, value interface{}) {
	span := trace.FromContext(ctx)
	if span == nil {
		return
	}

	switch v := value.(type) {
	case string:
		span.AddAttributes(trace.StringAttribute(key, v))
	case int:
		span.AddAttributes(trace.Int64Attribute(key, int64(v)))
	case int64:
		span.AddAttributes(trace.Int64Attribute(key, v))
	case bool:
		span.AddAttributes(trace.BoolAttribute(key, v))
	default:
		span.AddAttributes(trace.StringAttribute(key, fmt.Sprintf("%v", v)))
	}
}

func MarkSpanError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if span := trace.FromContext(ctx); span != nil {
		span.SetStatus(errorStatus(err))
	}
}

func errorStatus(err error) trace.Status {
	return trace.Status{Code: trace.StatusCodeUnknown, Message: err.Error()}
}

// Package tracing provides OpenTelemetry distributed tracing setup and utilities.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StorageOperation represents the type of storage operation being traced.
type StorageOperation string

const (
	// StorageOperationGet represents a read from a storage backend.
	StorageOperationGet StorageOperation = "get"
	// StorageOperationSet represents a cache write.
	StorageOperationSet StorageOperation = "set"
	// StorageOperationPut represents an object upload.
	StorageOperationPut StorageOperation = "put"
	// StorageOperationPresign represents generating a presigned download URL.
	StorageOperationPresign StorageOperation = "presign"
)

// StartStorageSpan creates a new span for an operation against a storage
// backend such as the Redis result cache or the S3 artifact store.
// Returns the new context and a function to end the span.
//
// Example usage:
//
//	ctx, endSpan := tracing.StartStorageSpan(ctx, "redis", tracing.StorageOperationGet)
//	defer endSpan(err)
//	// ... perform storage operation ...
func StartStorageSpan(ctx context.Context, system string, operation StorageOperation) (context.Context, func(error)) {
	tracer := otel.Tracer("roomsight/storage")

	spanName := string(operation)
	if system != "" {
		spanName = spanName + " " + system
	}

	ctx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.operation", string(operation)),
		),
	)

	if system != "" {
		span.SetAttributes(attribute.String("db.system", system))
	}

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// StartSpan creates a new span for a general operation.
// Returns the new context and a function to end the span.
//
// Example usage:
//
//	ctx, endSpan := tracing.StartSpan(ctx, "detect.invoke_model")
//	defer endSpan(err)
//	// ... perform operation ...
func StartSpan(ctx context.Context, name string) (context.Context, func(error)) {
	tracer := otel.Tracer("roomsight")

	ctx, span := tracer.Start(ctx, name)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// AddEvent adds an event to the current span.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetAttributes sets attributes on the current span.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attrs...)
}

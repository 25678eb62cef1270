package fleetcheck

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	requestIDContextKey contextKey = iota + 1
	inspectorContextKey
)

// NewContextWithRequestID attaches a request ID to the context.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext returns the request ID from the context, or empty string.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}

// NewContextWithInspector attaches the name of the inspector submitting a
// record. Used to tag log lines and outgoing alerts.
func NewContextWithInspector(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, inspectorContextKey, name)
}

// InspectorFromContext returns the inspector name from the context, or empty string.
func InspectorFromContext(ctx context.Context) string {
	name, _ := ctx.Value(inspectorContextKey).(string)
	return name
}

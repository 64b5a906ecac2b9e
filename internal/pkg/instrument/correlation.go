package instrument

import "context"

// CorrelationHeader carries the request correlation id over HTTP and message headers.
const CorrelationHeader = "X-Correlation-ID"

type correlationKey struct{}

// SetCorrelationID stores id in ctx.
func SetCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// GetCorrelationID returns the id stored by SetCorrelationID, or "".
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

package mallclient

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a request identifier to ctx. The transport copies it
// into the X-Request-ID header; without one, a fresh UUID is generated per
// request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

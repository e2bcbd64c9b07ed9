// Package requestctx carries the id of the HTTP request being served through
// a context.Context.
package requestctx

import "context"

type requestIDKey struct{}

// WithID tags ctx with a request id. An empty id leaves ctx unchanged.
func WithID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// ID returns the id stored by WithID.
func ID(ctx context.Context) string {
	val := ctx.Value(requestIDKey{})
	if val == nil {
		return ""
	}
	id, _ := val.(string)
	return id
}

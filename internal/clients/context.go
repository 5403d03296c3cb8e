package clients

import "context"

type clientContextKey struct{}

// ContextWithClient stores the resolved client in context.
func ContextWithClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientContextKey{}, c)
}

// FromContext extracts the resolved client from context.
func FromContext(ctx context.Context) *Client {
	c, _ := ctx.Value(clientContextKey{}).(*Client)
	return c
}

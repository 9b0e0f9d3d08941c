package history

import "context"

type contextKey string

const ctxKeyClientIP contextKey = "history_client_ip"

// ContextWithClientIP attaches the requesting client's address so
// NewEntry can record it.
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyClientIP, ip)
}

// ClientIPFromContext returns the address set by ContextWithClientIP.
func ClientIPFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyClientIP).(string); ok {
		return v
	}
	return ""
}

package contextutils

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	accountIDKey contextKey = "account_id"
	profileIDKey contextKey = "profile_id"
)

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID adds the request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetAccountID retrieves the authenticated account ID from the context
func GetAccountID(ctx context.Context) int64 {
	if id, ok := ctx.Value(accountIDKey).(int64); ok {
		return id
	}
	return 0
}

// WithAccountID adds the authenticated account ID to the context
func WithAccountID(ctx context.Context, accountID int64) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// GetProfileID retrieves the acting profile ID from the context, when the
// request selected one
func GetProfileID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(profileIDKey).(int64)
	return id, ok
}

// WithProfileID adds the acting profile ID to the context
func WithProfileID(ctx context.Context, profileID int64) context.Context {
	return context.WithValue(ctx, profileIDKey, profileID)
}

package middleware

import "context"

type contextKey string

const (
	ctxStudioUserID contextKey = "studio_user_id"
	ctxStudioEmail  contextKey = "studio_email"
	ctxCartToken    contextKey = "cart_token"
)

func StudioUserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStudioUserID).(string); ok {
		return v
	}
	return ""
}

func StudioEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStudioEmail).(string); ok {
		return v
	}
	return ""
}

func CartTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartToken).(string); ok {
		return v
	}
	return ""
}

// WithStudioUserID injects the studio user identifier into the context.
func WithStudioUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStudioUserID, userID)
}

// WithCartToken injects the shopper's cart token into the context for downstream handlers.
func WithCartToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartToken, token)
}

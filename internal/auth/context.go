package auth

import "context"

type ctxKey string

const emailKey ctxKey = "user_email"

// ContextWithEmail stamps the authenticated email onto the context.
func ContextWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// EmailFromContext returns the authenticated email, or "" when absent.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

package utils

import "context"

type contextKey string

const (
	UserEmailKey contextKey = "email"
	UserRoleKey  contextKey = "role"
)

const (
	RolePatient = "patient"
	RoleAdmin   = "admin"
)

// SetUserContext sets the authenticated identity into context (called by middleware)
func SetUserContext(ctx context.Context, email, role string) context.Context {
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}

// GetUserEmailFromContext retrieves the caller's email safely
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

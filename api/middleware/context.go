package middleware

import "context"

type contextKey string

const (
	ctxStaffSubject contextKey = "staff_subject"
	ctxStaffRole    contextKey = "staff_role"
)

func StaffSubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStaffSubject).(string); ok {
		return v
	}
	return ""
}

func StaffRoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStaffRole).(string); ok {
		return v
	}
	return ""
}

// WithStaffSubject injects the staff identity into the context.
func WithStaffSubject(ctx context.Context, subject string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStaffSubject, subject)
}

// WithStaffRole injects the staff role into the context.
func WithStaffRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStaffRole, role)
}

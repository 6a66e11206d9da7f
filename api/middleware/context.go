package middleware

import "context"

type contextKey string

const (
	ctxSessionID contextKey = "session_id"
	ctxStaffID   contextKey = "staff_id"
	ctxRole      contextKey = "staff_role"
	ctxPointID   contextKey = "point_id"
)

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// SessionIDFromContext returns the shopper session resolved by the Session middleware.
func SessionIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxSessionID)
}

func StaffIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxStaffID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

// PointIDFromContext returns the delivery point bound to the staff token, if any.
func PointIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxPointID)
}

// WithSessionID injects the shopper session into the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

// WithStaff injects the authenticated staff identity for downstream handlers.
func WithStaff(ctx context.Context, staffID, role, pointID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxStaffID, staffID)
	ctx = context.WithValue(ctx, ctxRole, role)
	if pointID != "" {
		ctx = context.WithValue(ctx, ctxPointID, pointID)
	}
	return ctx
}

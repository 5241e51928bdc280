package auth

import (
	"dealboard/internal/models"
	"dealboard/internal/observability"
)

const (
	msgAuthRequired  = "Authentication required"
	msgAdminRequired = "Admin access required"
)

// RequireAuth fails with an UNAUTHORIZED AppError when there is no session.
func RequireAuth(sess *Session) error {
	if sess == nil {
		observability.GuardDenials.WithLabelValues("unauthenticated").Inc()
		return models.NewUnauthorizedError(msgAuthRequired)
	}
	return nil
}

// RequireAdmin fails with a FORBIDDEN AppError unless the session carries the
// admin role. Anonymous callers are forbidden too.
func RequireAdmin(sess *Session) error {
	if sess == nil {
		observability.GuardDenials.WithLabelValues("unauthenticated").Inc()
		return models.NewForbiddenError(msgAdminRequired)
	}
	if sess.Role != models.RoleAdmin {
		observability.GuardDenials.WithLabelValues("not_admin").Inc()
		return models.NewForbiddenError(msgAdminRequired)
	}
	return nil
}

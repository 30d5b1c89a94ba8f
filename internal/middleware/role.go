package middleware

import (
	"net/http"

	"trademind/internal/domain"
	"trademind/internal/pkg/response"
	"trademind/internal/session"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has the specified role
func RequireRole(requiredRole domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not resolved")
			c.Abort()
			return
		}

		if role.(string) != string(requiredRole) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

// RequireApp lets a request through only when the access gate would show the
// main application to the caller.
func RequireApp() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := session.Decide(Profile(c), session.ViewDashboard)
		switch decision.Screen {
		case session.ScreenApp:
			c.Next()
			return
		case session.ScreenPayment:
			response.Error(c, http.StatusPaymentRequired, "PAYMENT_REQUIRED", "Submit payment proof to continue")
		case session.ScreenPendingApproval:
			response.Error(c, http.StatusForbidden, "APPROVAL_PENDING", "Your account is awaiting approval")
		default:
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		}
		c.Abort()
	}
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"route_scheduler/internal/models"
	"route_scheduler/internal/services"
)

// Cookie names used for session transport. Clients without cookie access use
// the Authorization header (admin) or x-driver-token header (driver) instead.
const (
	AdminSessionCookie  = "admin_session"
	DriverSessionCookie = "driver_session"
)

// AdminToken extracts the admin session token from the request, cookie first.
func AdminToken(c *gin.Context) string {
	if tok, err := c.Cookie(AdminSessionCookie); err == nil && tok != "" {
		return tok
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// DriverToken extracts the driver session token from the request.
func DriverToken(c *gin.Context) string {
	if tok, err := c.Cookie(DriverSessionCookie); err == nil && tok != "" {
		return tok
	}
	return c.GetHeader("x-driver-token")
}

// RequireAdmin ensures the request carries a valid admin session and stores
// the admin email in the context for downstream handlers.
func RequireAdmin(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := sessions.Resolve(AdminToken(c))
		if err != nil {
			abortSessionError(c, err)
			return
		}
		if principal.Kind != models.SessionAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.Set("admin_email", principal.AdminEmail)
		c.Next()
	}
}

// RequireDriver ensures the request carries a valid driver session and stores
// the driver id in the context for downstream handlers.
func RequireDriver(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := sessions.Resolve(DriverToken(c))
		if err != nil {
			abortSessionError(c, err)
			return
		}
		if principal.Kind != models.SessionDriver {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.Set("driver_id", principal.DriverID)
		c.Next()
	}
}

func abortSessionError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrStoreUnavailable) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Database is not available"})
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
}

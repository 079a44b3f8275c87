package middleware

import (
	"net/http"

	"crewpay/internal/shared/apperror"
	"crewpay/internal/shared/contextutil"
	"crewpay/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ExtractActor lifts the authenticated admin id forwarded by the portal
// gateway into the gin and standard contexts. Authentication itself
// happens upstream; this service only attributes actions.
func ExtractActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader("X-Actor-ID")
		if actorID != "" {
			c.Set("actor_id", actorID)
			c.Request = c.Request.WithContext(
				contextutil.WithActorID(c.Request.Context(), actorID),
			)
		}
		c.Next()
	}
}

// RequireActor guards state-changing routes: every mutation must be
// attributable to an actor for the audit trail.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("actor_id") == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing X-Actor-ID header", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/hms-gateway/internal/gateway"
	"github.com/BruksfildServices01/hms-gateway/internal/httperr"
)

// RequireCredential rejects forwarded calls that carry no Authorization
// header. Public auth endpoints and browser navigations pass through. The
// token is not verified; its claims are only attached for logging.
func RequireCredential() gin.HandlerFunc {
	return func(c *gin.Context) {
		if gateway.WantsHTML(c.GetHeader("Accept")) {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if gateway.IsPublic(c.Request.URL.RequestURI()) {
				c.Next()
				return
			}
			httperr.Abort(c, httperr.NoToken())
			return
		}

		if p, ok := gateway.ExtractPrincipal(authHeader); ok {
			gateway.SetPrincipal(c, p)
		}

		c.Next()
	}
}

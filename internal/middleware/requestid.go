package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/hms-gateway/internal/gateway"
)

// RequestID makes sure every request carries an X-Request-ID, reusing the
// caller's when present. The id is set on the request so it is forwarded to
// the backend, and echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(gateway.HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
			c.Request.Header.Set(gateway.HeaderRequestID, id)
		}
		c.Writer.Header().Set(gateway.HeaderRequestID, id)
		c.Next()
	}
}

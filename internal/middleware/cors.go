package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// DefaultCORSOrigins are the local dev server and the gateway itself.
var DefaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:5000"}

// CORSMiddleware lets the dev server of the single-page app call the gateway.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	cfg.AllowOrigins = origins
	if len(origins) == 0 {
		cfg.AllowOrigins = DefaultCORSOrigins
	}

	return cors.New(cfg)
}

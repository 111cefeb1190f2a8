package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/hms-gateway/internal/config"
	"github.com/BruksfildServices01/hms-gateway/internal/gateway"
	"github.com/BruksfildServices01/hms-gateway/internal/handlers"
	"github.com/BruksfildServices01/hms-gateway/internal/middleware"
)

type Deps struct {
	Config  *config.Config
	Proxy   *gateway.Proxy
	Limiter *middleware.RateLimiter
	Log     *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(d.Log),
		middleware.Recovery(d.Log),
		middleware.CORSMiddleware(d.Config.CORSOrigins),
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	appWebHandler := handlers.NewAppWebHandler(d.Config.StaticDir)
	healthHandler := handlers.NewHealthHandler(d.Proxy.Target(), d.Config.AuditEnabled())

	r.GET("/health", healthHandler.Get)

	// ======================================================
	// BACKEND API (forwarded)
	// ======================================================
	forward := func(c *gin.Context) {
		if gateway.WantsHTML(c.GetHeader("Accept")) {
			appWebHandler.Page(c)
			return
		}
		d.Proxy.Handle(c)
	}

	for _, prefix := range gateway.Prefixes {
		g := r.Group(prefix)
		g.Use(middleware.RequireCredential())
		if prefix == "/auth/" && d.Limiter != nil {
			g.Use(middleware.RateLimit(d.Limiter))
		}
		g.Any("/*path", forward)
	}

	// ======================================================
	// SINGLE-PAGE APP
	// ======================================================
	r.NoRoute(appWebHandler.Page)
}

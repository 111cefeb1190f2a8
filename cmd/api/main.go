package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/hms-gateway/internal/audit"
	"github.com/BruksfildServices01/hms-gateway/internal/config"
	dbpkg "github.com/BruksfildServices01/hms-gateway/internal/db"
	"github.com/BruksfildServices01/hms-gateway/internal/gateway"
	"github.com/BruksfildServices01/hms-gateway/internal/logger"
	"github.com/BruksfildServices01/hms-gateway/internal/middleware"
	"github.com/BruksfildServices01/hms-gateway/internal/routes"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Production(), cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := gateway.Options{
		Target:  cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
	}

	// audit trail is optional
	var dispatcher *audit.Dispatcher
	if cfg.AuditEnabled() {
		db, err := dbpkg.NewDB(cfg.DBUrl)
		if err != nil {
			log.Fatal("audit database", zap.Error(err))
		}
		defer dbpkg.Close(db)

		dispatcher = audit.NewDispatcher(audit.New(db), log.Named("audit"))
		opts.Auditor = dispatcher
		log.Info("audit trail enabled")
	}

	proxy, err := gateway.New(opts, log.Named("gateway"))
	if err != nil {
		log.Fatal("gateway", zap.Error(err))
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stop := make(chan struct{})
	go limiter.Run(stop)

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		Config:  cfg,
		Proxy:   proxy,
		Limiter: limiter,
		Log:     log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("gateway listening",
			zap.String("addr", cfg.Addr()),
			zap.String("backend", proxy.Target()),
			zap.String("static_dir", cfg.StaticDir),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Info("shutting down")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if dispatcher != nil {
		if err := dispatcher.Close(ctx); err != nil {
			log.Warn("audit drain", zap.Error(err))
		}
	}
}

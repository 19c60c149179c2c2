// Package http assembles the gin engine and the HTTP server lifecycle.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linegroup/authcore/internal/config"
	domainService "github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/internal/infrastructure/monitoring"
	"github.com/linegroup/authcore/internal/infrastructure/ratelimit"
	"github.com/linegroup/authcore/internal/interfaces/http/handlers"
	"github.com/linegroup/authcore/internal/interfaces/http/middleware"
	"github.com/linegroup/authcore/pkg/logger"
)

// Router owns the gin engine and the http.Server wrapping it.
type Router struct {
	engine *gin.Engine
	config *config.Config
	logger logger.Logger
	server *http.Server
}

// NewRouter builds the engine with the full middleware chain and route
// table.
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	tokens domainService.TokenService,
	metrics *monitoring.Metrics,
	limiter *ratelimit.LoginLimiter,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.AccessLog(log))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	engine.GET("/live", healthHandler.Liveness)
	engine.GET("/ready", healthHandler.Readiness)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.Register(engine)

	v1 := engine.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			throttled := auth.Group("")
			throttled.Use(middleware.LoginRateLimit(limiter))
			{
				throttled.POST("/login", authHandler.Login)
				throttled.POST("/refresh", authHandler.Refresh)
			}

			authenticated := auth.Group("")
			authenticated.Use(middleware.Authenticate(tokens, metrics, log))
			{
				authenticated.POST("/logout", authHandler.Logout)
				authenticated.GET("/profile", authHandler.Profile)
			}
		}
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	return &Router{
		engine: engine,
		config: cfg,
		logger: log.WithComponent("Router"),
	}
}

// Engine exposes the assembled engine, mainly for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Start runs the HTTP server until it is shut down.
func (r *Router) Start() error {
	r.server = &http.Server{
		Addr:         r.config.Server.Addr(),
		Handler:      r.engine,
		ReadTimeout:  r.config.Server.ReadTimeout,
		WriteTimeout: r.config.Server.WriteTimeout,
	}

	r.logger.Info(context.Background(), "starting HTTP server",
		logger.String("addr", r.server.Addr))

	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (r *Router) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}

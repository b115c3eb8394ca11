// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
	"github.com/your-org/storefront-backend/internal/domain/review"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/infrastructure/messaging/kafka"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/routes"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"github.com/your-org/storefront-backend/internal/pkg/payment"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
	"github.com/your-org/storefront-backend/internal/pkg/storage"
)

// HealthChecker is a dependency probed by /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Dependencies are the connections the server wires its services from
type Dependencies struct {
	DB        *postgres.DB
	Redis     *redis.Client
	Publisher kafka.EventPublisher
	Email     *email.EmailService
	Images    storage.ImageResolver
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	gin        *gin.Engine
	httpServer *http.Server
	checks     map[string]HealthChecker
	startedAt  time.Time
}

// NewServer wires services and handlers and builds the router
func NewServer(cfg *config.Config, deps Dependencies, logger *logrus.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: cfg,
		logger: logger,
		gin:    gin.New(),
		checks: map[string]HealthChecker{
			"database": deps.DB,
			"redis":    deps.Redis,
		},
		startedAt: time.Now(),
	}

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			logger.WithError(err).Warn("invalid trusted proxies, ignoring")
		}
	}

	s.setupMiddleware(deps.Redis)
	s.setupRoutes(buildHandlers(cfg, deps, logger), auth.NewJWTManager(cfg))
	s.httpServer = newHTTPServer(cfg, s.gin)
	return s
}

// created once in NewServer; Start and Stop only use it
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func buildHandlers(cfg *config.Config, deps Dependencies, logger *logrus.Logger) *routes.Handlers {
	db := deps.DB.GetDB()

	promotionService := promotion.NewService(db)
	productService := product.NewService(db, promotionService, deps.Images, logger)
	reviewService := review.NewService(db)
	cartService := cart.NewService(deps.Redis.GetClient(), productService, cfg, logger)
	orderService := order.NewService(db, deps.Images)
	checkoutService := checkout.NewService(
		cfg,
		cartService,
		orderService,
		payment.NewClient(cfg),
		deps.Publisher,
		deps.Email,
		logger,
	)

	return &routes.Handlers{
		Product:  handlers.NewProductHandler(productService, promotionService, logger),
		Review:   handlers.NewReviewHandler(reviewService, logger),
		Cart:     handlers.NewCartHandler(cartService, logger),
		Checkout: handlers.NewCheckoutHandler(checkoutService, logger),
		Order:    handlers.NewOrderHandler(orderService, checkoutService, pdf.NewService(cfg), logger),
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"port":     s.config.Server.Port,
		"base_url": fmt.Sprintf("http://localhost:%s/api/v1", s.config.Server.Port),
	}).Info("🚀 HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("🛑 Shutting down HTTP server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("✅ HTTP server stopped gracefully")
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

func (s *Server) setupMiddleware(limiter middleware.Limiter) {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RateLimit(limiter, s.config.Security.RateLimitPerMinute, s.logger))
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxBodyBytes))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

func (s *Server) setupRoutes(h *routes.Handlers, validator middleware.TokenValidator) {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, h, validator, s.config)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name + " API",
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"products":   "/api/v1/products",
					"promotions": "/api/v1/promotions/active",
					"cart":       "/api/v1/cart",
					"checkout":   "/api/v1/checkout",
					"orders":     "/api/v1/orders",
				},
			})
		})
	}
}

// healthCheck probes every backing service
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	for name, check := range s.checks {
		if err := check.Health(ctx); err != nil {
			s.logger.WithError(err).WithField("dependency", name).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  name + " unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}

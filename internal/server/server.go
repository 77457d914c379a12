package server

import (
	"fmt"
	"net/http"
	"time"

	"quick-order/internal/commerce"
	"quick-order/internal/config"
	"quick-order/internal/grid"
	custommiddleware "quick-order/internal/middleware"
	"quick-order/internal/repository"
	"quick-order/internal/service"
	"quick-order/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	grids  *grid.Store
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.SessionMiddleware(cfg.Session.Secret, logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize commerce API clients
	storefrontClient := commerce.NewStorefrontClient(cfg.Storefront, logger)
	adminClient := commerce.NewAdminClient(cfg.Storefront.Domain, cfg.Admin, logger)

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(storefrontClient, cfg.Storefront)
	pricingRepo := repository.NewPricingRepository(storefrontClient, adminClient)

	// Initialize services
	pricingService := service.NewPricingService(pricingRepo, logger)
	bulkOrderService := service.NewBulkOrderService(cfg.Catalog.NewArrivalWindow)

	// Grid session store
	grids := grid.NewStore(cfg.Grid.Debounce, cfg.Grid.SessionTTL, logger)

	// Initialize handlers
	storefrontHandler := transport.NewStorefrontHandler(catalogRepo, pricingService, bulkOrderService, grids, logger)
	gridHandler := transport.NewGridHandler(grids, logger)

	// Grid interaction endpoints sit behind a rate limiter
	var rateLimiter func(http.Handler) http.Handler
	if redisClient != nil {
		rateLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 120,
			Window:            time.Minute,
			KeyPrefix:         "grid_rate_limit",
		}, logger)
	}

	// Register routes
	storefrontHandler.RegisterRoutes(router)
	gridHandler.RegisterRoutes(router, rateLimiter)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		grids:  grids,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Stop the grid session sweeper and release live sessions
	s.grids.Close()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

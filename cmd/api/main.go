package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adityasiriexporters/MonthlyOrganics/config"
	"github.com/adityasiriexporters/MonthlyOrganics/internal/delivery/http/middleware"
	v1 "github.com/adityasiriexporters/MonthlyOrganics/internal/delivery/http/v1"
	memcache "github.com/adityasiriexporters/MonthlyOrganics/internal/infrastructure/cache"
	"github.com/adityasiriexporters/MonthlyOrganics/internal/repository/postgres"
	"github.com/adityasiriexporters/MonthlyOrganics/internal/task"
	"github.com/adityasiriexporters/MonthlyOrganics/internal/usecase"
	"github.com/adityasiriexporters/MonthlyOrganics/internal/zonecache"
	"github.com/adityasiriexporters/MonthlyOrganics/pkg/logger"
	"github.com/adityasiriexporters/MonthlyOrganics/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := postgres.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL")

	// Zone store + in-memory polygon index. The cache instance is
	// dedicated to zone data: admin writes flush it wholesale.
	zoneRepo := postgres.NewZoneRepository(pgxPool)
	zoneCache := memcache.NewMemoryCache(cfg.ZoneSnapshotTTL, 2*cfg.ZoneSnapshotTTL)
	zoneIndex := zonecache.New(zoneRepo, zoneCache, cfg.ZoneSnapshotTTL, cfg.FreeDateTTL)

	// Carrier catalog is static configuration loaded once at startup.
	catalog, err := config.LoadCarrierCatalog(cfg.CarrierCatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load carrier catalog")
	}
	log.Info().Int("carriers", len(catalog)).Msg("Loaded carrier catalog")

	// Shipping Module
	shippingUC := usecase.NewShippingUsecase(zoneIndex, catalog, cfg.StoreTimeout)
	shippingHandler := v1.NewShippingHandler(shippingUC)
	adminZoneHandler := v1.NewAdminZoneHandler(zoneRepo, zoneIndex)

	// Set up Router
	mux := http.NewServeMux()

	// Shipping (Public - consumed by the checkout flow)
	mux.HandleFunc("GET /api/v1/shipping/options", shippingHandler.GetOptions)
	mux.HandleFunc("GET /api/v1/shipping/fee", shippingHandler.GetFee)

	// Admin (Protected)
	adminMiddleware := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(h))
	}

	mux.Handle("GET /api/v1/admin/zones", adminMiddleware(adminZoneHandler.ListZones))
	mux.Handle("POST /api/v1/admin/zones", adminMiddleware(adminZoneHandler.CreateZone))
	mux.Handle("GET /api/v1/admin/zones/free-dates/upcoming", adminMiddleware(adminZoneHandler.UpcomingFreeDates))
	mux.Handle("GET /api/v1/admin/zones/{id}", adminMiddleware(adminZoneHandler.GetZone))
	mux.Handle("PUT /api/v1/admin/zones/{id}", adminMiddleware(adminZoneHandler.UpdateZone))
	mux.Handle("DELETE /api/v1/admin/zones/{id}", adminMiddleware(adminZoneHandler.DeleteZone))
	mux.Handle("GET /api/v1/admin/zones/{id}/free-dates", adminMiddleware(adminZoneHandler.ListFreeDates))
	mux.Handle("POST /api/v1/admin/zones/{id}/free-dates", adminMiddleware(adminZoneHandler.AddFreeDate))
	mux.Handle("DELETE /api/v1/admin/zones/{id}/free-dates/{date}", adminMiddleware(adminZoneHandler.RemoveFreeDate))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "db": "connected"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	// Free-date cleanup job (daily, off-peak)
	cleanup, err := task.NewFreeDateCleanup(zoneRepo, zoneIndex, cfg.CleanupSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule free-date cleanup")
	}
	cleanup.Start()

	// Rate limiter: 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,
		100,
		time.Minute,
		3*time.Minute,
	)

	// Apply CORS, Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	cleanup.Stop()
	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	pgxPool.Close()

	log.Info().Msg("Server exited properly")
}

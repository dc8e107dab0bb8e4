package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"flota-backend/internal/alerting"
	"flota-backend/internal/api/handlers"
	"flota-backend/internal/api/routes"
	"flota-backend/internal/config"
	"flota-backend/internal/repository"
	"flota-backend/internal/services"
	"flota-backend/pkg/cache"
	"flota-backend/pkg/database"
	"flota-backend/pkg/jwt"
	"flota-backend/pkg/metrics"
	"flota-backend/pkg/ratelimit"
	"flota-backend/pkg/redis"
	"flota-backend/pkg/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	db, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer database.Disconnect(db.Client())

	vehicleRepo := repository.NewVehicleRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	userRepo := repository.NewUserRepository(db)

	for name, create := range map[string]func() error{
		"vehicles":    vehicleRepo.CreateIndexes,
		"maintenance": maintenanceRepo.CreateIndexes,
		"users":       userRepo.CreateIndexes,
	} {
		if err := create(); err != nil {
			log.Printf("Failed to create %s indexes: %v", name, err)
		}
	}

	redisClient := redis.NewClient(cfg.Redis)
	defer redisClient.Close()

	if status := redisClient.HealthCheck(); status.IsConnected {
		log.Printf("Redis connected at %s", status.ConnectionInfo)
	} else {
		log.Printf("Redis connection failed: %s (will retry automatically)", status.Error)
	}

	cacheManager := cache.NewManager(redisClient, cache.DefaultConfig())
	defer cacheManager.Close()

	jwtUtil := jwt.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiry)
	alertMetrics := metrics.NewAlertMetrics()

	policy := alerting.Policy{
		UrgentKm:    cfg.Alerts.UrgentKm,
		WarningKm:   cfg.Alerts.WarningKm,
		UrgentDays:  cfg.Alerts.UrgentDays,
		WarningDays: cfg.Alerts.WarningDays,
	}
	evaluator := alerting.NewEvaluator(policy)

	authService := services.NewAuthService(userRepo, jwtUtil)
	userService := services.NewUserService(userRepo)

	vehicleService := services.NewVehicleService(vehicleRepo)
	vehicleService.SetCacheManager(cacheManager)

	maintenanceService := services.NewMaintenanceService(maintenanceRepo, vehicleRepo)

	alertService := services.NewAlertService(vehicleRepo, userRepo, evaluator)
	alertService.SetCacheManager(cacheManager)
	alertService.SetMetrics(alertMetrics)

	reportService := services.NewReportService(maintenanceRepo)
	reportService.SetCacheManager(cacheManager)

	refresher := scheduler.NewAlertRefresher(alertService.Refresh, cfg.Alerts.RefreshInterval)
	go refresher.Start()
	defer refresher.Stop()

	limiter := ratelimit.NewRedisLimiter(redisClient, ratelimit.DefaultConfig(),
		ratelimit.NewMemoryLimiter(ratelimit.DefaultConfig()))

	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	routes.SetupRoutes(router, &routes.Dependencies{
		JWTUtil:     jwtUtil,
		Limiter:     limiter,
		Auth:        handlers.NewAuthHandler(authService),
		Users:       handlers.NewUserHandler(userService),
		Vehicles:    handlers.NewVehicleHandler(vehicleService),
		Maintenance: handlers.NewMaintenanceHandler(maintenanceService),
		Alerts:      handlers.NewAlertHandler(alertService),
		Reports:     handlers.NewReportHandler(reportService),
		Health:      handlers.NewHealthHandler(db, redisClient, vehicleRepo),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}

func corsConfig(allowedOrigins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Retry-After", "X-RateLimit-Limit"},
	}

	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		// Credentials cannot be combined with a wildcard origin.
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = allowedOrigins
		c.AllowCredentials = true
	}

	return c
}

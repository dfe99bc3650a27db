package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/di"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/metrics"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/middleware"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/config"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/database"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/logger"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/redis"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting forcemap API...")

	ctx := context.Background()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(ctx)

	if err := metrics.Init(); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
		}
		defer redisClient.Close()
	}

	container := di.NewContainer(cfg, db, redisClient)
	defer container.Close()

	if container.Seeder != nil {
		if err := container.Seeder.Run(ctx); err != nil {
			appLog.Fatal(fmt.Sprintf("Seeding failed: %v", err))
		}
	}

	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go reapExpiredSessions(reaperCtx, container)

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, container)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		appLog.Info(fmt.Sprintf("forcemap API listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}

// reapExpiredSessions deletes expired session rows once an hour. Expired
// sessions are already rejected at validation time; this only keeps the table
// from growing without bound.
func reapExpiredSessions(ctx context.Context, container *di.Container) {
	log := logger.Get().Named("reaper")
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := container.SessionRepo.DeleteExpired(ctx)
			if err != nil {
				log.Error("failed to delete expired sessions", zap.Error(err))
				continue
			}
			if deleted > 0 {
				log.Info("expired sessions deleted", zap.Int64("count", deleted))
			}
		}
	}
}

func setupRouter(cfg *config.Config, container *di.Container) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.App.Name))
	}

	router.GET("/health/live", container.HealthHandler.Live)
	router.GET("/health/ready", container.HealthHandler.Ready)

	authn := middleware.Authentication(container.TokenService, container.AuthService)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", container.AuthHandler.Login)
			auth.POST("/refresh", container.AuthHandler.RefreshToken)
			auth.POST("/logout", container.AuthHandler.Logout)

			protected := auth.Group("")
			protected.Use(authn)
			{
				protected.GET("/me", container.AuthHandler.Me)
				protected.POST("/logout-all", container.AuthHandler.LogoutAll)
			}
		}

		personnel := v1.Group("/personnel")
		personnel.Use(authn)
		{
			personnel.GET("", container.PersonnelHandler.List)
			personnel.GET("/:id", container.PersonnelHandler.Get)

			admin := personnel.Group("")
			admin.Use(middleware.RequireRoles(domain.RoleAdmin, domain.RoleChief))
			{
				admin.POST("", container.PersonnelHandler.Create)
				admin.PATCH("/:id", container.PersonnelHandler.Update)
				admin.DELETE("/:id", container.PersonnelHandler.Delete)
			}
		}

		ranks := v1.Group("/ranks")
		ranks.Use(authn)
		{
			ranks.GET("", container.RankHandler.List)
			ranks.GET("/:id", container.RankHandler.Get)

			admin := ranks.Group("")
			admin.Use(middleware.RequireRoles(domain.RoleAdmin))
			{
				admin.POST("", container.RankHandler.Create)
				admin.DELETE("/:id", container.RankHandler.Delete)
			}
		}

		vehicles := v1.Group("/vehicles")
		vehicles.Use(authn)
		{
			vehicles.GET("", container.VehicleHandler.List)
			vehicles.GET("/:id", container.VehicleHandler.Get)

			admin := vehicles.Group("")
			admin.Use(middleware.RequireRoles(domain.RoleAdmin, domain.RoleChief))
			{
				admin.POST("", container.VehicleHandler.Create)
				admin.PATCH("/:id", container.VehicleHandler.Update)
				admin.DELETE("/:id", container.VehicleHandler.Delete)
			}
		}
	}

	return router
}

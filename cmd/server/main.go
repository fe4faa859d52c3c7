// Package main runs the property management HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/estateflow/backend/config"
	"github.com/estateflow/backend/internal/audit"
	"github.com/estateflow/backend/internal/auth"
	"github.com/estateflow/backend/internal/documents"
	"github.com/estateflow/backend/internal/firm"
	"github.com/estateflow/backend/internal/firms"
	"github.com/estateflow/backend/internal/middleware"
	"github.com/estateflow/backend/internal/models"
	"github.com/estateflow/backend/internal/properties"
	"github.com/estateflow/backend/pkg/database"
	"github.com/estateflow/backend/pkg/metrics"
	"github.com/estateflow/backend/pkg/redis"
	"github.com/estateflow/backend/pkg/response"
	"github.com/estateflow/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			DocumentsBucket:      cfg.AWS.DocumentsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	metrics.Init()
	auditLog := audit.New(logger)
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.ExpireHours)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, tokens, auditLog, logger)

	// Firm resolution and ownership
	firmRepo := firm.NewRepository(pool)
	resolver := firm.NewResolver(firmRepo, firmRepo)
	ownership := firm.NewOwnershipValidator(firmRepo)

	// Firm management
	firmsRepo := firms.NewRepository(pool)
	firmsHandler := firms.NewHandler(firmsRepo, auditLog)

	// Properties
	propertyRepo := properties.NewRepository(pool)
	propertyHandler := properties.NewHandler(propertyRepo, ownership, auditLog)

	// Documents (S3-backed)
	documentRepo := documents.NewRepository(pool)
	documentHandler := documents.NewHandler(documentRepo, propertyRepo, s3Client, ownership, auditLog, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins, cfg.Firm.Header))
	router.Use(middleware.Logger(logger))
	router.Use(metrics.Middleware())

	// Health and metrics
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", metrics.Handler())

	// Auth (public)
	loginWindow := time.Duration(cfg.RateLimit.LoginWindowSec) * time.Second
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login",
			middleware.LoginRateLimit(rdb.Client, cfg.RateLimit.LoginAttempts, loginWindow, logger),
			authHandler.Login)
	}

	// Authenticated, no firm context needed
	api := router.Group("")
	api.Use(middleware.Authenticate(tokens, authRepo))
	{
		api.GET("/me", authHandler.Me)
		api.POST("/me/change-password", authHandler.ChangePassword)
		api.GET("/firms", firmsHandler.MyFirms)

		// Platform administration
		admin := api.Group("", middleware.RequirePlatformAdmin(auditLog))
		{
			admin.GET("/users", authHandler.List)
			admin.POST("/firms", firmsHandler.Create)
			admin.GET("/firms/all", firmsHandler.List)
			admin.PATCH("/firms/:id/deactivate", firmsHandler.Deactivate)
		}
	}

	// Firm-scoped API: every route below acts within a resolved firm context
	scoped := router.Group("")
	scoped.Use(middleware.Authenticate(tokens, authRepo))
	scoped.Use(middleware.FirmContext(resolver, cfg.Firm.Header, cfg.Firm.QueryParam, auditLog))
	{
		scoped.GET("/firms/current", firmsHandler.Current)
		scoped.GET("/firms/current/members", middleware.RequireRole(models.RoleOwner, auditLog), firmsHandler.ListMembers)
		scoped.POST("/firms/current/members", middleware.RequireRole(models.RoleAdmin, auditLog), firmsHandler.Assign)
		scoped.DELETE("/firms/current/members/:userID", middleware.RequireRole(models.RoleAdmin, auditLog), firmsHandler.Revoke)

		scoped.GET("/properties", middleware.RequireRole(models.RoleTenant, auditLog), propertyHandler.List)
		scoped.GET("/properties/:id", middleware.RequireRole(models.RoleTenant, auditLog), propertyHandler.Get)
		scoped.POST("/properties", middleware.RequireRole(models.RoleOwner, auditLog), propertyHandler.Create)
		scoped.PATCH("/properties/:id", middleware.RequireRole(models.RoleOwner, auditLog), propertyHandler.Update)
		scoped.DELETE("/properties/:id", middleware.RequireRole(models.RoleAccountant, auditLog), propertyHandler.Delete)

		scoped.GET("/properties/:id/documents", middleware.RequireRole(models.RoleVendor, auditLog), documentHandler.ListByProperty)
		scoped.POST("/properties/:id/documents", middleware.RequireRole(models.RoleOwner, auditLog), documentHandler.Upload)
		scoped.POST("/properties/:id/documents/upload-url", middleware.RequireRole(models.RoleOwner, auditLog), documentHandler.CreateUploadURL)
		scoped.GET("/documents/:id/download-url", middleware.RequireRole(models.RoleVendor, auditLog), documentHandler.DownloadURL)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

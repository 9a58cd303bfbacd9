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

	proposalapp "github.com/quotedesk/backend/internal/application/proposal"
	"github.com/quotedesk/backend/internal/infrastructure/archive"
	"github.com/quotedesk/backend/internal/infrastructure/config"
	"github.com/quotedesk/backend/internal/infrastructure/imaging"
	"github.com/quotedesk/backend/internal/infrastructure/logger"
	"github.com/quotedesk/backend/internal/infrastructure/render"
	"github.com/quotedesk/backend/internal/interfaces/http/handler"
	"github.com/quotedesk/backend/internal/interfaces/http/middleware"
	"github.com/quotedesk/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting QuoteDesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Image resolver for thumbnails, avatars, logos and banners
	resolver := imaging.NewResolver(cfg.Render.AssetDir,
		imaging.WithHTTPClient(&http.Client{Timeout: cfg.Render.FetchTimeout}),
		imaging.WithMaxImageBytes(cfg.Render.MaxImageBytes),
		imaging.WithLogger(log),
	)

	// Rendering engine
	engine := render.NewEngine(resolver, render.WithLogger(log))

	// Archive backend
	var store archive.Store
	switch cfg.Archive.Backend {
	case "s3":
		s3Store, err := archive.NewS3Store(&cfg.Storage,
			archive.WithLogger(log),
			archive.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize S3 archive", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := s3Store.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatal("Failed to ensure archive bucket", zap.Error(err))
		}
		cancel()
		store = s3Store
	default:
		fsStore, err := archive.NewFileSystemStore(&archive.FileSystemConfig{
			BasePath: cfg.Archive.BasePath,
			BaseURL:  cfg.Archive.BaseURL,
			Logger:   log,
		})
		if err != nil {
			log.Fatal("Failed to initialize file system archive", zap.Error(err))
		}
		store = fsStore
	}
	log.Info("Archive initialized", zap.String("backend", cfg.Archive.Backend))

	// Application service
	sender := proposalapp.NewLogSender(log)
	service := proposalapp.NewService(engine, store, sender, log)

	// Periodic archive cleanup
	if cfg.Archive.RetentionDays > 0 {
		go runArchiveCleanup(store, cfg.Archive.RetentionDays, log)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router with custom middleware
	ginEngine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(logger.Recovery(log))
	ginEngine.Use(logger.GinMiddleware(log))
	ginEngine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check
	ginEngine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Register API routes
	r := router.NewRouter(ginEngine, router.WithAPIVersion("v1"))
	r.Register(handler.NewProposalHandler(service))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runArchiveCleanup removes archived documents past the retention window
// once a day.
func runArchiveCleanup(store archive.Store, retentionDays int, log *zap.Logger) {
	age := time.Duration(retentionDays) * 24 * time.Hour
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		removed, err := store.CleanupOlderThan(ctx, age)
		cancel()
		if err != nil {
			log.Warn("Archive cleanup failed", zap.Error(err))
			continue
		}
		if removed > 0 {
			log.Info("Archive cleanup completed", zap.Int("removed", removed))
		}
	}
}

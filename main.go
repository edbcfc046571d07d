package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/ahmed8601/kahramana-site/pkg/catalog"
	"github.com/ahmed8601/kahramana-site/pkg/checkout"
	"github.com/ahmed8601/kahramana-site/pkg/config"
	"github.com/ahmed8601/kahramana-site/pkg/database"
	"github.com/ahmed8601/kahramana-site/pkg/logger"
	"github.com/ahmed8601/kahramana-site/pkg/middleware"
	"github.com/ahmed8601/kahramana-site/pkg/persistence"
	"github.com/ahmed8601/kahramana-site/pkg/routes"
	"github.com/ahmed8601/kahramana-site/pkg/services"
	"github.com/ahmed8601/kahramana-site/pkg/storefront"
	"github.com/ahmed8601/kahramana-site/pkg/tracking"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// sweepInterval is how often idle sessions are dropped from memory.
const sweepInterval = time.Minute

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	zl, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Cart snapshot storage
	store, closeStore := initStorage(ctx, cfg, zl)
	defer closeStore()

	format := orderFormat(cfg, zl)
	menu := catalog.Default()
	delays := tracking.Delays{Preparing: cfg.PreparingAfter, OutForDelivery: cfg.DeliveryAfter}

	registry := storefront.NewRegistry(func(ctx context.Context, sid string) *storefront.Controller {
		sessionLog := zl.With(zap.String("session", sid))
		return storefront.New(ctx, storefront.Deps{
			Catalog:     menu,
			Persistence: persistence.NewAdapter(store, persistence.SessionKey(sid), menu, sessionLog),
			Tracker:     tracking.New(tracking.RealScheduler, delays),
			Format:      format,
			Log:         sessionLog,
		})
	})
	go registry.Run(ctx, sweepInterval, cfg.SessionIdleTTL)

	// Set Gin mode based on environment
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware(zl))
	router.Use(middleware.ErrorMiddleware(zl))

	// Session middleware
	secret := cfg.SessionSecret
	if secret == "" {
		// Sessions do not survive a restart without a configured secret.
		zl.Warn("SESSION_SECRET not set, using a random per-process secret")
		secret = uuid.NewString()
	}
	sessionStore := cookie.NewStore([]byte(secret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(middleware.SessionName, sessionStore))

	setupCORS(router, zl)

	setupRoutes(router, registry, zl)
	router.NoRoute(middleware.NotFoundHandler())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zl.Info("server listening",
			zap.String("environment", cfg.Environment),
			zap.String("addr", "http://localhost:"+cfg.Port),
			zap.String("storage", cfg.StorageBackend))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	zl.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
		return
	}

	zl.Info("server exited gracefully")
}

// initStorage selects the snapshot backend named by STORAGE_BACKEND.
func initStorage(ctx context.Context, cfg *config.Config, zl *zap.Logger) (persistence.Storage, func()) {
	switch cfg.StorageBackend {
	case "postgres":
		if err := database.InitDatabase(); err != nil {
			zl.Fatal("failed to initialize database", zap.Error(err))
		}
		if err := database.AutoMigrate(); err != nil {
			zl.Fatal("failed to run migrations", zap.Error(err))
		}
		return database.EntryStore{DB: database.DB}, database.CloseDatabase

	case "gcs":
		gcs, err := services.InitGCPStorage(ctx, cfg.GCPBucketName, cfg.GoogleApplicationCredentials, cfg.GCPProjectID)
		if err != nil {
			zl.Fatal("GCP Storage initialization failed", zap.Error(err))
		}
		zl.Info("GCP Storage initialized", zap.String("bucket", cfg.GCPBucketName))
		return gcs, func() {
			if err := gcs.Close(); err != nil {
				zl.Warn("GCP Storage close failed", zap.Error(err))
			}
		}

	case "memory":
		zl.Warn("using in-memory cart storage, carts are lost on restart")
		return persistence.NewMemoryStorage(), func() {}

	default:
		zl.Fatal("unknown STORAGE_BACKEND", zap.String("backend", cfg.StorageBackend))
		return nil, nil
	}
}

// orderFormat resolves how order messages are rendered and where they go.
func orderFormat(cfg *config.Config, zl *zap.Logger) checkout.Format {
	loc, err := time.LoadLocation(cfg.OrderTimezone)
	if err != nil {
		zl.Warn("invalid ORDER_TIMEZONE, using UTC", zap.String("timezone", cfg.OrderTimezone), zap.Error(err))
		loc = time.UTC
	}

	tag, err := language.Parse(cfg.OrderLocale)
	if err != nil {
		zl.Warn("invalid ORDER_LOCALE, using ar-BH", zap.String("locale", cfg.OrderLocale), zap.Error(err))
		tag = language.MustParse("ar-BH")
	}

	return checkout.Format{
		Locale:      tag,
		Location:    loc,
		Domain:      cfg.WhatsAppDomain,
		Destination: checkout.Destination(cfg.WhatsAppNumber),
	}
}

// setupCORS configures CORS middleware
func setupCORS(router *gin.Engine, zl *zap.Logger) {
	isProduction := config.IsProduction()

	defaultOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}

	allowOrigins := defaultOrigins
	if isProduction && config.AppConfig.AllowedOrigins != "" {
		allowOrigins = parseOrigins(config.AppConfig.AllowedOrigins)
	}

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if isProduction {
		corsConfig.AllowOrigins = allowOrigins
		zl.Info("CORS enabled", zap.Strings("origins", allowOrigins))
	} else {
		// Allow all origins in development
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return true
		}
		zl.Info("CORS enabled for all origins (development mode)")
	}

	router.Use(cors.New(corsConfig))
}

// parseOrigins splits comma-separated origin string
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setupRoutes sets up all application routes
func setupRoutes(router *gin.Engine, registry *storefront.Registry, zl *zap.Logger) {
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Kahramana storefront is running...")
	})

	api := router.Group("/api")
	{
		routes.RegisterStorefrontRoutes(api, registry, zl)

		// Health check route
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":      "ok",
				"environment": config.AppConfig.Environment,
				"storage":     config.AppConfig.StorageBackend,
				"sessions":    registry.Len(),
			})
		})
	}
}

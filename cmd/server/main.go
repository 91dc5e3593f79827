package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcart "github.com/shopfront/backend/internal/application/cart"
	appsession "github.com/shopfront/backend/internal/application/session"
	appwishlist "github.com/shopfront/backend/internal/application/wishlist"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/commerce"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/notify"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/internal/infrastructure/scheduler"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	"github.com/shopfront/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Shopfront Session Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Keyed store backing carts, wishlists and guest tokens
	keyed, err := persistence.NewKeyedStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer func() {
		if closer, ok := keyed.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Error("Error closing storage", zap.Error(err))
			}
		}
	}()
	log.Info("Storage initialized", zap.String("backend", string(cfg.Storage.Backend)))

	// Remote commerce backend cart API. Development deployments without
	// credentials talk to a local stub.
	baseURL, apiKey := cfg.CartAPI.BaseURL, cfg.CartAPI.APIKey
	if !cfg.IsProduction() {
		if baseURL == "" {
			baseURL = "http://localhost:9000/api"
		}
		if apiKey == "" {
			apiKey = "dev"
		}
	}
	storefrontCfg := commerce.NewStorefrontConfig(baseURL, apiKey, cfg.CartAPI.APISecret)
	storefrontCfg.TimeoutSeconds = cfg.CartAPI.TimeoutSeconds
	cartAPI, err := commerce.NewStorefrontAdapter(storefrontCfg)
	if err != nil {
		log.Fatal("Failed to initialize cart API adapter", zap.Error(err))
	}

	// User-facing notices: buffered for the polling endpoint, mirrored to logs
	memNotifier := notify.NewMemoryNotifier()
	notifier := notify.NewMultiNotifier(memNotifier, notify.NewLogNotifier(log))
	messages := notify.NewMessages(cfg.Sync.Locale)

	// Session identity
	verifier := auth.NewSessionVerifier(cfg.Session)
	provider := auth.NewProvider(verifier, log)
	resolver := appsession.NewResolver(keyed, provider, log)

	ctx := context.Background()

	// Cart store and sync coordinator
	cartStore := appcart.NewStore(keyed, log)
	coordinator := appcart.NewCoordinator(cartStore, keyed, cartAPI, provider, resolver, notifier, messages, appcart.SyncConfig{
		MaxUnitsPerProduct: cfg.Sync.MaxUnitsPerProduct,
		FetchTimeout:       cfg.Sync.FetchTimeout,
	}, log)
	if err := coordinator.Start(ctx); err != nil {
		log.Fatal("Failed to start cart sync coordinator", zap.Error(err))
	}
	defer coordinator.Stop()

	// Wishlist store
	wishlistStore := appwishlist.NewStore(keyed, resolver, provider, notifier, messages, log)
	if err := wishlistStore.Start(ctx); err != nil {
		log.Fatal("Failed to start wishlist store", zap.Error(err))
	}
	defer wishlistStore.Stop()

	// Deferred deletion scheduler; Stop flushes staged deletions on shutdown
	undo := scheduler.NewDeferredDeletionScheduler(cfg.Undo.GracePeriod, notifier, messages, log)
	defer undo.Stop()

	// HTTP engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	r := router.NewRouter(engine)
	r.Register(handler.NewCartHandler(cartStore, coordinator, undo, cartAPI, provider, log))
	r.Register(handler.NewWishlistHandler(wishlistStore, undo, log))
	r.Register(handler.NewSessionHandler(provider, log))
	r.Register(handler.NewNoticeHandler(memNotifier))
	r.Register(handler.NewSystemHandler())
	r.Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

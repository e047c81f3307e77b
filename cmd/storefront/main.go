package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/plushmart/storefront/internal/api"
	"github.com/plushmart/storefront/internal/config"
	"github.com/plushmart/storefront/internal/handler"
	"github.com/plushmart/storefront/internal/snapshot"
	"github.com/plushmart/storefront/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshot persistence
	var snaps snapshot.Store
	switch cfg.Snapshot.Backend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("connect to Redis", "error", err)
			os.Exit(1)
		}
		log.Info("connected to Redis")
		snaps = snapshot.NewRedisStore(redisClient, cfg.Snapshot.Terminal)
	default:
		snaps = snapshot.NewFileStore(cfg.Snapshot.Path)
	}

	// API client and state store. The store is the client's token
	// source, so the client is built against it through a closure.
	var st *store.Store
	client := api.NewClient(cfg.API.BaseURL, api.TokenFunc(func() string {
		if st == nil {
			return ""
		}
		return st.Token()
	}))
	st = store.New(client, snaps, log, cfg.API.ResyncDelay)

	if err := st.Restore(ctx); err != nil {
		log.Warn("restore snapshot", "error", err)
	}
	if err := st.LoadCatalog(ctx, api.ProductFilters{}); err != nil {
		log.Warn("initial catalog load", "error", err)
	}

	// Handlers
	viewH := handler.NewViewHandler(st)
	intentH := handler.NewIntentHandler(st)
	healthH := handler.NewHealthHandler()

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)

	views := router.Group("/views")
	views.GET("/landing", viewH.Landing)
	views.GET("/home", viewH.Home)
	views.GET("/grid", viewH.Grid)
	views.GET("/cart", viewH.Cart)
	views.GET("/dashboard", viewH.Dashboard)
	views.GET("/profile", viewH.Profile)
	views.GET("/pos", viewH.POS)

	intents := router.Group("/intents")
	intents.POST("/login", intentH.Login)
	intents.POST("/logout", intentH.Logout)
	intents.POST("/cart/items", intentH.AddCartItem)
	intents.PUT("/cart/items/:id", intentH.UpdateCartItem)
	intents.DELETE("/cart/items/:id", intentH.RemoveCartItem)
	intents.POST("/cart/resync", intentH.ResyncCart)
	intents.DELETE("/cart", intentH.ClearCart)
	intents.POST("/checkout", intentH.Checkout)
	intents.POST("/catalog/refresh", intentH.RefreshCatalog)
	intents.POST("/orders/refresh", intentH.RefreshOrders)
	intents.POST("/dashboard/refresh", intentH.RefreshDashboard)

	admin := intents.Group("/admin")
	admin.POST("/products", intentH.CreateProduct)
	admin.PUT("/products/:id", intentH.UpdateProduct)
	admin.DELETE("/products/:id", intentH.DeleteProduct)
	admin.PUT("/orders/:id/status", intentH.UpdateOrderStatus)
	admin.POST("/uploads", intentH.UploadProductImage)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting storefront", "port", cfg.Server.Port, "api", cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	log.Info("storefront stopped")
}

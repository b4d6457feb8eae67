package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/roomservice/internal/config"
	"github.com/Lixing-Zhang/roomservice/internal/documents"
	"github.com/Lixing-Zhang/roomservice/internal/notify"
	"github.com/Lixing-Zhang/roomservice/internal/repository"
	"github.com/Lixing-Zhang/roomservice/internal/router"
	"github.com/Lixing-Zhang/roomservice/internal/service"
	"github.com/Lixing-Zhang/roomservice/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting room service server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"admin_token_required", cfg.Auth.RequireToken,
	)

	// Check the data documents
	log.Info("checking data documents...")
	inspector := documents.NewInspector(
		documents.Source{Name: "menu", Path: cfg.Storage.MenuFile},
		documents.Source{Name: "services", Path: cfg.Storage.ServicesFile},
		documents.Source{Name: "orders", Path: cfg.Storage.OrdersFile},
	)

	scanCtx, scanCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := inspector.Scan(scanCtx); err != nil {
		log.Warn("document check failed", "error", err)
	}
	scanCancel()

	for _, doc := range inspector.Statuses() {
		switch {
		case doc.Error != "":
			log.Warn("document unreadable, it will be treated as empty", "name", doc.Name, "path", doc.Path, "error", doc.Error)
		case !doc.Exists:
			log.Info("document missing, starting empty", "name", doc.Name, "path", doc.Path)
		default:
			log.Info("document loaded", "name", doc.Name, "entries", doc.Entries)
		}
	}

	// Initialize repositories
	menuRepo := repository.NewJSONMenuRepository(cfg.Storage.MenuFile, log)
	servicesRepo := repository.NewJSONServicesRepository(cfg.Storage.ServicesFile, log)
	ledgerRepo := repository.NewJSONLedgerRepository(cfg.Storage.OrdersFile, log)

	// Initialize notification hub
	hub := notify.NewHub(cfg.Notify.SubscriberBuffer, log)

	// Initialize services
	catalogService := service.NewCatalogService(menuRepo, servicesRepo, log)
	orderService := service.NewOrderService(catalogService, ledgerRepo, hub, log)
	requestService := service.NewRequestService(hub, log)
	authService, err := service.NewAuthService(cfg.Auth, log)
	if err != nil {
		log.Error("failed to initialize admin auth", "error", err)
		os.Exit(1)
	}

	hub.OnReady(notify.SignalKitchenReady, orderService.ReplayEvents)
	hub.OnReady(notify.SignalMaintenanceReady, requestService.ReplayEvents)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Optional NATS bridge
	var bridge *notify.NATSBridge
	if cfg.Notify.NATSURL != "" {
		bridge, err = notify.NewNATSBridge(cfg.Notify.NATSURL, cfg.Notify.NATSSubjectPrefix, log)
		if err != nil {
			log.Error("failed to start nats bridge", "url", cfg.Notify.NATSURL, "error", err)
			os.Exit(1)
		}
		go bridge.Run(ctx, hub)
	}

	handler := router.New(router.Deps{
		Config:    cfg,
		Logger:    log,
		Hub:       hub,
		Inspector: inspector,
		Catalog:   catalogService,
		Orders:    orderService,
		Requests:  requestService,
		Auth:      authService,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		// no WriteTimeout, /ws and /events are long-lived; API routes use the timeout middleware
		IdleTimeout: 120 * time.Second,
	}
	// end websocket and event stream subscribers so their handlers return
	srv.RegisterOnShutdown(hub.Close)

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	if bridge != nil {
		if err := bridge.Close(); err != nil {
			log.Warn("failed to drain nats connection", "error", err)
		}
	}

	log.Info("server stopped gracefully", "pending_orders", len(orderService.PendingOrders()))
}

package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/roomservice/internal/config"
	"github.com/Lixing-Zhang/roomservice/internal/documents"
	"github.com/Lixing-Zhang/roomservice/internal/handlers"
	"github.com/Lixing-Zhang/roomservice/internal/middleware"
	"github.com/Lixing-Zhang/roomservice/internal/notify"
	"github.com/Lixing-Zhang/roomservice/internal/service"
)

// Deps are the constructed components the routes are served by
type Deps struct {
	Config    *config.Config
	Logger    *slog.Logger
	Hub       *notify.Hub
	Inspector *documents.Inspector
	Catalog   *service.CatalogService
	Orders    *service.OrderService
	Requests  *service.RequestService
	Auth      *service.AuthService
}

// New builds the HTTP handler for the whole service
func New(deps Deps) http.Handler {
	cfg := deps.Config
	log := deps.Logger

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.Inspector, deps.Hub, log)
	menuHandler := handlers.NewMenuHandler(deps.Catalog, cfg.Storage.UploadDir, cfg.Storage.MaxUploadMB, log)
	orderHandler := handlers.NewOrderHandler(deps.Orders, log)
	salesHandler := handlers.NewSalesHandler(deps.Orders, log)
	requestHandler := handlers.NewRequestHandler(deps.Requests, log)
	authHandler := handlers.NewAuthHandler(deps.Auth, log)
	wsHandler := notify.NewWSHandler(deps.Hub, log)
	sseHandler := notify.NewSSEHandler(deps.Hub, log)

	adminOnly := middleware.AdminAuth(deps.Auth, cfg.Auth.RequireToken, log)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Long-lived push channels, no request timeout
	r.Get("/ws", wsHandler.ServeHTTP)
	r.Get("/events", sseHandler.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(requestTimeout(cfg.Server.WriteTimeout)))

		r.Get("/health", healthHandler.ServeHTTP)

		// Guest and staff endpoints
		r.Post("/admin-login", authHandler.Login)
		r.Post("/place-order", orderHandler.PlaceOrder)
		r.Post("/acknowledge-order", orderHandler.AcknowledgeOrder)
		r.Post("/service-request", requestHandler.SubmitRequest)
		r.Post("/acknowledge-service", requestHandler.AcknowledgeRequest)
		r.Post("/call-waiter", requestHandler.CallWaiter)

		r.Route("/api", func(r chi.Router) {
			r.Get("/menu", menuHandler.ListMenu)
			r.Get("/services", menuHandler.ListServices)
			r.Get("/orders/pending", orderHandler.PendingOrders)
			r.Get("/service-requests/pending", requestHandler.PendingRequests)

			// Admin endpoints
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Post("/menu/add", menuHandler.AddItem)
				r.Post("/menu/edit", menuHandler.EditItem)
				r.Post("/menu/availability", menuHandler.SetAvailability)
				r.Post("/menu/delete", menuHandler.DeleteItem)

				r.Get("/sales", salesHandler.ListSales)
				r.Get("/sales/summary", salesHandler.Summary)
				r.Post("/sales/clear", salesHandler.Clear)
			})
		})

		// Static files
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Storage.UploadDir))))
		r.Handle("/*", http.FileServer(http.Dir(cfg.Storage.PublicDir)))
	})

	return r
}

// requestTimeout converts WRITE_TIMEOUT seconds, defaulting to one minute
func requestTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

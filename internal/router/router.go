package router

import (
	"log"
	"net/http"

	"github.com/box-tea/api/internal/cart"
	"github.com/box-tea/api/internal/config"
	"github.com/box-tea/api/internal/database"
	"github.com/box-tea/api/internal/enum"
	"github.com/box-tea/api/internal/handler"
	mw "github.com/box-tea/api/internal/middleware"
	"github.com/box-tea/api/internal/service"
	"github.com/box-tea/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, carts *cart.Store, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000", // Next.js dev server
			"https://boxtea.app",    // Production frontend
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// Menu browsing is public
	menuHandler := handler.NewMenuHandler(queries)
	menuHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	orderService := service.NewOrderService(queries, carts)
	orderHandler := handler.NewOrderHandler(orderService, queries, queries, hub)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Cart and checkout
		cartHandler := handler.NewCartHandler(carts, queries)
		cartHandler.RegisterRoutes(r)
		orderHandler.RegisterRoutes(r)

		// Own profile
		profileHandler := handler.NewProfileHandler(queries)
		profileHandler.RegisterRoutes(r)

		// Staff routes (fulfillment dashboard + statistics)
		r.Route("/staff", func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleAdmin, enum.RoleWorker))

			orderHandler.RegisterStaffRoutes(r)

			reportHandler := handler.NewReportHandler(queries)
			reportHandler.RegisterRoutes(r)
		})

		// Admin-only user management
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleAdmin))

			userHandler := handler.NewUserHandler(queries)
			userHandler.RegisterRoutes(r)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}

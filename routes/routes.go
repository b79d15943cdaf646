package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/tshwanesporting/clubsite/handlers"
	"github.com/tshwanesporting/clubsite/middleware"
	"github.com/tshwanesporting/clubsite/repositories"
	"github.com/tshwanesporting/clubsite/sessions"
)

type Deps struct {
	AuthHandler      *handlers.AuthHandler
	PlayerHandler    *handlers.PlayerHandler
	PhotoHandler     *handlers.PhotoHandler
	AdminHandler     *handlers.AdminHandler
	WebSocketHandler *handlers.WebSocketHandler

	SessionStore  sessions.Store
	UserRepo      repositories.UserRepository
	SessionSecret string
	Logger        *slog.Logger

	// UploadsDir serves /uploads/* from disk when the local file backend is
	// active. Empty when uploads live in the R2 bucket.
	UploadsDir string
}

func SetupRoutes(router *chi.Mux, deps Deps) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.SessionLoader(deps.SessionStore, deps.UserRepo, deps.SessionSecret, deps.Logger))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Post("/login", deps.AuthHandler.Login)
		r.Post("/logout", deps.AuthHandler.Logout)
		r.Post("/register", deps.AuthHandler.Register)
		r.Get("/user", deps.AuthHandler.CurrentUser)

		r.Route("/players", func(r chi.Router) {
			// Публичные маршруты для просмотра ростера
			r.Get("/", deps.PlayerHandler.List)
			r.Get("/{id}", deps.PlayerHandler.Get)

			// Защищённые маршруты только для администраторов
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/", deps.PlayerHandler.Create)
				r.Put("/{id}", deps.PlayerHandler.Update)
				r.Delete("/{id}", deps.PlayerHandler.Delete)
			})
		})

		r.Route("/photos", func(r chi.Router) {
			r.Get("/", deps.PhotoHandler.List)
			r.Get("/{id}", deps.PhotoHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/", deps.PhotoHandler.Create)
				r.Put("/{id}", deps.PhotoHandler.Update)
				r.Delete("/{id}", deps.PhotoHandler.Delete)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/admin/stats", deps.AdminHandler.DashboardStats)
		})
	})

	router.Get("/ws/live", deps.WebSocketHandler.ServeLive)

	if deps.UploadsDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadsDir)))
		router.Get("/uploads/*", fileServer.ServeHTTP)
	}
}

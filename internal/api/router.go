package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/todo-be/internal/api/handlers"
	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/services"
)

// Deps bundles what the router needs to build its handlers.
type Deps struct {
	Users          services.UserServiceProvider
	Todos          services.TodoServiceProvider
	Sessions       *auth.Sessions
	Health         *handlers.HealthHandler
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Preflight requests are answered with 200 and permissive headers.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: !allowsAnyOrigin(deps.AllowedOrigins),
		MaxAge:           300,
	}))

	gate := auth.NewGate(deps.Sessions, deps.Users)
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Sessions, gate)
	todoHandler := handlers.NewTodoHandler(deps.Todos)

	r.Route("/api", func(r chi.Router) {
		if deps.Health != nil {
			r.Get("/health", deps.Health.Get)
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/check-credentials", authHandler.CheckCredentials)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Use(gate.RequireUser)
			r.Get("/", todoHandler.GetAll)
			r.Post("/", todoHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", todoHandler.Get)
				r.Patch("/", todoHandler.Update)
				r.Delete("/", todoHandler.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusNotFound, common.MsgNotFound)
	})

	return r
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

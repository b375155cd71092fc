package api

import (
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/mserrato/accounts-be/internal/api/handlers"
	"github.com/mserrato/accounts-be/internal/auth"
	"github.com/mserrato/accounts-be/internal/services"
)

// recoverer catches panics from handlers, logs them with the stack
// server-side and returns the generic 500 body. No internal detail crosses
// the boundary.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).
					Str("stack", string(debug.Stack())).Msg("Recovered from panic")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Internal server error"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens *auth.TokenManager,
	serviceTokens *auth.StaticTokenVerifier,
	userService services.UserServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.ServiceTokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, eventService)
	eventHandler := handlers.NewEventHandler(eventService)
	systemHandler := handlers.NewSystemHandler()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/create", userHandler.Create)
			r.Post("/authenticate", userHandler.Authenticate)

			// Requires an end-user bearer token
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireUser(tokens))
				r.Get("/me", userHandler.Me)
			})
		})

		// Service-to-service endpoints, gated by the static token
		r.Route("/internal", func(r chi.Router) {
			r.Use(auth.RequireService(serviceTokens))
			r.Get("/events", eventHandler.GetRecent)
			r.Get("/status", systemHandler.Status)
		})
	})

	return r
}

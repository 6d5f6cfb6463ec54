/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions. This
  is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the HR frontend

SECURITY NOTE:
  No authentication middleware. Session handling lives in the surrounding
  application; this service assumes a trusted caller.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/active-contract", h.GetActiveContract)
			r.Get("/{id}/checks/{operation}", h.CheckOperation)
			r.Get("/{id}/contracts", h.ListContracts)
			r.Post("/{id}/contracts", h.CreateContract)
			r.Post("/{id}/permissions", h.CreatePermission)
			r.Post("/{id}/medical-leaves", h.CreateMedicalLeave)
			r.Post("/{id}/settlements", h.CreateSettlement)
		})

		// Contract routes
		r.Route("/contracts", func(r chi.Router) {
			r.Get("/{id}", h.GetContract)
			r.Post("/{id}/terminate", h.TerminateContract)
			r.Post("/{id}/status", h.ChangeContractStatus)
			r.Get("/{id}/annexes", h.ListAnnexes)
			r.Post("/{id}/annexes", h.CreateAnnex)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/subledger/internal/adapter/http/handler"
	"github.com/iho/subledger/internal/adapter/http/middleware"
	"github.com/iho/subledger/internal/infrastructure/auth"
	"github.com/iho/subledger/internal/infrastructure/metrics"
	"github.com/iho/subledger/internal/usecase"
)

// RouterDeps collects everything the router wires together.
type RouterDeps struct {
	Orders   *handler.OrderHandler
	Charges  *handler.ChargeHandler
	Accounts *handler.AccountHandler
	Services *handler.ServiceHandler
	Tickets  *handler.TicketHandler
	Sweep    *handler.SweepHandler
	Health   *handler.HealthHandler

	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
	RateLimit        float64
	RateBurst        int
}

// NewRouter builds the HTTP surface. Customer routes require a valid token;
// the review queue, approvals, manual adjustments and the sweep trigger
// additionally require the admin role.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(deps.Logger).Wrap)
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics).Wrap)
	}
	if deps.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(deps.RateLimit, deps.RateBurst).Wrap)
	}

	r.Get("/health", deps.Health.Live)
	r.Get("/ready", deps.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	idempotency := middleware.NewIdempotencyMiddleware(deps.IdempotencyStore)

	// No secret configured means a fully open API, admin surface included.
	// Meant for local development only.
	requireAdmin := func(next http.Handler) http.Handler { return next }
	if deps.JWTManager != nil {
		requireAdmin = middleware.RequireAdmin
	}

	r.Route("/api/v1", func(r chi.Router) {
		if deps.JWTManager != nil {
			r.Use(middleware.Auth(deps.JWTManager))
		}
		r.Use(idempotency.Wrap)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", deps.Orders.Create)
			r.Get("/{id}", deps.Orders.Get)
			r.Post("/{id}/evidence", deps.Orders.SubmitEvidence)
			r.Post("/{id}/cancel", deps.Orders.Cancel)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/pending", deps.Orders.ListPending)
				r.Post("/{id}/approve", deps.Orders.Approve)
				r.Post("/{id}/reject", deps.Orders.Reject)
			})
		})

		r.Route("/charges", func(r chi.Router) {
			r.Post("/", deps.Charges.Create)
			r.Get("/{id}", deps.Charges.Get)
			r.Post("/{id}/evidence", deps.Charges.SubmitEvidence)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/pending", deps.Charges.ListPending)
				r.Post("/{id}/complete", deps.Charges.Complete)
				r.Post("/{id}/reject", deps.Charges.Reject)
			})
		})

		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Get("/balance", deps.Accounts.Balance)
			r.Get("/entries", deps.Accounts.Entries)
			r.Get("/orders", deps.Accounts.Orders)
			r.Get("/services", deps.Accounts.Services)
			r.Get("/tickets", deps.Accounts.Tickets)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/credit", deps.Accounts.Credit)
				r.Post("/debit", deps.Accounts.Debit)
				r.Post("/reconcile", deps.Accounts.Reconcile)
			})
		})

		r.Get("/services/{id}", deps.Services.Get)

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/", deps.Tickets.Open)
			r.Get("/{id}", deps.Tickets.Get)
			r.Post("/{id}/reply", deps.Tickets.Reply)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/open", deps.Tickets.ListOpen)
				r.Post("/{id}/close", deps.Tickets.Close)
			})
		})

		r.With(requireAdmin).Post("/sweep", deps.Sweep.Run)
	})

	return r
}

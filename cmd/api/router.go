package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/nexmart-api/internal/infra/http/handlers"
	"github.com/xavierca1/nexmart-api/internal/infra/http/middleware"
)

type routes struct {
	Lead         *handlers.LeadHandler
	Portal       *handlers.PortalHandler
	Subscription *handlers.SubscriptionHandler
	Webhook      *handlers.WebhookHandler
	Health       *handlers.HealthHandler
	Auth         *middleware.Authenticator
	CORSOrigins  []string
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	// RemoteAddr stays untouched; ratelimit.ClientAddress owns forwarding-header trust.
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", rt.Health.Handle)

	// Every method reaches the handler so it can answer 405 itself.
	r.HandleFunc("/submit-lead", rt.Lead.SubmitLead)

	r.Post("/stripe-webhook", rt.Webhook.Handle)

	r.Group(func(r chi.Router) {
		r.Use(rt.Auth.RequireUser)
		r.Post("/create-customer-portal", rt.Portal.CreatePortalSession)
		r.Get("/subscription/status", rt.Subscription.GetStatus)
	})

	return r
}

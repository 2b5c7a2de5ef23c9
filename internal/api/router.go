package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nlcsoft/invoicing/docs" // swagger docs
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Log, mw.Recover, mw.Cors, mw.Metrics)

	mux.Route("/api", func(r chi.Router) {
		r.HandleFunc("/health", h.HealthHandler)
		r.Handle("/metrics", promhttp.Handler())
		r.HandleFunc("/swagger/*", httpSwagger.Handler())

		r.Group(func(r chi.Router) {
			r.Use(mw.APIKeyAuth)

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", h.Invoices)
				r.Post("/", h.CreateInvoice)
				r.Get("/{id}", h.Invoice)
				r.Put("/{id}", h.UpdateInvoice)
				r.Delete("/{id}", h.DeleteInvoice)
			})

			r.Route("/bank-accounts", func(r chi.Router) {
				r.Get("/", h.BankAccounts)
				r.Post("/", h.CreateBankAccount)
				r.Put("/{id}", h.UpdateBankAccount)
				r.Delete("/{id}", h.DeleteBankAccount)
			})

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", h.Clients)
				r.Post("/", h.CreateClient)
				r.Get("/{id}", h.Client)
				r.Put("/{id}", h.UpdateClient)
				r.Delete("/{id}", h.DeleteClient)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", h.Settings)
				r.Put("/", h.SaveSettings)
			})
		})
	})

	return mux
}

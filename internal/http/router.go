package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pennywise/internal/http/auth"
	"github.com/MrJamesThe3rd/pennywise/internal/http/budget"
	"github.com/MrJamesThe3rd/pennywise/internal/http/category"
	"github.com/MrJamesThe3rd/pennywise/internal/http/export"
	"github.com/MrJamesThe3rd/pennywise/internal/http/importcsv"
	"github.com/MrJamesThe3rd/pennywise/internal/http/matching"
	"github.com/MrJamesThe3rd/pennywise/internal/http/reminder"
	"github.com/MrJamesThe3rd/pennywise/internal/http/transaction"
)

type Handlers struct {
	Auth         *auth.Handler
	Categories   *category.Handler
	Transactions *transaction.Handler
	Budgets      *budget.Handler
	Reminders    *reminder.Handler
	Import       *importcsv.Handler
	Rules        *matching.Handler
	Export       *export.Handler
}

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
	// Authenticate guards every route except register and login.
	Authenticate func(http.Handler) http.Handler
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(opts.Timeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.PublicRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(opts.Authenticate)

			h.Auth.Routes(r)

			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Categories.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Budgets.Routes(r)
			})

			r.Route("/reminders", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Reminders.Routes(r)
			})

			r.Route("/import", h.Import.Routes)
			r.Route("/rules", h.Rules.Routes)
			r.Route("/export", h.Export.Routes)
		})
	})

	return router
}

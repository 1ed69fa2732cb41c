package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/ragshata/RabotaHULT/internal/config"
	"github.com/ragshata/RabotaHULT/internal/lifecycle"
)

// ApiDependencies содержит зависимости для обработчиков API.
type ApiDependencies struct {
	Config    *config.Config
	Lifecycle *lifecycle.Manager
}

// SetupRoutes настраивает все маршруты WebApp API.
func SetupRoutes(r *chi.Mux, deps ApiDependencies) {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Telegram-Auth", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(RequestIDMiddleware)

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONSuccess(w, "ok", nil)
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(deps.Config.TelegramToken))

		r.Get("/api/user/profile", GetWorkerProfile)
		r.Get("/api/user/orders", GetOrdersFeed)
		r.Get("/api/user/shifts", GetWorkerShifts)

		r.Post("/api/order/{id}/claim", ClaimOrderHandler(deps.Lifecycle))
		r.Post("/api/shift/{id}/arrive", ShiftActionHandler(deps.Lifecycle, "arrive"))
		r.Post("/api/shift/{id}/complete", ShiftActionHandler(deps.Lifecycle, "complete"))
		r.Post("/api/shift/{id}/cancel", ShiftActionHandler(deps.Lifecycle, "cancel"))

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(AdminMiddleware(deps.Config.IsAdmin))

			r.Get("/unpaid", GetUnpaidSummaryHandler)
			r.Post("/worker/{id}/mark-paid", MarkWorkerPaidHandler)
		})
	})
}

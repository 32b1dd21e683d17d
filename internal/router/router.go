package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ironwill-app/ironwill/internal/audit"
	"github.com/ironwill-app/ironwill/internal/auth"
	"github.com/ironwill-app/ironwill/internal/goal"
	"github.com/ironwill-app/ironwill/internal/middlewares"
	"github.com/ironwill-app/ironwill/internal/notification"
	"github.com/ironwill-app/ironwill/internal/user"
)

type RouterConfig struct {
	UserHandler         *user.Handler
	GoalHandler         *goal.Handler
	AuditHandler        *audit.Handler
	NotificationHandler *notification.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", cfg.UserHandler.Login)
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/goals", goal.Routes(cfg.GoalHandler))
		r.Mount("/notifications", notification.Routes(cfg.NotificationHandler))

		r.Post("/goals/{goalId}/audit", cfg.AuditHandler.Submit)
		r.Get("/goals/{goalId}/audit/today", cfg.AuditHandler.GetToday)
	})
	return r
}

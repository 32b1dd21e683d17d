package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironwill-app/ironwill/internal/config"
	"github.com/ironwill-app/ironwill/internal/container"
	"github.com/ironwill-app/ironwill/internal/router"
)

func main() {
	config.LoadEnv()

	c := container.New()

	handler := router.New(router.RouterConfig{
		UserHandler:         c.UserContainer.Handler,
		GoalHandler:         c.GoalContainer.Handler,
		AuditHandler:        c.AuditContainer.Handler,
		NotificationHandler: c.NotificationContainer.Handler,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go c.Scheduler.Run(ctx)

	addr := ":" + config.Env("PORT", "8080")
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		logrus.WithField("addr", addr).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
}

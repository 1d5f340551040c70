package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository"
	"github.com/vfg2006/marketing-analytics-api/internal/api/handler"
	"github.com/vfg2006/marketing-analytics-api/internal/api/handler/router"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/reconciling"
	"github.com/vfg2006/marketing-analytics-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(
	cfg *config.Config,
	authenticator authenticating.Authenticator,
	checker reconciling.Checker,
	watermarkRepo repository.WatermarkRepository,
	cronServices handler.CronJobServices,
) (*Server, error) {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
		router.WithRoutes(handler.Pipeline(checker, watermarkRepo)...),
	)

	rateLimiter := middleware.NewRateLimiter(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		rateLimiter.Middleware(),
		middleware.AuthMiddleware(authenticator),
	}

	chained := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           chained,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Server stopped unexpectedly")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Interrupt signal received")
	case <-ctx.Done():
		logrus.Info("Application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Starting graceful shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Error during server shutdown")
		return err
	}

	logrus.Info("Server shut down")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

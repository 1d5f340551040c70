// Package observability provides Prometheus metrics for the pipeline.
package observability

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

//nolint:gochecknoglobals // Singleton pattern for the metrics server
var (
	metricsServerInstance *http.Server
	once                  sync.Once
)

// StartMetricsServer starts the Prometheus metrics endpoint if it hasn't been
// started already.
func StartMetricsServer(addr string) {
	once.Do(func() {
		sm := http.NewServeMux()
		sm.Handle("/metrics", promhttp.Handler())

		metricsServerInstance = &http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 15 * time.Second,
			Handler:           sm,
		}

		go func() {
			logrus.Infof("Starting metrics server on %s", addr)

			if err := metricsServerInstance.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.WithError(err).Error("Metrics server stopped unexpectedly")
			}
		}()
	})
}

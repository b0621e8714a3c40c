package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/amp-labs/amp-flux/closer"
	"github.com/amp-labs/amp-flux/logger"
	"github.com/amp-labs/amp-flux/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readHeaderTimeout = 5 * time.Second

// newRouter exposes Prometheus metrics and the model's current state.
func newRouter(model *pagination.Model) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(pagination.SnapshotOf(model.State())); err != nil {
			logger.Get(r.Context()).Warn("Writing state response failed", "error", err)
		}
	})

	return r
}

// serve starts the HTTP listener in the background. The returned closer
// shuts it down.
func serve(ctx context.Context, addr string, model *pagination.Model) io.Closer {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(model),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Get(ctx).Info("Serving metrics", "addr", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get(ctx).Error("Metrics server stopped", "error", err)
		}
	}()

	return closer.Func(func() error {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})
}

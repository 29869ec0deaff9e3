package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// NewRouter registers the status endpoints.
func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.StatusHandler)
	mux.HandleFunc("GET /health", h.HealthHandler)
	mux.HandleFunc("GET /ping", h.PingHandler)

	return mux
}

// Start serves h on port until ctx is canceled.
func Start(ctx context.Context, port string, h Handlers) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(h),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

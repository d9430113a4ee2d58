package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"atlas/internal/config"
)

// Engine is one interchangeable HTTP transport. Both implementations
// serve the same Service and therefore the same payloads.
type Engine interface {
	Name() string
	Serve(ctx context.Context, port int, svc *Service) error
}

// NewEngine resolves an api_engine name to a transport.
func NewEngine(name string) (Engine, error) {
	switch name {
	case config.EngineHTTP:
		return httpEngine{}, nil
	case config.EngineGin:
		return ginEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown api_engine %q (want %q, %q or %q)",
			name, config.EngineHTTP, config.EngineGin, config.EngineOff)
	}
}

// serve runs srv until ctx is cancelled, then drains connections.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

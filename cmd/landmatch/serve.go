package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tailored-agentic-units/landmatch/engine"
	"github.com/tailored-agentic-units/landmatch/observability"
	"github.com/tailored-agentic-units/landmatch/server"
)

func runServer(ctx context.Context, addr string, eng *engine.Engine, cfg *engine.Config, logger *slog.Logger) error {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return err
	}

	path, handler := server.New(eng, server.WithObserver(observer)).Handler()
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", addr, "service", server.ServiceName)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-txgraph/pkg/logging"
)

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	common := addCommonFlags(fs)
	port := fs.Int("port", 8080, "Server port")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	engine, err := e.engine()
	if err != nil {
		return err
	}

	server := NewServer(engine, e.snap, e.reg, e.logger)
	if _, err := server.Refresh(ctx); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("server listening", logging.String("addr", httpServer.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	sysTicker := time.NewTicker(15 * time.Second)
	defer sysTicker.Stop()

	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-sysTicker.C:
			e.reg.UpdateSystemMetrics()
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			e.logger.Info("shutting down")
			return httpServer.Shutdown(shutdownCtx)
		}
	}
}

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	xhttp "FolioPull/pkg/http"
	applogger "FolioPull/pkg/logger"
)

// Tracker is the refresh loop driven by App.
type Tracker interface {
	Load(ctx context.Context) error
	Run(ctx context.Context) error
}

// Closers are released in order on shutdown (kafka writer, redis client).
type Closers []io.Closer

// App encapsulates the entire application lifecycle.
type App struct {
	log        *applogger.Logger
	tracker    Tracker
	httpServer *xhttp.Server
	closers    Closers
	signals    []os.Signal
}

// New creates a new App instance. httpServer may be nil when the web
// dashboard is disabled.
func New(log *applogger.Logger, tracker Tracker, httpServer *xhttp.Server, closers Closers) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		log:        log,
		tracker:    tracker,
		httpServer: httpServer,
		closers:    closers,
		signals:    []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
}

// Run loads the portfolio, starts the dashboard and the refresh loop, and
// blocks until ctx is done, a signal arrives or the loop ends (once mode).
// A portfolio that cannot be loaded is fatal.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, a.signals...)
	defer stop()

	if err := a.tracker.Load(ctx); err != nil {
		a.log.Error("portfolio load failed", applogger.Error(err))
		a.close()
		return err
	}

	var httpErr <-chan error
	if a.httpServer != nil {
		httpErr = a.httpServer.Start()
	}

	done := make(chan error, 1)
	go func() {
		done <- a.tracker.Run(ctx)
	}()
	a.log.Info("tracker started")

	var runErr error
	select {
	case err := <-done:
		if err != nil {
			a.log.Error("tracker error", applogger.Error(err))
			runErr = err
		}
	case err, ok := <-httpErr:
		if ok && err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
		stop()
		<-done
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
		<-done
	}

	return errors.Join(runErr, a.shutdown())
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")

	var err error
	if a.httpServer != nil {
		if e := a.httpServer.Stop(context.Background()); e != nil {
			a.log.Error("http shutdown error", applogger.Error(e))
			err = e
		}
	}
	a.close()

	a.log.Info("shutdown complete")
	return err
}

func (a *App) close() {
	for _, c := range a.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
		}
	}
}

package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ghvault/internal/archive"
	"ghvault/internal/controllers"
	"ghvault/internal/providers"
	"ghvault/internal/structures"
)

// App ties the batch run to its status server. The server exists to
// inspect a long catch-up run (years of archive hours take a while); it
// starts before the first day and stops when the run finishes or a
// shutdown signal arrives.
type App struct {
	WebServer *http.Server
}

func NewApp(runner *archive.RunController, healthController *controllers.HealthController, statusController *controllers.StatusController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	// Inner mux: status routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap status routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, apiMux)

	// Outer mux: infrastructure + instrumented status routes
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Status server listening on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	runErr := make(chan error, 1)
	go func() {
		runErr <- runner.Run(runCtx)
	}()

	var fatal error
	select {
	case <-stop:
		logger.Warnf(providers.TypeApp, "Shutdown signal received, stopping run")
		cancelRun()
		<-runErr
	case err := <-runErr:
		if err != nil {
			fatal = err
		}
	case err := <-serverErr:
		cancelRun()
		<-runErr
		return nil, fmt.Errorf("status server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}
	if fatal != nil {
		return nil, fatal
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}

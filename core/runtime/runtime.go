package runtime

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cosmosgate/cosmosgate/core/config"
	"github.com/cosmosgate/cosmosgate/core/logger"
	"github.com/cosmosgate/cosmosgate/core/runtime/connectors"
	"github.com/cosmosgate/cosmosgate/core/runtime/handlers"
	"github.com/cosmosgate/cosmosgate/core/runtime/server"
)

// Runtime owns the connector and the HTTP server and wires the two
// together. The connector is opened once and shared read-only across
// request-handling goroutines.
type Runtime struct {
	cfg       *config.Config
	connector connectors.Connector
	server    *server.Server
}

// New builds the runtime from configuration: opens the store connector,
// creates the HTTP server and registers all routes.
func New(cfg *config.Config) (*Runtime, error) {
	log := logger.New("runtime")

	log.Infof("Opening %s connector", cfg.Connector)
	conn, err := connectors.New(cfg)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		cfg:       cfg,
		connector: conn,
		server:    server.New(cfg.Port),
	}
	rt.registerRoutes()
	return rt, nil
}

// Defaults returns the configured default query target.
func (r *Runtime) Defaults() connectors.Target {
	return connectors.Target{
		Database:  r.cfg.DatabaseID,
		Container: r.cfg.ContainerID,
	}
}

// registerRoutes registers all HTTP routes.
func (r *Runtime) registerRoutes() {
	log := logger.New("runtime")
	router := r.server.Router()

	queryHandler := handlers.NewQueryHandler(r.connector, r.Defaults())
	router.Method(http.MethodPost, "/api/query", queryHandler)
	router.Get("/healthz", handlers.Health())
	router.Handle("/metrics", promhttp.Handler())

	log.Info("Registered Routes:")
	log.Info("\tPOST /api/query")
	log.Info("\tGET  /healthz")
	log.Info("\tGET  /metrics")
}

// Start starts the server and blocks until SIGINT/SIGTERM.
func (r *Runtime) Start() error {
	if err := r.StartAsync(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return r.Stop()
}

// StartAsync starts the server without blocking. An unreachable store is
// logged but does not abort startup: requests fail individually with an
// error response while the process stays alive.
func (r *Runtime) StartAsync() error {
	log := logger.New("runtime")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.connector.Ping(ctx, r.Defaults()); err != nil {
		log.Warnf("Store not reachable at startup: %v", err)
	} else {
		log.Infof("Store reachable, default target %s/%s", r.cfg.DatabaseID, r.cfg.ContainerID)
	}

	return r.server.StartAsync()
}

// Stop shuts down the server, then the connector.
func (r *Runtime) Stop() error {
	log := logger.New("runtime")

	err := r.server.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if closeErr := r.connector.Close(ctx); closeErr != nil {
		log.PrintError("Error closing connector", closeErr)
		if err == nil {
			err = closeErr
		}
	}
	return err
}

// Command server wires the doctrack service: stores (in-memory or Postgres),
// the SLA reference table with its optional Redis cache, the routing planner,
// the outbox service, and the HTTP surface.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	outboxhandler "doctrack/internal/outbox/handler"
	outboxmetrics "doctrack/internal/outbox/metrics"
	"doctrack/internal/outbox/routing"
	"doctrack/internal/outbox/service"
	"doctrack/internal/outbox/store"
	deststore "doctrack/internal/outbox/store/destination"
	docstore "doctrack/internal/outbox/store/document"
	"doctrack/internal/platform/config"
	"doctrack/internal/platform/httpserver"
	"doctrack/internal/platform/logger"
	"doctrack/internal/platform/metrics"
	"doctrack/internal/platform/postgres"
	"doctrack/internal/platform/redis"
	refdatahandler "doctrack/internal/refdata/handler"
	"doctrack/internal/refdata/store/requireddays"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()

	var (
		documents    store.DocumentStore
		destinations store.DestinationStore
		slaStore     requireddays.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		documents = docstore.NewPostgres(db)
		destinations = deststore.NewPostgres(db)
		slaStore = requireddays.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		memDest := deststore.NewInMemory()
		documents = docstore.NewInMemory(memDest)
		destinations = memDest
		slaStore = requireddays.NewInMemory()
		log.Info("using in-memory stores")
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		slaStore = requireddays.NewRedisCache(slaStore, redisClient.Client, cfg.SLACacheTTL)
		log.Info("SLA lookup cache enabled", "ttl", cfg.SLACacheTTL.String())
	}

	httpMetrics := metrics.New()
	svc := service.New(documents, destinations, routing.NewPlanner(slaStore), log,
		service.WithMetrics(outboxmetrics.New()))

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	refdatahandler.New(slaStore, log, httpMetrics).Register(router)
	outboxhandler.New(svc, log, httpMetrics).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

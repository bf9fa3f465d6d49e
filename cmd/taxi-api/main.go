// README: Entry point; loads config, wires services, starts HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taxi/internal/config"
	httptransport "taxi/internal/http"
	"taxi/internal/infra"
	"taxi/internal/maps"
	"taxi/internal/modules/matching"
	"taxi/internal/modules/pricing"
	"taxi/internal/modules/ride"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	log := infra.NewLogger(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	defer dbPool.Close()
	if cfg.DB.Migrate {
		if err := infra.ApplyMigrations(ctx, dbPool, cfg.DB.MigrationsDir); err != nil {
			log.WithError(err).Fatal("apply migrations")
		}
	}

	catalog := matching.DefaultCatalog()
	if cfg.DriverCatalog != "" {
		catalog, err = matching.LoadCatalog(cfg.DriverCatalog)
		if err != nil {
			log.WithError(err).Fatal("load driver catalog")
		}
	}
	log.WithField("drivers", catalog.Len()).Info("driver catalog loaded")

	pricingSvc := pricing.NewService(cfg.Currency)
	matchingSvc := matching.NewService(catalog, pricingSvc)

	routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey, cfg.Maps.RouteTimeout)
	if err != nil {
		log.WithError(err).Fatal("maps client init")
	}
	var routes maps.Provider = routeSvc
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.WithError(err).Fatal("redis init")
		}
		defer redisClient.Close()
		routes = maps.NewCachingProvider(routeSvc, maps.NewRedisRouteCache(redisClient, cfg.Maps.RouteCacheTTL), log)
	}

	var events ride.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := ride.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		events = publisher
	}

	rideStore := ride.NewStore(dbPool)
	rideSvc := ride.NewService(rideStore, matchingSvc, routes, events, log)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Ride:        rideSvc,
		Matching:    matchingSvc,
		Log:         log,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTP.Addr).Info("taxi api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.WithError(err).Error("http server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	log.Info("taxi api stopped")
}

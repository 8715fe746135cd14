package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hotel_merge/internal/adapters/http_server"
	"hotel_merge/internal/adapters/observability"
	redisad "hotel_merge/internal/adapters/redis"
	"hotel_merge/internal/adapters/suppliers"
	"hotel_merge/internal/app"
	"hotel_merge/internal/domain"
	"hotel_merge/internal/shared"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, os.Stdout)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// suppliers
	client := suppliers.NewClient(cfg.SupplierTimeout, cfg.SupplierRPS)
	sups, err := suppliers.Build(client, cfg.Endpoints, cfg.Disabled)
	if err != nil {
		log.Fatal().Err(err).Msg("supplier setup failed")
	}
	hotels := app.NewHotelService(sups, cfg.Workers)
	for _, s := range hotels.Suppliers() {
		log.Info().Str("supplier", s.Name).Int("priority", s.Priority).Msg("supplier enabled")
	}

	// cache; the API keeps serving without it
	var cache domain.Cache
	rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, caching disabled")
		_ = rc.Close()
	} else {
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
		if n, err := rc.Purge(pingCtx, "hotels:*"); err == nil && n > 0 {
			log.Info().Int("keys", n).Msg("stale query cache purged")
		}
		cache = rc
		defer rc.Close()
	}
	cancel()
	q := app.NewQueryService(hotels, cache, cfg.CacheTTL)

	// http; leave room for every supplier attempt within one request
	srv := server.New(cfg.SupplierTimeout + 5*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

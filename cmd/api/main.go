package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bintrack/bintrack/internal/cache"
	"github.com/bintrack/bintrack/internal/config"
	"github.com/bintrack/bintrack/internal/db"
	"github.com/bintrack/bintrack/internal/domain/feedback"
	"github.com/bintrack/bintrack/internal/domain/user"
	"github.com/bintrack/bintrack/internal/domain/wastebin"
	httpx "github.com/bintrack/bintrack/internal/http"
	"github.com/bintrack/bintrack/internal/observability"
	"github.com/bintrack/bintrack/internal/repo/cached"
	"github.com/bintrack/bintrack/internal/repo/memory"
	"github.com/bintrack/bintrack/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTelServiceName, cfg.OTelEndpoint)
	if err != nil {
		log.Error("tracer init failed, continuing without export", "err", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	deps := httpx.RouterDeps{
		Env:            cfg.Env,
		ServiceName:    cfg.OTelServiceName,
		Prom:           prom,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		StoreTimeout:   cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}

	var closers []func()

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		deps.Users = memory.NewUsersRepo()
		deps.Wastebins = memory.NewWastebinsRepo()
		deps.Feedback = memory.NewFeedbackRepo()
		log.Warn("using in-memory store, data is lost on restart")

	case config.StoreDriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DBURL, 10)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		closers = append(closers, pool.Close)

		deps.Users = postgres.NewUsersRepo(pool, prom)
		deps.Wastebins = postgres.NewWastebinsRepo(pool, prom)
		deps.Feedback = postgres.NewFeedbackRepo(pool, prom)
		deps.Ping = pool.Ping

	default:
		log.Error("unknown store driver", "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	if c, closeCache := buildCache(ctx, log, cfg); c != nil {
		if closeCache != nil {
			closers = append(closers, closeCache)
		}
		deps.Users = cached.New[user.User](deps.Users, c, "users", prom.ObserveCache)
		deps.Wastebins = cached.NewOwned[wastebin.Wastebin](deps.Wastebins, c, "wastebins", prom.ObserveCache)
		deps.Feedback = cached.NewOwned[feedback.Feedback](deps.Feedback, c, "feedback", prom.ObserveCache)
	}

	// set up routers with the log
	router := httpx.NewRouter(log, deps)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}

	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}

// buildCache picks redis when an address is configured, otherwise an
// in-process cache when a TTL is set. Nil means reads go straight to the store.
func buildCache(ctx context.Context, log *slog.Logger, cfg config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
			Prefix:   "bintrack",
		})

		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		// an unreachable redis is not fatal: the cached repos fall back per call
		if err := rc.Ping(pctx); err != nil {
			log.Warn("redis ping failed", "addr", cfg.RedisAddr, "err", err)
		}

		log.Info("read cache enabled", "backend", "redis", "ttl", cfg.CacheTTL)
		return rc, func() { _ = rc.Close() }
	}

	if cfg.CacheTTL > 0 {
		log.Info("read cache enabled", "backend", "memory", "ttl", cfg.CacheTTL)
		return cache.NewMemory(cfg.CacheTTL), nil
	}

	return nil, nil
}

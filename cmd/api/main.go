package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"cinefilia/internal/adapters/auth"
	server "cinefilia/internal/adapters/http_server"
	"cinefilia/internal/adapters/observability"
	redisad "cinefilia/internal/adapters/redis"
	"cinefilia/internal/adapters/tmdb"
	"cinefilia/internal/app"
	"cinefilia/internal/domain"
	"cinefilia/internal/shared"
	"cinefilia/internal/storage/memory"
	mysqlrepo "cinefilia/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()
	cache, closeCache := openCache(ctx, cfg)
	defer closeCache()

	catalog, err := tmdb.New(tmdb.Options{
		BaseURL:  cfg.TMDBBase,
		Token:    cfg.TMDBToken,
		APIKey:   cfg.TMDBKey,
		Language: cfg.TMDBLanguage,
		RPS:      cfg.TMDBRPS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize TMDB client")
	}
	tokens, err := auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token issuer")
	}

	movies := app.NewMovieService(catalog, cache, cfg.CacheTTL)
	h := &server.Handlers{
		Users:       app.NewUserService(store, tokens, auth.Bcrypt{}, observability.Events{}),
		Reviews:     app.NewReviewService(store, store, movies, observability.Events{}),
		Communities: app.NewCommunityService(store, store, movies, cache, cfg.CacheTTL, observability.Events{}),
		Movies:      movies,
	}

	srv := server.New(server.Options{CORSOrigins: cfg.CORSOrigins})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.Storage).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

func openStore(ctx context.Context, cfg shared.Config) (domain.Store, func()) {
	if cfg.Storage == "memory" {
		log.Warn().Msg("using in-memory storage; data is lost on exit")
		return memory.New(), func() {}
	}
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	log.Info().Msg("database connection ok")
	return mysqlrepo.New(db), func() { _ = db.Close() }
}

// openCache falls back to no caching when Redis is unset or unreachable.
func openCache(ctx context.Context, cfg shared.Config) (domain.Cache, func()) {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR empty; caching disabled")
		return redisad.Noop{}, func() {}
	}
	c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; caching disabled")
		_ = c.Close()
		return redisad.Noop{}, func() {}
	}
	return c, func() { _ = c.Close() }
}

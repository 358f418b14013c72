package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"cinefilia/internal/adapters/observability"
	redisad "cinefilia/internal/adapters/redis"
	"cinefilia/internal/adapters/tmdb"
	"cinefilia/internal/app"
	"cinefilia/internal/shared"
	mysqlrepo "cinefilia/internal/storage/mysql"
)

// warmer pre-fetches TMDB details for every movie referenced by a review or
// a community so the API serves them from Redis.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.TMDBBase).
		Int("workers", cfg.Workers).
		Msg("warmer starting")

	if cfg.RedisAddr == "" {
		log.Fatal().Msg("REDIS_ADDR is required; there is nothing to warm without a cache")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

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
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}

	warm := app.NewWarmService(repo, app.NewMovieService(catalog, cache, cfg.CacheTTL))
	ids, err := warm.MovieIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listing referenced movies failed")
	}
	log.Info().Int("movies", len(ids)).Msg("movies to warm")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(movieID int64) {
			defer wg.Done()
			defer sem.Release(1)

			if err := warm.WarmMovie(ctx, movieID); err != nil {
				failed.Add(1)
				log.Warn().Int64("movie", movieID).Err(err).Msg("warm failed")
				return
			}
			log.Debug().Int64("movie", movieID).Msg("warm ok")
		}(id)
	}

	wg.Wait()
	log.Info().Int("movies", len(ids)).Int64("failed", failed.Load()).Msg("warm completed")
}

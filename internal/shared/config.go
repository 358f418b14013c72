package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	Storage      string // mysql|memory
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	TMDBBase     string
	TMDBToken    string
	TMDBKey      string
	TMDBLanguage string
	TMDBRPS      int
	JWTSecret    string
	TokenTTL     time.Duration
	CORSOrigins  []string
	Workers      int
	CacheTTL     time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":5005"),
		MetricsAddr:  env("METRICS_ADDR", ""),
		Storage:      strings.ToLower(env("STORAGE", "mysql")),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/cinefilia?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		TMDBBase:     env("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBToken:    env("TMDB_TOKEN", ""),
		TMDBKey:      env("TMDB_API_KEY", ""),
		TMDBLanguage: env("TMDB_LANGUAGE", "es-ES"),
		TMDBRPS:      atoi("TMDB_RPS", 20),
		JWTSecret:    env("JWT_SECRET", ""),
		TokenTTL:     time.Duration(atoi("TOKEN_TTL_HOURS", 6)) * time.Hour,
		CORSOrigins:  splitList(env("CORS_ORIGINS", "http://localhost:5173")),
		Workers:      atoi("WARM_WORKERS", 8),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.TMDBToken == "" && c.TMDBKey == "" {
		log.Warn().Msg("TMDB_TOKEN and TMDB_API_KEY are empty")
	}
	if c.Workers < 1 {
		log.Warn().Int("workers", c.Workers).Msg("WARM_WORKERS must be at least 1; using 1")
		c.Workers = 1
	}
	if c.JWTSecret == "" && c.IsDev() {
		log.Warn().Msg("JWT_SECRET is empty; using an insecure development secret")
		c.JWTSecret = devJWTSecret
	}
	return c
}

const devJWTSecret = "cinefilia-dev-secret-change-me-please"

func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development":
		return true
	}
	return false
}

// Validate reports settings the API cannot start without. Only dev
// environments get a fallback JWT secret.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when APP_ENV=%q", c.AppEnv)
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

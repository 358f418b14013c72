// Package tmdb talks to The Movie Database v3 API.
package tmdb

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"cinefilia/internal/adapters/observability"
	"cinefilia/internal/domain"
)

const maxAttempts = 4

type Options struct {
	BaseURL  string
	Token    string // v4 read access token, sent as bearer
	APIKey   string // v3 key, sent as api_key when Token is empty
	Language string
	RPS      int
	HTTP     *http.Client
}

type Client struct {
	base string
	hc   *http.Client
	tok  string
	key  string
	lang string
	rl   *rate.Limiter
	cb   *gobreaker.CircuitBreaker
}

func New(o Options) (*Client, error) {
	if o.Token == "" && o.APIKey == "" {
		return nil, fmt.Errorf("tmdb: token or API key is required")
	}
	if o.BaseURL == "" {
		o.BaseURL = "https://api.themoviedb.org/3"
	}
	if o.RPS <= 0 {
		o.RPS = 20
	}
	if o.HTTP == nil {
		o.HTTP = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Client{
		base: strings.TrimRight(o.BaseURL, "/"),
		hc:   o.HTTP,
		tok:  o.Token,
		key:  o.APIKey,
		lang: o.Language,
		rl:   rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
	}
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     20 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// caller-side outcomes say nothing about TMDB health
			return err == nil || errors.Is(err, domain.ErrNotFound) ||
				errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			observability.SetBreakerState(name, float64(to))
		},
	})
	return c, nil
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (domain.MoviesPage, error) {
	var out domain.MoviesPage
	q := url.Values{"query": {query}, "page": {strconv.Itoa(pageOrFirst(page))}, "include_adult": {"false"}}
	err := c.get(ctx, "/search/movie", "/search/movie", q, &out)
	return out, err
}

func (c *Client) GetMovie(ctx context.Context, id int64) (domain.Movie, error) {
	var out domain.Movie
	err := c.get(ctx, fmt.Sprintf("/movie/%d", id), "/movie/{id}", nil, &out)
	return out, err
}

func (c *Client) NowPlaying(ctx context.Context, page int) (domain.MoviesPage, error) {
	var out domain.MoviesPage
	q := url.Values{"page": {strconv.Itoa(pageOrFirst(page))}}
	err := c.get(ctx, "/movie/now_playing", "/movie/now_playing", q, &out)
	return out, err
}

func (c *Client) SearchPeople(ctx context.Context, query string, page int) (domain.PeoplePage, error) {
	var out domain.PeoplePage
	q := url.Values{"query": {query}, "page": {strconv.Itoa(pageOrFirst(page))}, "include_adult": {"false"}}
	err := c.get(ctx, "/search/person", "/search/person", q, &out)
	return out, err
}

func (c *Client) GetPerson(ctx context.Context, id int64) (domain.Person, error) {
	var out domain.Person
	err := c.get(ctx, fmt.Sprintf("/person/%d", id), "/person/{id}", nil, &out)
	return out, err
}

var (
	ErrBreakerOpen = errors.New("tmdb: circuit open")
	// ErrCredentials means TMDB rejected our token or key. It is an upstream
	// fault, unrelated to the caller's own credentials.
	ErrCredentials = errors.New("tmdb: credentials rejected")
)

func pageOrFirst(p int) int {
	if p < 1 {
		return 1
	}
	return p
}

// get runs one logical call through the breaker.
func (c *Client) get(ctx context.Context, path, endpoint string, q url.Values, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.fetch(ctx, path, endpoint, q, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrBreakerOpen, err)
	}
	return err
}

// fetch performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) fetch(ctx context.Context, path, endpoint string, q url.Values, out any) error {
	u := c.url(path, q)

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		// every attempt, retries included, spends a token
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		if c.tok != "" {
			req.Header.Set("Authorization", "Bearer "+c.tok)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "cinefilia/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("tmdb", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			log.Warn().Err(err).Str("kind", observability.LabelErr(err)).Str("endpoint", endpoint).Int("attempt", i+1).Msg("tmdb request failed")
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("tmdb", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("tmdb: decode %s: %w", endpoint, err)
			}
			return nil

		case http.StatusNotFound:
			drain(resp)
			return fmt.Errorf("tmdb %s: %w", path, domain.ErrNotFound)

		case http.StatusUnauthorized:
			drain(resp)
			return ErrCredentials

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			drain(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("tmdb: remote %d", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("tmdb: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

func (c *Client) url(path string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	if c.lang != "" {
		q.Set("language", c.lang)
	}
	if c.tok == "" && c.key != "" {
		q.Set("api_key", c.key)
	}
	return c.base + path + "?" + q.Encode()
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff is 200ms doubling per attempt plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}

// Package testkit wires the full API over in-memory storage and a fixed
// movie catalog for handler and SDK tests.
package testkit

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cinefilia/internal/adapters/auth"
	httpserver "cinefilia/internal/adapters/http_server"
	redisad "cinefilia/internal/adapters/redis"
	"cinefilia/internal/app"
	"cinefilia/internal/domain"
	"cinefilia/internal/storage/memory"
)

// Catalog is a fixed in-process MovieCatalog.
type Catalog struct {
	mu     sync.Mutex
	Movies map[int64]domain.Movie
	People map[int64]domain.Person
	Calls  int
	Err    error // returned by every call when set
}

func NewCatalog() *Catalog {
	return &Catalog{
		Movies: map[int64]domain.Movie{
			603: {ID: 603, Title: "Matrix", OriginalTitle: "The Matrix", ReleaseDate: "1999-03-30"},
			550: {ID: 550, Title: "El club de la lucha", OriginalTitle: "Fight Club", ReleaseDate: "1999-10-15"},
			680: {ID: 680, Title: "Pulp Fiction", OriginalTitle: "Pulp Fiction", ReleaseDate: "1994-09-10"},
		},
		People: map[int64]domain.Person{
			138:  {ID: 138, Name: "Quentin Tarantino", KnownForDepartment: "Directing"},
			6384: {ID: 6384, Name: "Keanu Reeves", KnownForDepartment: "Acting"},
		},
	}
}

func (c *Catalog) enter() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	return c.Err
}

func (c *Catalog) SearchMovies(_ context.Context, query string, page int) (domain.MoviesPage, error) {
	if err := c.enter(); err != nil {
		return domain.MoviesPage{}, err
	}
	out := domain.MoviesPage{Page: page, Results: []domain.Movie{}, TotalPages: 1}
	for _, m := range c.Movies {
		if strings.Contains(strings.ToLower(m.Title+" "+m.OriginalTitle), strings.ToLower(query)) {
			out.Results = append(out.Results, m)
		}
	}
	out.TotalResults = len(out.Results)
	return out, nil
}

func (c *Catalog) GetMovie(_ context.Context, id int64) (domain.Movie, error) {
	if err := c.enter(); err != nil {
		return domain.Movie{}, err
	}
	m, ok := c.Movies[id]
	if !ok {
		return domain.Movie{}, fmt.Errorf("movie %d: %w", id, domain.ErrNotFound)
	}
	return m, nil
}

func (c *Catalog) NowPlaying(_ context.Context, page int) (domain.MoviesPage, error) {
	if err := c.enter(); err != nil {
		return domain.MoviesPage{}, err
	}
	out := domain.MoviesPage{Page: page, TotalPages: 1}
	for _, m := range c.Movies {
		out.Results = append(out.Results, m)
	}
	out.TotalResults = len(out.Results)
	return out, nil
}

func (c *Catalog) SearchPeople(_ context.Context, query string, page int) (domain.PeoplePage, error) {
	if err := c.enter(); err != nil {
		return domain.PeoplePage{}, err
	}
	out := domain.PeoplePage{Page: page, Results: []domain.Person{}, TotalPages: 1}
	for _, p := range c.People {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out.Results = append(out.Results, p)
		}
	}
	out.TotalResults = len(out.Results)
	return out, nil
}

func (c *Catalog) GetPerson(_ context.Context, id int64) (domain.Person, error) {
	if err := c.enter(); err != nil {
		return domain.Person{}, err
	}
	p, ok := c.People[id]
	if !ok {
		return domain.Person{}, fmt.Errorf("person %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

type API struct {
	Server  *httptest.Server
	Store   *memory.Store
	Catalog *Catalog
}

// NewAPI starts the router on an httptest server, closed with the test.
func NewAPI(t *testing.T) *API {
	t.Helper()
	store := memory.New()
	catalog := NewCatalog()

	tokens, err := auth.NewJWT("test-secret-test-secret-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	movies := app.NewMovieService(catalog, redisad.Noop{}, time.Minute)
	h := &httpserver.Handlers{
		Users:       app.NewUserService(store, tokens, auth.Bcrypt{Cost: bcrypt.MinCost}, nil),
		Reviews:     app.NewReviewService(store, store, movies, nil),
		Communities: app.NewCommunityService(store, store, movies, redisad.Noop{}, time.Minute, nil),
		Movies:      movies,
	}
	srv := httpserver.New(httpserver.Options{})
	srv.MountHandlers(h)

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return &API{Server: ts, Store: store, Catalog: catalog}
}

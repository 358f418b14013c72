package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinefilia/internal/domain"
)

// MovieService is a read-through cache in front of the TMDB catalog.
// It satisfies domain.MovieCatalog so other services can use it directly.
type MovieService struct {
	catalog  domain.MovieCatalog
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewMovieService(c domain.MovieCatalog, cache domain.Cache, ttl time.Duration) *MovieService {
	return &MovieService{catalog: c, cache: cache, cacheTTL: ttl}
}

// listings change daily; details and people rarely do
func (s *MovieService) listTTL() int {
	if s.cacheTTL > time.Hour {
		return int(time.Hour.Seconds())
	}
	return int(s.cacheTTL.Seconds())
}

func (s *MovieService) GetMovie(ctx context.Context, id int64) (domain.Movie, error) {
	if id <= 0 {
		return domain.Movie{}, fmt.Errorf("%w: movie id must be positive", domain.ErrInvalid)
	}
	key := fmt.Sprintf("movie:%d", id)
	var m domain.Movie
	if ok, _ := s.cache.Get(ctx, key, &m); ok {
		return m, nil
	}
	m, err := s.catalog.GetMovie(ctx, id)
	if err != nil {
		return domain.Movie{}, err
	}
	_ = s.cache.Set(ctx, key, m, int(s.cacheTTL.Seconds()))
	return m, nil
}

func (s *MovieService) SearchMovies(ctx context.Context, query string, page int) (domain.MoviesPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.MoviesPage{Page: 1, Results: []domain.Movie{}}, nil
	}
	page = pageOrFirst(page)
	key := fmt.Sprintf("movies:search:%s:%d", strings.ToLower(query), page)
	var out domain.MoviesPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.catalog.SearchMovies(ctx, query, page)
	if err != nil {
		return domain.MoviesPage{}, err
	}
	out.Results = orEmpty(out.Results)
	_ = s.cache.Set(ctx, key, out, s.listTTL())
	return out, nil
}

func (s *MovieService) NowPlaying(ctx context.Context, page int) (domain.MoviesPage, error) {
	page = pageOrFirst(page)
	key := fmt.Sprintf("movies:now_playing:%d", page)
	var out domain.MoviesPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.catalog.NowPlaying(ctx, page)
	if err != nil {
		return domain.MoviesPage{}, err
	}
	out.Results = orEmpty(out.Results)
	_ = s.cache.Set(ctx, key, out, s.listTTL())
	return out, nil
}

func (s *MovieService) SearchPeople(ctx context.Context, query string, page int) (domain.PeoplePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.PeoplePage{Page: 1, Results: []domain.Person{}}, nil
	}
	page = pageOrFirst(page)
	key := fmt.Sprintf("people:search:%s:%d", strings.ToLower(query), page)
	var out domain.PeoplePage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.catalog.SearchPeople(ctx, query, page)
	if err != nil {
		return domain.PeoplePage{}, err
	}
	out.Results = orEmpty(out.Results)
	_ = s.cache.Set(ctx, key, out, s.listTTL())
	return out, nil
}

func (s *MovieService) GetPerson(ctx context.Context, id int64) (domain.Person, error) {
	if id <= 0 {
		return domain.Person{}, fmt.Errorf("%w: person id must be positive", domain.ErrInvalid)
	}
	key := fmt.Sprintf("person:%d", id)
	var p domain.Person
	if ok, _ := s.cache.Get(ctx, key, &p); ok {
		return p, nil
	}
	p, err := s.catalog.GetPerson(ctx, id)
	if err != nil {
		return domain.Person{}, err
	}
	_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	return p, nil
}

func pageOrFirst(p int) int {
	if p < 1 {
		return 1
	}
	return p
}

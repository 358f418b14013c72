package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"cinefilia/internal/domain"
)

// MovieRefs lists every TMDB movie id stored data points at.
type MovieRefs interface {
	ReviewedMovieIDs(ctx context.Context) ([]int64, error)
	RecommendedMovieIDs(ctx context.Context) ([]int64, error)
}

// WarmService pre-fetches movie details so feeds and community pages are
// served from cache.
type WarmService struct {
	refs   MovieRefs
	movies domain.MovieCatalog
}

func NewWarmService(r MovieRefs, m domain.MovieCatalog) *WarmService {
	return &WarmService{refs: r, movies: m}
}

// MovieIDs returns the distinct referenced ids in ascending order.
func (s *WarmService) MovieIDs(ctx context.Context) ([]int64, error) {
	reviewed, err := s.refs.ReviewedMovieIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("reviewed movie ids: %w", err)
	}
	recommended, err := s.refs.RecommendedMovieIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("recommended movie ids: %w", err)
	}
	ids := uniqueInt64(reviewed, recommended)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// WarmMovie loads one movie through the cache. Movies TMDB no longer has are
// logged and skipped; anything else is returned.
func (s *WarmService) WarmMovie(ctx context.Context, id int64) error {
	_, err := s.movies.GetMovie(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn().Int64("movie", id).Msg("referenced movie missing from TMDB")
		return nil
	}
	return err
}

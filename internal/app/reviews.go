package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"cinefilia/internal/domain"
)

const (
	defaultReviewLimit = 50
	maxReviewLimit     = 200
	enrichConcurrency  = 8
)

type ReviewService struct {
	repo   domain.ReviewRepository
	users  domain.UserRepository
	movies domain.MovieCatalog
	events domain.EventRecorder
	now    func() time.Time
}

func NewReviewService(r domain.ReviewRepository, u domain.UserRepository, m domain.MovieCatalog, ev domain.EventRecorder) *ReviewService {
	return &ReviewService{repo: r, users: u, movies: m, events: eventsOrNoop(ev), now: time.Now}
}

func (s *ReviewService) CreateReview(ctx context.Context, author string, in domain.ReviewInput) (domain.Review, error) {
	if author == "" {
		return domain.Review{}, domain.ErrUnauthorized
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := check(ctx, in); err != nil {
		return domain.Review{}, err
	}

	// Title is denormalised for the by-movie filter. A TMDB outage must not
	// block writing a review, an unknown movie must.
	var title string
	m, err := s.movies.GetMovie(ctx, in.MovieAPIID)
	switch {
	case err == nil:
		title = movieTitle(m)
	case errors.Is(err, domain.ErrNotFound):
		return domain.Review{}, fmt.Errorf("%w: movie %d does not exist", domain.ErrInvalid, in.MovieAPIID)
	default:
		log.Warn().Err(err).Int64("movie", in.MovieAPIID).Msg("movie lookup failed; storing review without title")
	}

	now := s.now().UTC()
	r := domain.Review{
		ID:         uuid.NewString(),
		Author:     author,
		MovieAPIID: in.MovieAPIID,
		MovieTitle: title,
		Content:    in.Content,
		Rate:       *in.Rate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateReview(ctx, r); err != nil {
		return domain.Review{}, err
	}
	s.events.Record("review", "created")
	return r, nil
}

func (s *ReviewService) GetReview(ctx context.Context, id string) (domain.Review, error) {
	return s.repo.GetReview(ctx, id)
}

func (s *ReviewService) ListReviews(ctx context.Context, q domain.ReviewsQuery) ([]domain.Review, error) {
	q, err := normalizeReviewsQuery(q)
	if err != nil {
		return nil, err
	}
	rs, err := s.repo.ListReviews(ctx, q)
	if err != nil {
		return nil, err
	}
	return orEmpty(rs), nil
}

// ReviewFeed lists reviews with authors and movies resolved. Authors come
// from one batch lookup; movies are fetched once per distinct id. Lookup
// failures leave the corresponding field empty.
func (s *ReviewService) ReviewFeed(ctx context.Context, q domain.ReviewsQuery) ([]domain.ReviewCard, error) {
	rs, err := s.ListReviews(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return []domain.ReviewCard{}, nil
	}

	authorIDs := make([]string, 0, len(rs))
	movieIDs := make([]int64, 0, len(rs))
	for _, r := range rs {
		authorIDs = append(authorIDs, r.Author)
		movieIDs = append(movieIDs, r.MovieAPIID)
	}
	movieIDs = uniqueInt64(movieIDs)

	var (
		users  map[string]domain.UserSummary
		movies = make([]*domain.Movie, len(movieIDs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	g.Go(func() error {
		us, err := s.users.ListUsers(gctx, uniqueStrings(authorIDs))
		if err != nil {
			return fmt.Errorf("load review authors: %w", err)
		}
		users = summariesByID(us)
		return nil
	})
	for i, id := range movieIDs {
		i, id := i, id
		g.Go(func() error {
			m, err := s.movies.GetMovie(gctx, id)
			if err != nil {
				log.Warn().Err(err).Int64("movie", id).Msg("feed: movie lookup failed")
				return nil
			}
			movies[i] = &m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Movie, len(movieIDs))
	for i, id := range movieIDs {
		byID[id] = movies[i]
	}
	out := make([]domain.ReviewCard, 0, len(rs))
	for _, r := range rs {
		card := domain.ReviewCard{Review: r, MovieData: byID[r.MovieAPIID]}
		if u, ok := users[r.Author]; ok {
			card.AuthorData = &u
		}
		out = append(out, card)
	}
	return out, nil
}

func (s *ReviewService) EditReview(ctx context.Context, caller, id string, p domain.ReviewPatch) (domain.Review, error) {
	if p.Content != nil {
		trimmed := strings.TrimSpace(*p.Content)
		if trimmed == "" {
			return domain.Review{}, fmt.Errorf("%w: content must not be blank", domain.ErrInvalid)
		}
		p.Content = &trimmed
	}
	if err := check(ctx, p); err != nil {
		return domain.Review{}, err
	}
	r, err := s.owned(ctx, caller, id)
	if err != nil {
		return domain.Review{}, err
	}
	if p.Content != nil {
		r.Content = *p.Content
	}
	if p.Rate != nil {
		r.Rate = *p.Rate
	}
	r.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateReview(ctx, r); err != nil {
		return domain.Review{}, err
	}
	return r, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, caller, id string) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.events.Record("review", "deleted")
	return nil
}

// LikeReview is idempotent per user and returns the review with its current count.
func (s *ReviewService) LikeReview(ctx context.Context, caller, id string) (domain.Review, error) {
	if caller == "" {
		return domain.Review{}, domain.ErrUnauthorized
	}
	added, err := s.repo.AddLike(ctx, id, caller)
	if err != nil {
		return domain.Review{}, err
	}
	if added {
		s.events.Record("review", "liked")
	}
	return s.repo.GetReview(ctx, id)
}

func (s *ReviewService) UnlikeReview(ctx context.Context, caller, id string) (domain.Review, error) {
	if caller == "" {
		return domain.Review{}, domain.ErrUnauthorized
	}
	removed, err := s.repo.RemoveLike(ctx, id, caller)
	if err != nil {
		return domain.Review{}, err
	}
	if removed {
		s.events.Record("review", "unliked")
	}
	return s.repo.GetReview(ctx, id)
}

func (s *ReviewService) owned(ctx context.Context, caller, id string) (domain.Review, error) {
	if caller == "" {
		return domain.Review{}, domain.ErrUnauthorized
	}
	r, err := s.repo.GetReview(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if r.Author != caller {
		return domain.Review{}, fmt.Errorf("%w: only the author can change this review", domain.ErrForbidden)
	}
	return r, nil
}

func normalizeReviewsQuery(q domain.ReviewsQuery) (domain.ReviewsQuery, error) {
	switch q.Filter {
	case "":
		q.Filter = domain.FilterAll
	case domain.FilterAll, domain.FilterTop:
	default:
		return q, fmt.Errorf("%w: filter must be all or top", domain.ErrInvalid)
	}
	if q.Limit <= 0 {
		q.Limit = defaultReviewLimit
	}
	if q.Limit > maxReviewLimit {
		q.Limit = maxReviewLimit
	}
	return q, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"cinefilia/internal/domain"
)

const (
	defaultCommunityLimit = 100
	maxCommunityLimit     = 500
)

type CommunityService struct {
	repo     domain.CommunityRepository
	users    domain.UserRepository
	movies   domain.MovieCatalog
	cache    domain.Cache
	cacheTTL time.Duration
	events   domain.EventRecorder
	now      func() time.Time
}

func NewCommunityService(r domain.CommunityRepository, u domain.UserRepository, m domain.MovieCatalog, cache domain.Cache, ttl time.Duration, ev domain.EventRecorder) *CommunityService {
	return &CommunityService{repo: r, users: u, movies: m, cache: cache, cacheTTL: ttl, events: eventsOrNoop(ev), now: time.Now}
}

func detailsKey(id string) string { return fmt.Sprintf("community:%s:details", id) }

func (s *CommunityService) CreateCommunity(ctx context.Context, owner string, in domain.CommunityInput) (domain.Community, error) {
	if owner == "" {
		return domain.Community{}, domain.ErrUnauthorized
	}
	in = cleanCommunityInput(in)
	if err := check(ctx, in); err != nil {
		return domain.Community{}, err
	}
	now := s.now().UTC()
	c := domain.Community{
		ID:        uuid.NewString(),
		Owner:     owner,
		Users:     []string{owner},
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyCommunityInput(&c, in)
	if err := s.repo.CreateCommunity(ctx, c); err != nil {
		return domain.Community{}, err
	}
	s.events.Record("community", "created")
	return c, nil
}

func (s *CommunityService) GetCommunity(ctx context.Context, id string) (domain.Community, error) {
	return s.repo.GetCommunity(ctx, id)
}

func (s *CommunityService) ListCommunities(ctx context.Context) ([]domain.Community, error) {
	return s.SearchCommunities(ctx, domain.CommunitiesQuery{})
}

func (s *CommunityService) SearchCommunities(ctx context.Context, q domain.CommunitiesQuery) ([]domain.Community, error) {
	q.Q = strings.TrimSpace(q.Q)
	if q.Limit <= 0 {
		q.Limit = defaultCommunityLimit
	}
	if q.Limit > maxCommunityLimit {
		q.Limit = maxCommunityLimit
	}
	cs, err := s.repo.ListCommunities(ctx, q)
	if err != nil {
		return nil, err
	}
	return orEmpty(cs), nil
}

// CommunityDetails resolves owner, members, movies and people. References
// TMDB no longer knows are dropped; other lookup errors fail the call.
func (s *CommunityService) CommunityDetails(ctx context.Context, id string) (domain.CommunityDetails, error) {
	var out domain.CommunityDetails
	if ok, _ := s.cache.Get(ctx, detailsKey(id), &out); ok {
		return out, nil
	}
	c, err := s.repo.GetCommunity(ctx, id)
	if err != nil {
		return domain.CommunityDetails{}, err
	}

	var users map[string]domain.UserSummary
	movies := make([]*domain.Movie, len(c.MoviesAPIIDs))
	actors := make([]*domain.Person, len(c.FetishActors))
	directors := make([]*domain.Person, len(c.FetishDirectors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	g.Go(func() error {
		us, err := s.users.ListUsers(gctx, uniqueStrings([]string{c.Owner}, c.Users))
		if err != nil {
			return fmt.Errorf("load members: %w", err)
		}
		users = summariesByID(us)
		return nil
	})
	for i, mid := range c.MoviesAPIIDs {
		i, mid := i, mid
		g.Go(func() error {
			m, err := s.movies.GetMovie(gctx, mid)
			if errors.Is(err, domain.ErrNotFound) {
				log.Warn().Int64("movie", mid).Str("community", id).Msg("recommended movie not found")
				return nil
			}
			if err != nil {
				return err
			}
			movies[i] = &m
			return nil
		})
	}
	fetchPeople := func(dst []*domain.Person, ids []int64) {
		for i, pid := range ids {
			i, pid := i, pid
			g.Go(func() error {
				p, err := s.movies.GetPerson(gctx, pid)
				if errors.Is(err, domain.ErrNotFound) {
					return nil
				}
				if err != nil {
					return err
				}
				dst[i] = &p
				return nil
			})
		}
	}
	fetchPeople(actors, c.FetishActors)
	fetchPeople(directors, c.FetishDirectors)
	if err := g.Wait(); err != nil {
		return domain.CommunityDetails{}, err
	}

	out = toCommunityDetails(c, users, compact(movies), compact(actors), compact(directors))
	// A write that landed while the lookups ran has already invalidated the
	// key; caching now would resurrect the old snapshot.
	if cur, err := s.repo.GetCommunity(ctx, id); err == nil && sameSnapshot(c, cur) {
		_ = s.cache.Set(ctx, detailsKey(id), out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func sameSnapshot(a, b domain.Community) bool {
	return a.UpdatedAt.Equal(b.UpdatedAt) && slices.Equal(a.Users, b.Users)
}

// EditCommunity replaces every editable field with in.
func (s *CommunityService) EditCommunity(ctx context.Context, caller, id string, in domain.CommunityInput) (domain.Community, error) {
	in = cleanCommunityInput(in)
	if err := check(ctx, in); err != nil {
		return domain.Community{}, err
	}
	c, err := s.owned(ctx, caller, id)
	if err != nil {
		return domain.Community{}, err
	}
	applyCommunityInput(&c, in)
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateCommunity(ctx, c); err != nil {
		return domain.Community{}, err
	}
	s.invalidate(ctx, id)
	return c, nil
}

func (s *CommunityService) DeleteCommunity(ctx context.Context, caller, id string) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCommunity(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.events.Record("community", "deleted")
	return nil
}

func (s *CommunityService) FollowCommunity(ctx context.Context, caller, id string) (domain.Community, error) {
	if caller == "" {
		return domain.Community{}, domain.ErrUnauthorized
	}
	added, err := s.repo.AddMember(ctx, id, caller)
	if err != nil {
		return domain.Community{}, err
	}
	if added {
		s.invalidate(ctx, id)
		s.events.Record("community", "followed")
	}
	return s.repo.GetCommunity(ctx, id)
}

func (s *CommunityService) UnfollowCommunity(ctx context.Context, caller, id string) (domain.Community, error) {
	if caller == "" {
		return domain.Community{}, domain.ErrUnauthorized
	}
	c, err := s.repo.GetCommunity(ctx, id)
	if err != nil {
		return domain.Community{}, err
	}
	if c.Owner == caller {
		return domain.Community{}, fmt.Errorf("%w: the owner cannot leave the community", domain.ErrConflict)
	}
	removed, err := s.repo.RemoveMember(ctx, id, caller)
	if err != nil {
		return domain.Community{}, err
	}
	if removed {
		s.invalidate(ctx, id)
		s.events.Record("community", "unfollowed")
	}
	return s.repo.GetCommunity(ctx, id)
}

func (s *CommunityService) owned(ctx context.Context, caller, id string) (domain.Community, error) {
	if caller == "" {
		return domain.Community{}, domain.ErrUnauthorized
	}
	c, err := s.repo.GetCommunity(ctx, id)
	if err != nil {
		return domain.Community{}, err
	}
	if c.Owner != caller {
		return domain.Community{}, fmt.Errorf("%w: only the owner can change this community", domain.ErrForbidden)
	}
	return c, nil
}

func (s *CommunityService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Del(ctx, detailsKey(id)); err != nil {
		log.Warn().Err(err).Str("community", id).Msg("cache invalidation failed")
	}
}

func cleanCommunityInput(in domain.CommunityInput) domain.CommunityInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Cover = strings.TrimSpace(in.Cover)
	genres := make([]string, 0, len(in.Genres))
	for _, g := range in.Genres {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	in.Genres = uniqueStrings(genres)
	in.MoviesAPIIDs = uniqueInt64(in.MoviesAPIIDs)
	in.FetishActors = uniqueInt64(in.FetishActors)
	in.FetishDirectors = uniqueInt64(in.FetishDirectors)
	return in
}

func applyCommunityInput(c *domain.Community, in domain.CommunityInput) {
	c.Title = in.Title
	c.Description = in.Description
	c.Cover = in.Cover
	c.Genres = orEmpty(in.Genres)
	c.Decades = orEmpty(in.Decades)
	c.FetishActors = orEmpty(in.FetishActors)
	c.FetishDirectors = orEmpty(in.FetishDirectors)
	c.MoviesAPIIDs = orEmpty(in.MoviesAPIIDs)
}

func compact[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, p := range in {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

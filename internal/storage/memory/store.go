// Package memory keeps everything in process; used in dev mode and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"cinefilia/internal/domain"
)

type Store struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	reviews     map[string]domain.Review
	likes       map[string]map[string]struct{} // review id -> user ids
	communities map[string]domain.Community
}

func New() *Store {
	return &Store{
		users:       make(map[string]domain.User),
		reviews:     make(map[string]domain.Review),
		likes:       make(map[string]map[string]struct{}),
		communities: make(map[string]domain.Community),
	}
}

var _ domain.Store = (*Store)(nil)

// ---- users ----

func (s *Store) CreateUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.users {
		if strings.EqualFold(o.Email, u.Email) || strings.EqualFold(o.Username, u.Username) {
			return fmt.Errorf("%w: username or email already taken", domain.ErrConflict)
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (s *Store) ListUsers(_ context.Context, ids []string) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.User
	if len(ids) == 0 {
		for _, u := range s.users {
			out = append(out, u)
		}
		slices.SortFunc(out, func(a, b domain.User) int { return strings.Compare(a.Username, b.Username) })
		return out, nil
	}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return fmt.Errorf("user %s: %w", u.ID, domain.ErrNotFound)
	}
	for id, o := range s.users {
		if id != u.ID && strings.EqualFold(o.Username, u.Username) {
			return fmt.Errorf("%w: username already taken", domain.ErrConflict)
		}
	}
	s.users[u.ID] = u
	return nil
}

// ---- reviews ----

func (s *Store) CreateReview(_ context.Context, r domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[r.ID]; ok {
		return fmt.Errorf("review %s: %w", r.ID, domain.ErrConflict)
	}
	r.LikesCounter = 0
	s.reviews[r.ID] = r
	return nil
}

func (s *Store) GetReview(_ context.Context, id string) (domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return domain.Review{}, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

func (s *Store) ListReviews(_ context.Context, q domain.ReviewsQuery) ([]domain.Review, error) {
	s.mu.RLock()
	all := make([]domain.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		all = append(all, r)
	}
	s.mu.RUnlock()
	return domain.FilterReviews(all, q), nil
}

func (s *Store) UpdateReview(_ context.Context, r domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.reviews[r.ID]
	if !ok {
		return fmt.Errorf("review %s: %w", r.ID, domain.ErrNotFound)
	}
	cur.Content, cur.Rate, cur.UpdatedAt = r.Content, r.Rate, r.UpdatedAt
	s.reviews[r.ID] = cur
	return nil
}

func (s *Store) DeleteReview(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	delete(s.reviews, id)
	delete(s.likes, id)
	return nil
}

func (s *Store) AddLike(_ context.Context, reviewID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[reviewID]
	if !ok {
		return false, fmt.Errorf("review %s: %w", reviewID, domain.ErrNotFound)
	}
	set := s.likes[reviewID]
	if set == nil {
		set = make(map[string]struct{})
		s.likes[reviewID] = set
	}
	if _, dup := set[userID]; dup {
		return false, nil
	}
	set[userID] = struct{}{}
	r.LikesCounter = len(set)
	s.reviews[reviewID] = r
	return true, nil
}

func (s *Store) RemoveLike(_ context.Context, reviewID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[reviewID]
	if !ok {
		return false, fmt.Errorf("review %s: %w", reviewID, domain.ErrNotFound)
	}
	set := s.likes[reviewID]
	if _, liked := set[userID]; !liked {
		return false, nil
	}
	delete(set, userID)
	r.LikesCounter = len(set)
	s.reviews[reviewID] = r
	return true, nil
}

func (s *Store) ReviewedMovieIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[int64]struct{})
	var out []int64
	for _, r := range s.reviews {
		if _, ok := seen[r.MovieAPIID]; !ok {
			seen[r.MovieAPIID] = struct{}{}
			out = append(out, r.MovieAPIID)
		}
	}
	slices.Sort(out)
	return out, nil
}

// ---- communities ----

func (s *Store) CreateCommunity(_ context.Context, c domain.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.communities[c.ID]; ok {
		return fmt.Errorf("community %s: %w", c.ID, domain.ErrConflict)
	}
	if !c.IsMember(c.Owner) {
		c.Users = append([]string{c.Owner}, c.Users...)
	}
	s.communities[c.ID] = cloneCommunity(c)
	return nil
}

func (s *Store) GetCommunity(_ context.Context, id string) (domain.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.communities[id]
	if !ok {
		return domain.Community{}, fmt.Errorf("community %s: %w", id, domain.ErrNotFound)
	}
	return cloneCommunity(c), nil
}

func (s *Store) ListCommunities(_ context.Context, q domain.CommunitiesQuery) ([]domain.Community, error) {
	s.mu.RLock()
	all := make([]domain.Community, 0, len(s.communities))
	for _, c := range s.communities {
		all = append(all, cloneCommunity(c))
	}
	s.mu.RUnlock()
	return domain.FilterCommunities(all, q), nil
}

// UpdateCommunity stores editable fields; owner and members are kept.
func (s *Store) UpdateCommunity(_ context.Context, c domain.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.communities[c.ID]
	if !ok {
		return fmt.Errorf("community %s: %w", c.ID, domain.ErrNotFound)
	}
	c.Owner, c.Users, c.CreatedAt = cur.Owner, cur.Users, cur.CreatedAt
	s.communities[c.ID] = cloneCommunity(c)
	return nil
}

func (s *Store) DeleteCommunity(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.communities[id]; !ok {
		return fmt.Errorf("community %s: %w", id, domain.ErrNotFound)
	}
	delete(s.communities, id)
	return nil
}

func (s *Store) AddMember(_ context.Context, communityID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.communities[communityID]
	if !ok {
		return false, fmt.Errorf("community %s: %w", communityID, domain.ErrNotFound)
	}
	if c.IsMember(userID) {
		return false, nil
	}
	c.Users = append(slices.Clone(c.Users), userID)
	s.communities[communityID] = c
	return true, nil
}

func (s *Store) RemoveMember(_ context.Context, communityID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.communities[communityID]
	if !ok {
		return false, fmt.Errorf("community %s: %w", communityID, domain.ErrNotFound)
	}
	i := slices.Index(c.Users, userID)
	if i < 0 {
		return false, nil
	}
	c.Users = slices.Delete(slices.Clone(c.Users), i, i+1)
	s.communities[communityID] = c
	return true, nil
}

func (s *Store) RecommendedMovieIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[int64]struct{})
	var out []int64
	for _, c := range s.communities {
		for _, id := range c.MoviesAPIIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

// cloneCommunity detaches slices so callers can't mutate stored state.
func cloneCommunity(c domain.Community) domain.Community {
	c.Genres = slices.Clone(c.Genres)
	c.Decades = slices.Clone(c.Decades)
	c.FetishActors = slices.Clone(c.FetishActors)
	c.FetishDirectors = slices.Clone(c.FetishDirectors)
	c.MoviesAPIIDs = slices.Clone(c.MoviesAPIIDs)
	c.Users = slices.Clone(c.Users)
	return c
}

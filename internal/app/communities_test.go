package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cinefilia/internal/app"
	"cinefilia/internal/domain"
	"cinefilia/internal/storage/memory"
	"cinefilia/internal/testkit"
)

func newCommunities(t *testing.T) (*app.CommunityService, *fakeCache, *testkit.Catalog) {
	t.Helper()
	store := memory.New()
	seedUser(t, store, "ana", "ana")
	seedUser(t, store, "bob", "bob")
	cat := newCatalog()
	cache := &fakeCache{}
	movies := app.NewMovieService(cat, &fakeCache{}, time.Minute)
	return app.NewCommunityService(store, store, movies, cache, time.Minute, nil), cache, cat
}

func noirInput() domain.CommunityInput {
	return domain.CommunityInput{
		Title:           "  Pulp lovers ",
		Description:     "Todo Tarantino",
		Genres:          []string{"Crime", "Crime", " "},
		Decades:         []int{1990},
		FetishActors:    []int64{6384},
		FetishDirectors: []int64{138, 138},
		MoviesAPIIDs:    []int64{680, 603},
	}
}

func TestCreateCommunity_OwnerIsFirstMember(t *testing.T) {
	s, _, _ := newCommunities(t)
	c, err := s.CreateCommunity(context.Background(), "ana", noirInput())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c.Owner != "ana" || len(c.Users) != 1 || c.Users[0] != "ana" {
		t.Fatalf("owner must be the only member: %+v", c)
	}
	if c.Title != "Pulp lovers" || len(c.Genres) != 1 || len(c.FetishDirectors) != 1 {
		t.Fatalf("input not cleaned: %+v", c)
	}

	if _, err := s.CreateCommunity(context.Background(), "", noirInput()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	bad := noirInput()
	bad.Title = ""
	if _, err := s.CreateCommunity(context.Background(), "ana", bad); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestCommunityDetails_ResolvesAndCaches(t *testing.T) {
	s, cache, cat := newCommunities(t)
	ctx := context.Background()
	in := noirInput()
	in.FetishActors = append(in.FetishActors, 999999)
	c, err := s.CreateCommunity(ctx, "ana", in)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := s.FollowCommunity(ctx, "bob", c.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	d, err := s.CommunityDetails(ctx, c.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if d.Owner.Username != "ana" || len(d.Users) != 2 {
		t.Fatalf("members not resolved: %+v", d)
	}
	if len(d.Movies) != 2 || d.Movies[0].ID != 680 || d.Movies[1].ID != 603 {
		t.Fatalf("movies not resolved in order: %+v", d.Movies)
	}
	if len(d.FetishActors) != 1 || len(d.FetishDirectors) != 1 {
		t.Fatalf("people not resolved: %+v / %+v", d.FetishActors, d.FetishDirectors)
	}
	if !cache.has("community:" + c.ID + ":details") {
		t.Fatalf("expected details to be cached")
	}

	// served from cache even with TMDB down
	cat.Err = errors.New("tmdb down")
	if _, err := s.CommunityDetails(ctx, c.ID); err != nil {
		t.Fatalf("expected cached details, got %v", err)
	}

	// writes invalidate
	if _, err := s.UnfollowCommunity(ctx, "bob", c.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if cache.has("community:" + c.ID + ":details") {
		t.Fatalf("expected details to be invalidated")
	}
	if _, err := s.CommunityDetails(ctx, c.ID); err == nil {
		t.Fatalf("expected TMDB error after invalidation")
	}
}

// racingUsers runs onList once, in the middle of a details lookup.
type racingUsers struct {
	domain.UserRepository
	once   sync.Once
	onList func()
}

func (r *racingUsers) ListUsers(ctx context.Context, ids []string) ([]domain.User, error) {
	r.once.Do(r.onList)
	return r.UserRepository.ListUsers(ctx, ids)
}

func TestCommunityDetails_WriteDuringLookupIsNotCached(t *testing.T) {
	store := memory.New()
	seedUser(t, store, "ana", "ana")
	seedUser(t, store, "bob", "bob")
	cache := &fakeCache{}
	movies := app.NewMovieService(newCatalog(), &fakeCache{}, time.Minute)
	writer := app.NewCommunityService(store, store, movies, cache, time.Minute, nil)
	ctx := context.Background()

	c, err := writer.CreateCommunity(ctx, "ana", noirInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	users := &racingUsers{UserRepository: store}
	users.onList = func() {
		if _, err := writer.FollowCommunity(ctx, "bob", c.ID); err != nil {
			t.Errorf("follow: %v", err)
		}
	}
	reader := app.NewCommunityService(store, users, movies, cache, time.Minute, nil)

	if _, err := reader.CommunityDetails(ctx, c.ID); err != nil {
		t.Fatalf("details: %v", err)
	}
	if cache.has("community:" + c.ID + ":details") {
		t.Fatalf("snapshot taken before the follow must not be cached")
	}

	d, err := reader.CommunityDetails(ctx, c.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(d.Users) != 2 {
		t.Fatalf("expected the new follower, got %+v", d.Users)
	}
	if !cache.has("community:" + c.ID + ":details") {
		t.Fatalf("expected the fresh snapshot to be cached")
	}
}

func TestFollowUnfollow(t *testing.T) {
	s, _, _ := newCommunities(t)
	ctx := context.Background()
	c, err := s.CreateCommunity(ctx, "ana", noirInput())
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	for i := 0; i < 2; i++ {
		if c, err = s.FollowCommunity(ctx, "bob", c.ID); err != nil {
			t.Fatalf("follow: %v", err)
		}
	}
	if len(c.Users) != 2 || !c.IsMember("bob") {
		t.Fatalf("follow must be idempotent: %+v", c.Users)
	}
	if _, err := s.UnfollowCommunity(ctx, "ana", c.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("owner must not leave, got %v", err)
	}
	if c, err = s.UnfollowCommunity(ctx, "bob", c.ID); err != nil || c.IsMember("bob") {
		t.Fatalf("unfollow failed: %+v err=%v", c.Users, err)
	}
	if _, err := s.FollowCommunity(ctx, "bob", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEditDeleteCommunity_OwnerOnly(t *testing.T) {
	s, cache, _ := newCommunities(t)
	ctx := context.Background()
	c, err := s.CreateCommunity(ctx, "ana", noirInput())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := s.FollowCommunity(ctx, "bob", c.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	in := noirInput()
	in.Title = "Neo-noir"
	in.MoviesAPIIDs = nil
	if _, err := s.EditCommunity(ctx, "bob", c.ID, in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	edited, err := s.EditCommunity(ctx, "ana", c.ID, in)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Title != "Neo-noir" || len(edited.MoviesAPIIDs) != 0 || len(edited.Users) != 2 || edited.Owner != "ana" {
		t.Fatalf("unexpected edit: %+v", edited)
	}

	if err := s.DeleteCommunity(ctx, "bob", c.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := s.DeleteCommunity(ctx, "ana", c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetCommunity(ctx, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(cache.dels) < 2 {
		t.Fatalf("expected edit and delete to invalidate, got %v", cache.dels)
	}
}

func TestSearchCommunities(t *testing.T) {
	s, _, _ := newCommunities(t)
	ctx := context.Background()
	if _, err := s.CreateCommunity(ctx, "ana", noirInput()); err != nil {
		t.Fatalf("err: %v", err)
	}
	other := noirInput()
	other.Title, other.Description, other.Genres, other.Decades = "Ghibli", "Animación japonesa", []string{"Animation"}, []int{1980, 2000}
	if _, err := s.CreateCommunity(ctx, "bob", other); err != nil {
		t.Fatalf("err: %v", err)
	}

	cases := []struct {
		q    domain.CommunitiesQuery
		want int
	}{
		{domain.CommunitiesQuery{}, 2},
		{domain.CommunitiesQuery{Q: "ghibli"}, 1},
		{domain.CommunitiesQuery{Q: "tarantino"}, 1},
		{domain.CommunitiesQuery{Genre: "animation"}, 1},
		{domain.CommunitiesQuery{Decade: 1980}, 1},
		{domain.CommunitiesQuery{Member: "bob"}, 1},
		{domain.CommunitiesQuery{Decade: 1950}, 0},
		{domain.CommunitiesQuery{Limit: 1}, 1},
	}
	for _, tc := range cases {
		got, err := s.SearchCommunities(ctx, tc.q)
		if err != nil {
			t.Fatalf("%+v: %v", tc.q, err)
		}
		if got == nil || len(got) != tc.want {
			t.Fatalf("%+v: expected %d, got %d", tc.q, tc.want, len(got))
		}
	}
}

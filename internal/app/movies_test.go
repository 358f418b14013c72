package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinefilia/internal/app"
	"cinefilia/internal/domain"
)

func TestGetMovie_CacheMissThenHit(t *testing.T) {
	cat := newCatalog()
	cache := &fakeCache{}
	s := app.NewMovieService(cat, cache, 10*time.Minute)

	// miss populates the cache
	m, err := s.GetMovie(context.Background(), 603)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if m.OriginalTitle != "The Matrix" {
		t.Fatalf("unexpected movie: %+v", m)
	}
	if !cache.has("movie:603") {
		t.Fatalf("expected movie to be cached")
	}

	// hit is served without the catalog
	cat.Err = errors.New("tmdb down")
	m, err = s.GetMovie(context.Background(), 603)
	if err != nil {
		t.Fatalf("expected cached movie, got err: %v", err)
	}
	if m.ID != 603 || cat.Calls != 1 {
		t.Fatalf("unexpected: %+v calls=%d", m, cat.Calls)
	}
}

func TestGetMovie_NotFoundIsNotCached(t *testing.T) {
	cache := &fakeCache{}
	s := app.NewMovieService(newCatalog(), cache, time.Minute)

	_, err := s.GetMovie(context.Background(), 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if cache.has("movie:1") {
		t.Fatalf("errors must not be cached")
	}
	if _, err := s.GetMovie(context.Background(), 0); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for id 0, got %v", err)
	}
}

func TestSearch_EmptyQuerySkipsCatalog(t *testing.T) {
	cat := newCatalog()
	s := app.NewMovieService(cat, &fakeCache{}, time.Minute)

	page, err := s.SearchMovies(context.Background(), "   ", 3)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if page.Results == nil || len(page.Results) != 0 || page.Page != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	people, err := s.SearchPeople(context.Background(), "", 1)
	if err != nil || people.Results == nil || len(people.Results) != 0 {
		t.Fatalf("unexpected people page: %+v err=%v", people, err)
	}
	if cat.Calls != 0 {
		t.Fatalf("catalog must not be called, got %d calls", cat.Calls)
	}
}

func TestSearch_CachedPerQueryAndPage(t *testing.T) {
	cat := newCatalog()
	cache := &fakeCache{}
	s := app.NewMovieService(cat, cache, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.SearchMovies(ctx, "Matrix", 0); err != nil {
			t.Fatalf("err: %v", err)
		}
	}
	if cat.Calls != 1 {
		t.Fatalf("expected one catalog call, got %d", cat.Calls)
	}
	if !cache.has("movies:search:matrix:1") {
		t.Fatalf("expected normalised search key")
	}
	if _, err := s.NowPlaying(ctx, 2); err != nil {
		t.Fatalf("err: %v", err)
	}
	if !cache.has("movies:now_playing:2") {
		t.Fatalf("expected now playing page to be cached")
	}
	if _, err := s.GetPerson(ctx, 138); err != nil {
		t.Fatalf("err: %v", err)
	}
	if !cache.has("person:138") {
		t.Fatalf("expected person to be cached")
	}
}

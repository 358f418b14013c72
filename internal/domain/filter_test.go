package domain_test

import (
	"testing"
	"time"

	"cinefilia/internal/domain"
)

func reviewsFixture() []domain.Review {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Review{
		{ID: "a", Author: "u1", MovieAPIID: 603, MovieTitle: "The Matrix", LikesCounter: 2, CreatedAt: base},
		{ID: "b", Author: "u2", MovieAPIID: 550, MovieTitle: "Fight Club", LikesCounter: 9, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Author: "u1", MovieAPIID: 604, MovieTitle: "The Matrix Reloaded", LikesCounter: 5, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func ids(rs []domain.Review) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestFilterReviews(t *testing.T) {
	cases := []struct {
		name string
		q    domain.ReviewsQuery
		want []string
	}{
		{"all newest first", domain.ReviewsQuery{Filter: domain.FilterAll}, []string{"c", "b", "a"}},
		{"top by likes", domain.ReviewsQuery{Filter: domain.FilterTop}, []string{"b", "c", "a"}},
		{"movie title case-insensitive", domain.ReviewsQuery{Movie: "matrix"}, []string{"c", "a"}},
		{"author", domain.ReviewsQuery{Author: "u2"}, []string{"b"}},
		{"movie id", domain.ReviewsQuery{MovieAPIID: 603}, []string{"a"}},
		{"limit", domain.ReviewsQuery{Filter: domain.FilterTop, Limit: 1}, []string{"b"}},
		{"no match", domain.ReviewsQuery{Movie: "alien"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(domain.FilterReviews(reviewsFixture(), tc.q))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestFilterReviews_DoesNotReorderInput(t *testing.T) {
	in := reviewsFixture()
	_ = domain.FilterReviews(in, domain.ReviewsQuery{Filter: domain.FilterTop})
	if in[0].ID != "a" || in[2].ID != "c" {
		t.Fatalf("input reordered: %v", ids(in))
	}
}

func TestFilterCommunities(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cs := []domain.Community{
		{ID: "1", Title: "Noir lovers", Genres: []string{"Crime"}, Decades: []int{1940}, Users: []string{"u1"}, CreatedAt: base},
		{ID: "2", Title: "Sci-fi club", Description: "Space and noir-ish future", Genres: []string{"Science Fiction"}, Decades: []int{1980}, Users: []string{"u2"}, CreatedAt: base.Add(time.Hour)},
	}

	if got := domain.FilterCommunities(cs, domain.CommunitiesQuery{Q: "NOIR"}); len(got) != 2 || got[0].ID != "2" {
		t.Fatalf("query: unexpected %+v", got)
	}
	if got := domain.FilterCommunities(cs, domain.CommunitiesQuery{Genre: "crime"}); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("genre: unexpected %+v", got)
	}
	if got := domain.FilterCommunities(cs, domain.CommunitiesQuery{Decade: 1980}); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("decade: unexpected %+v", got)
	}
	if got := domain.FilterCommunities(cs, domain.CommunitiesQuery{Member: "u1"}); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("member: unexpected %+v", got)
	}
}

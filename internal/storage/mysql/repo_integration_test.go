//go:build integration

package mysql_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinefilia/internal/domain"
	mysqlrepo "cinefilia/internal/storage/mysql"
	"cinefilia/internal/testkit"
)

func TestRepo_MySQL_UsersReviewsLikes(t *testing.T) {
	repo := mysqlrepo.New(testkit.StartMySQL(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	ana := domain.User{ID: "00000000-0000-0000-0000-000000000001", Username: "ana", Email: "ana@x.io", PasswordHash: "h", CreatedAt: now}
	bob := domain.User{ID: "00000000-0000-0000-0000-000000000002", Username: "bob", Email: "bob@x.io", PasswordHash: "h", CreatedAt: now}
	require.NoError(t, repo.CreateUser(ctx, ana))
	require.NoError(t, repo.CreateUser(ctx, bob))
	assert.ErrorIs(t, repo.CreateUser(ctx, domain.User{ID: "x", Username: "ana", Email: "z@x.io", PasswordHash: "h", CreatedAt: now}), domain.ErrConflict)

	r1 := domain.Review{ID: "r1", Author: ana.ID, MovieAPIID: 603, MovieTitle: "The Matrix", Content: "Whoa", Rate: 9, CreatedAt: now, UpdatedAt: now}
	r2 := domain.Review{ID: "r2", Author: bob.ID, MovieAPIID: 550, MovieTitle: "100%_Fight Club", Content: "Rule 1", Rate: 8, CreatedAt: now.Add(time.Second), UpdatedAt: now}
	require.NoError(t, repo.CreateReview(ctx, r1))
	require.NoError(t, repo.CreateReview(ctx, r2))

	added, err := repo.AddLike(ctx, "r1", bob.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = repo.AddLike(ctx, "r1", bob.ID)
	require.NoError(t, err)
	assert.False(t, added)
	_, err = repo.AddLike(ctx, "missing", bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.ListReviews(ctx, domain.ReviewsQuery{Filter: domain.FilterAll, Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "r2", all[0].ID)

	top, err := repo.ListReviews(ctx, domain.ReviewsQuery{Filter: domain.FilterTop, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "r1", top[0].ID)
	assert.Equal(t, 1, top[0].LikesCounter)

	byTitle, err := repo.ListReviews(ctx, domain.ReviewsQuery{Movie: "matrix", Limit: 10})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)

	// wildcard characters are matched literally
	literal, err := repo.ListReviews(ctx, domain.ReviewsQuery{Movie: "0%_f", Limit: 10})
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, "r2", literal[0].ID)

	r1.Content = "edited"
	require.NoError(t, repo.UpdateReview(ctx, r1))
	got, err := repo.GetReview(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)
	assert.Equal(t, 1, got.LikesCounter)

	ids, err := repo.ReviewedMovieIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{550, 603}, ids)

	require.NoError(t, repo.DeleteReview(ctx, "r1"))
	assert.ErrorIs(t, repo.DeleteReview(ctx, "r1"), domain.ErrNotFound)
}

func TestRepo_MySQL_Communities(t *testing.T) {
	repo := mysqlrepo.New(testkit.StartMySQL(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	owner := domain.User{ID: "o", Username: "owner", Email: "o@x.io", PasswordHash: "h", CreatedAt: now}
	fan := domain.User{ID: "f", Username: "fan", Email: "f@x.io", PasswordHash: "h", CreatedAt: now}
	require.NoError(t, repo.CreateUser(ctx, owner))
	require.NoError(t, repo.CreateUser(ctx, fan))

	c := domain.Community{
		ID: "c1", Title: "Noir", Description: "Shadows", Genres: []string{"Crime"}, Decades: []int{1940, 1950},
		FetishActors: []int64{4110}, FetishDirectors: []int64{}, MoviesAPIIDs: []int64{289, 963},
		Users: []string{"o"}, Owner: "o", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.CreateCommunity(ctx, c))

	added, err := repo.AddMember(ctx, "c1", "f")
	require.NoError(t, err)
	assert.True(t, added)

	got, err := repo.GetCommunity(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []int{1940, 1950}, got.Decades)
	assert.ElementsMatch(t, []string{"o", "f"}, got.Users)

	for _, q := range []domain.CommunitiesQuery{
		{Q: "noir"}, {Genre: "crime"}, {Decade: 1950}, {Member: "f"},
	} {
		cs, err := repo.ListCommunities(ctx, q)
		require.NoError(t, err)
		assert.Len(t, cs, 1, "query %+v", q)
	}
	cs, err := repo.ListCommunities(ctx, domain.CommunitiesQuery{Decade: 1990})
	require.NoError(t, err)
	assert.Empty(t, cs)

	ids, err := repo.RecommendedMovieIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{289, 963}, ids)

	c.Title = "Neo-noir"
	c.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, repo.UpdateCommunity(ctx, c))
	assert.ErrorIs(t, repo.UpdateCommunity(ctx, domain.Community{ID: "nope"}), domain.ErrNotFound)

	removed, err := repo.RemoveMember(ctx, "c1", "f")
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, repo.DeleteCommunity(ctx, "c1"))
	_, err = repo.GetCommunity(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinefilia/internal/domain"
	"cinefilia/internal/storage/memory"
)

func TestStore_UserUniqueness(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, domain.User{ID: "1", Username: "ana", Email: "ana@x.io"}))

	err := s.CreateUser(ctx, domain.User{ID: "2", Username: "ANA", Email: "other@x.io"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	err = s.CreateUser(ctx, domain.User{ID: "2", Username: "bob", Email: "Ana@X.io"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	u, err := s.GetUserByEmail(ctx, "ANA@x.io")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_LikesAreIdempotent(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.CreateReview(ctx, domain.Review{ID: "r", Author: "a", MovieAPIID: 1, CreatedAt: time.Now()}))

	added, err := s.AddLike(ctx, "r", "u1")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.AddLike(ctx, "r", "u1")
	require.NoError(t, err)
	assert.False(t, added)
	_, err = s.AddLike(ctx, "r", "u2")
	require.NoError(t, err)

	r, _ := s.GetReview(ctx, "r")
	assert.Equal(t, 2, r.LikesCounter)

	removed, err := s.RemoveLike(ctx, "r", "u1")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, _ = s.RemoveLike(ctx, "r", "u1")
	assert.False(t, removed)
	r, _ = s.GetReview(ctx, "r")
	assert.Equal(t, 1, r.LikesCounter)

	_, err = s.AddLike(ctx, "nope", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_UpdateReviewKeepsCounter(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.CreateReview(ctx, domain.Review{ID: "r", Author: "a", Content: "old", Rate: 3}))
	_, _ = s.AddLike(ctx, "r", "u1")

	require.NoError(t, s.UpdateReview(ctx, domain.Review{ID: "r", Content: "new", Rate: 9, LikesCounter: 0}))
	r, _ := s.GetReview(ctx, "r")
	assert.Equal(t, "new", r.Content)
	assert.Equal(t, 9, r.Rate)
	assert.Equal(t, 1, r.LikesCounter)
}

func TestStore_CommunityMembership(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.CreateCommunity(ctx, domain.Community{ID: "c", Owner: "o", MoviesAPIIDs: []int64{9, 3}}))

	c, err := s.GetCommunity(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"o"}, c.Users)

	added, err := s.AddMember(ctx, "c", "u")
	require.NoError(t, err)
	assert.True(t, added)
	added, _ = s.AddMember(ctx, "c", "u")
	assert.False(t, added)

	// returned copies are detached from the store
	c, _ = s.GetCommunity(ctx, "c")
	c.Users[0] = "mutated"
	c, _ = s.GetCommunity(ctx, "c")
	assert.Equal(t, []string{"o", "u"}, c.Users)

	ids, err := s.RecommendedMovieIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 9}, ids)

	require.NoError(t, s.UpdateCommunity(ctx, domain.Community{ID: "c", Title: "t", Owner: "someone-else"}))
	c, _ = s.GetCommunity(ctx, "c")
	assert.Equal(t, "o", c.Owner)
	assert.Equal(t, "t", c.Title)

	removed, err := s.RemoveMember(ctx, "c", "u")
	require.NoError(t, err)
	assert.True(t, removed)
}

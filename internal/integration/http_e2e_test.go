//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinefilia/internal/adapters/auth"
	server "cinefilia/internal/adapters/http_server"
	"cinefilia/internal/adapters/observability"
	redisad "cinefilia/internal/adapters/redis"
	"cinefilia/internal/adapters/tmdb"
	"cinefilia/internal/app"
	"cinefilia/internal/domain"
	mysqlrepo "cinefilia/internal/storage/mysql"
	"cinefilia/internal/testkit"
	"cinefilia/pkg/client"
)

// fakeTMDB answers /movie/{id} and /person/{id} from the testkit catalog.
func fakeTMDB(t *testing.T, hits *int32) *httptest.Server {
	cat := testkit.NewCatalog()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		var (
			v   any
			err error
		)
		switch {
		case strings.HasPrefix(r.URL.Path, "/movie/"):
			id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/movie/"), 10, 64)
			v, err = cat.GetMovie(r.Context(), id)
		case strings.HasPrefix(r.URL.Path, "/person/"):
			id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/person/"), 10, 64)
			v, err = cat.GetPerson(r.Context(), id)
		default:
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(v)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd(t *testing.T) {
	db := testkit.StartMySQL(t)
	repo := mysqlrepo.New(db)

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	var tmdbHits int32
	tmdbSrv := fakeTMDB(t, &tmdbHits)
	catalog, err := tmdb.New(tmdb.Options{BaseURL: tmdbSrv.URL, Token: "t", RPS: 100})
	require.NoError(t, err)

	tokens, err := auth.NewJWT("e2e-secret", time.Hour)
	require.NoError(t, err)
	movies := app.NewMovieService(catalog, cache, 10*time.Minute)

	srv := server.New(server.Options{})
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&server.Handlers{
		Users:       app.NewUserService(repo, tokens, auth.Bcrypt{}, observability.Events{}),
		Reviews:     app.NewReviewService(repo, repo, movies, observability.Events{}),
		Communities: app.NewCommunityService(repo, repo, movies, cache, 10*time.Minute, observability.Events{}),
		Movies:      movies,
	})
	api := httptest.NewServer(srv.Mux())
	t.Cleanup(api.Close)

	ctx := context.Background()
	ana := client.New(api.URL)
	_, err = ana.Auth.Signup(ctx, client.SignupInput{Username: "ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	bob := client.New(api.URL)
	_, err = bob.Auth.Signup(ctx, client.SignupInput{Username: "bob", Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	rate := 9
	r, err := ana.Reviews.Create(ctx, client.ReviewInput{MovieAPIID: 603, Content: "Whoa", Rate: &rate})
	require.NoError(t, err)
	assert.Equal(t, "Matrix", r.MovieTitle)

	liked, err := bob.Reviews.Like(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikesCounter)
	liked, err = bob.Reviews.Like(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikesCounter)

	// the movie is served from Redis after the first lookup
	before := atomic.LoadInt32(&tmdbHits)
	feed, err := bob.Reviews.Feed(ctx, client.ReviewsQuery{Filter: client.FilterTop})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.NotNil(t, feed[0].MovieData)
	assert.Equal(t, before, atomic.LoadInt32(&tmdbHits))

	c, err := ana.Communities.Create(ctx, client.CommunityInput{
		Title: "Wachowskis", Description: "Pastilla roja", Genres: []string{"Action"},
		Decades: []int{1990}, FetishActors: []int64{6384}, MoviesAPIIDs: []int64{603},
	})
	require.NoError(t, err)
	_, err = bob.Communities.Follow(ctx, c.ID)
	require.NoError(t, err)

	d, err := bob.Communities.Details(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, d.Users, 2)
	require.Len(t, d.FetishActors, 1)
	assert.True(t, mr.Exists("cinefilia:community:"+c.ID+":details"))

	found, err := bob.Communities.Search(ctx, client.CommunitiesQuery{Genre: "action", Decade: 1990})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = ana.Communities.Unfollow(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = bob.Communities.Unfollow(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, mr.Exists("cinefilia:community:"+c.ID+":details"))

	resp, err := http.Get(api.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

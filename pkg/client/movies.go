package client

import (
	"context"
	"net/url"
	"strconv"
)

// MoviesClient reads TMDB through the API's proxy.
type MoviesClient struct{ c *Client }

func pageValues(v url.Values, page int) url.Values {
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	return v
}

func (m *MoviesClient) Search(ctx context.Context, query string, page int) (MoviesPage, error) {
	var out MoviesPage
	err := m.c.get(ctx, "/api/movies/search", pageValues(url.Values{"query": {query}}, page), &out)
	return out, err
}

func (m *MoviesClient) NowPlaying(ctx context.Context, page int) (MoviesPage, error) {
	var out MoviesPage
	err := m.c.get(ctx, "/api/movies/now-playing", pageValues(url.Values{}, page), &out)
	return out, err
}

func (m *MoviesClient) Get(ctx context.Context, id int64) (Movie, error) {
	var out Movie
	err := m.c.get(ctx, "/api/movies/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

func (m *MoviesClient) SearchPeople(ctx context.Context, query string, page int) (PeoplePage, error) {
	var out PeoplePage
	err := m.c.get(ctx, "/api/people/search", pageValues(url.Values{"query": {query}}, page), &out)
	return out, err
}

func (m *MoviesClient) GetPerson(ctx context.Context, id int64) (Person, error) {
	var out Person
	err := m.c.get(ctx, "/api/people/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

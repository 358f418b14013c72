package client

import (
	"context"
	"net/url"
	"strconv"
)

type ReviewsClient struct{ c *Client }

func reviewsValues(q ReviewsQuery) url.Values {
	v := url.Values{}
	if q.Filter != "" {
		v.Set("filter", string(q.Filter))
	}
	if q.Movie != "" {
		v.Set("movie", q.Movie)
	}
	if q.Author != "" {
		v.Set("author", q.Author)
	}
	if q.MovieAPIID > 0 {
		v.Set("movieApiId", strconv.FormatInt(q.MovieAPIID, 10))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func (r *ReviewsClient) List(ctx context.Context, q ReviewsQuery) ([]Review, error) {
	var out []Review
	err := r.c.get(ctx, "/api/reviews", reviewsValues(q), &out)
	return out, err
}

// Feed is List with each review's author and movie attached.
func (r *ReviewsClient) Feed(ctx context.Context, q ReviewsQuery) ([]ReviewCard, error) {
	var out []ReviewCard
	err := r.c.get(ctx, "/api/reviews/feed", reviewsValues(q), &out)
	return out, err
}

func (r *ReviewsClient) Get(ctx context.Context, id string) (Review, error) {
	var out Review
	err := r.c.get(ctx, "/api/reviews/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (r *ReviewsClient) Create(ctx context.Context, in ReviewInput) (Review, error) {
	var out Review
	err := r.c.post(ctx, "/api/reviews", in, &out)
	return out, err
}

func (r *ReviewsClient) Edit(ctx context.Context, id string, p ReviewPatch) (Review, error) {
	var out Review
	err := r.c.put(ctx, "/api/reviews/"+url.PathEscape(id), p, &out)
	return out, err
}

func (r *ReviewsClient) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, "/api/reviews/"+url.PathEscape(id), nil)
}

func (r *ReviewsClient) Like(ctx context.Context, id string) (Review, error) {
	var out Review
	err := r.c.post(ctx, "/api/reviews/"+url.PathEscape(id)+"/like", nil, &out)
	return out, err
}

func (r *ReviewsClient) Unlike(ctx context.Context, id string) (Review, error) {
	var out Review
	err := r.c.delete(ctx, "/api/reviews/"+url.PathEscape(id)+"/like", &out)
	return out, err
}

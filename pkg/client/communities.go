package client

import (
	"context"
	"net/url"
	"strconv"
)

type CommunitiesClient struct{ c *Client }

func (cc *CommunitiesClient) List(ctx context.Context) ([]Community, error) {
	var out []Community
	err := cc.c.get(ctx, "/api/communities", nil, &out)
	return out, err
}

func (cc *CommunitiesClient) Search(ctx context.Context, q CommunitiesQuery) ([]Community, error) {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	if q.Genre != "" {
		v.Set("genre", q.Genre)
	}
	if q.Decade != 0 {
		v.Set("decade", strconv.Itoa(q.Decade))
	}
	if q.Member != "" {
		v.Set("member", q.Member)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	var out []Community
	err := cc.c.get(ctx, "/api/communities/search", v, &out)
	return out, err
}

func (cc *CommunitiesClient) Get(ctx context.Context, id string) (Community, error) {
	var out Community
	err := cc.c.get(ctx, "/api/communities/"+url.PathEscape(id), nil, &out)
	return out, err
}

// Details returns the community with members, movies and people resolved.
func (cc *CommunitiesClient) Details(ctx context.Context, id string) (CommunityDetails, error) {
	var out CommunityDetails
	err := cc.c.get(ctx, "/api/communities/details/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (cc *CommunitiesClient) Create(ctx context.Context, in CommunityInput) (Community, error) {
	var out Community
	err := cc.c.post(ctx, "/api/communities", in, &out)
	return out, err
}

func (cc *CommunitiesClient) Edit(ctx context.Context, id string, in CommunityInput) (Community, error) {
	var out Community
	err := cc.c.put(ctx, "/api/communities/"+url.PathEscape(id), in, &out)
	return out, err
}

func (cc *CommunitiesClient) Delete(ctx context.Context, id string) error {
	return cc.c.delete(ctx, "/api/communities/"+url.PathEscape(id), nil)
}

func (cc *CommunitiesClient) Follow(ctx context.Context, id string) (Community, error) {
	var out Community
	err := cc.c.post(ctx, "/api/communities/"+url.PathEscape(id)+"/follow", nil, &out)
	return out, err
}

func (cc *CommunitiesClient) Unfollow(ctx context.Context, id string) (Community, error) {
	var out Community
	err := cc.c.delete(ctx, "/api/communities/"+url.PathEscape(id)+"/follow", &out)
	return out, err
}

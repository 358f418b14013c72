package client

import (
	"context"
	"net/url"
	"strings"
)

type UsersClient struct{ c *Client }

func (u *UsersClient) Get(ctx context.Context, id string) (User, error) {
	var out User
	err := u.c.get(ctx, "/api/users/"+url.PathEscape(id), nil, &out)
	return out, err
}

// List fetches the given users in one round trip; no ids lists everyone.
func (u *UsersClient) List(ctx context.Context, ids ...string) ([]User, error) {
	var q url.Values
	if len(ids) > 0 {
		q = url.Values{"ids": {strings.Join(ids, ",")}}
	}
	var out []User
	err := u.c.get(ctx, "/api/users", q, &out)
	return out, err
}

func (u *UsersClient) Edit(ctx context.Context, id string, p UserPatch) (User, error) {
	var out User
	err := u.c.put(ctx, "/api/users/"+url.PathEscape(id), p, &out)
	return out, err
}

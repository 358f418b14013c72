package client

import "context"

type AuthClient struct{ c *Client }

// Signup creates the account and stores the returned session.
func (a *AuthClient) Signup(ctx context.Context, in SignupInput) (Session, error) {
	var s Session
	if err := a.c.post(ctx, "/api/auth/signup", in, &s); err != nil {
		return Session{}, err
	}
	return s, a.c.tokens.Save(s.AuthToken, s.User)
}

// Login stores the token and profile on success.
func (a *AuthClient) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	if err := a.c.post(ctx, "/api/auth/login", LoginInput{Email: email, Password: password}, &s); err != nil {
		return Session{}, err
	}
	return s, a.c.tokens.Save(s.AuthToken, s.User)
}

// Verify checks the stored token and returns its user. A rejected token is
// cleared from the store.
func (a *AuthClient) Verify(ctx context.Context) (User, error) {
	var u User
	err := a.c.get(ctx, "/api/auth/verify", nil, &u)
	if IsStatus(err, 401) {
		_ = a.c.tokens.Clear()
	}
	return u, err
}

func (a *AuthClient) Logout() error { return a.c.tokens.Clear() }

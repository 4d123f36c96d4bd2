package api

import (
	"context"
	"net/http"

	"leavectl/internal/model"
	"leavectl/internal/session"
)

// LoginResult is the payload of a successful login or code exchange.
type LoginResult struct {
	User         model.User `json:"user"`
	Token        string     `json:"token"`
	RefreshToken string     `json:"refreshToken"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with credentials and stores the issued token pair in
// the store selected by remember.
func (c *Client) Login(ctx context.Context, email, password string, remember bool) (LoginResult, error) {
	var result LoginResult
	req, err := c.newPublicRequest(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return LoginResult{}, classify(err, "Login failed")
	}
	if err := c.do(req, &result, "Login failed"); err != nil {
		return LoginResult{}, err
	}
	pair := session.TokenPair{Token: result.Token, RefreshToken: result.RefreshToken}
	if err := c.sessions.Set(pair, remember); err != nil {
		return LoginResult{}, classify(err, "Login failed")
	}
	return result, nil
}

// ExchangeOAuthCode completes the identity-provider redirect by trading the
// authorization code for a token pair. The remember-me choice recorded
// before the redirect decides where the pair lands.
func (c *Client) ExchangeOAuthCode(ctx context.Context, code string) (LoginResult, error) {
	var result LoginResult
	req, err := c.newPublicRequest(ctx, http.MethodPost, "/auth/oauth/callback", map[string]string{"code": code})
	if err != nil {
		return LoginResult{}, classify(err, "Sign-in failed")
	}
	if err := c.do(req, &result, "Sign-in failed"); err != nil {
		return LoginResult{}, err
	}
	pair := session.TokenPair{Token: result.Token, RefreshToken: result.RefreshToken}
	if err := c.sessions.Set(pair, c.sessions.RememberPreference()); err != nil {
		return LoginResult{}, classify(err, "Sign-in failed")
	}
	return result, nil
}

// Refresh trades the refresh token for a new pair. An irrecoverable refresh
// clears BOTH token stores unconditionally; any other process reading the
// persistent store is logged out as a consequence.
func (c *Client) Refresh(ctx context.Context) error {
	pair, ok := c.sessions.Get()
	if !ok || pair.RefreshToken == "" {
		return authRequired()
	}
	var result LoginResult
	req, err := c.newPublicRequest(ctx, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": pair.RefreshToken})
	if err != nil {
		return classify(err, "Session refresh failed")
	}
	if err := c.do(req, &result, "Session refresh failed"); err != nil {
		if IsSessionExpired(err) || IsForbidden(err) {
			_ = c.sessions.Clear()
		}
		return err
	}
	return c.sessions.Update(session.TokenPair{Token: result.Token, RefreshToken: result.RefreshToken})
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return model.User{}, classify(err, "Failed to load profile")
	}
	if err := c.do(req, &user, "Failed to load profile"); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Restore rebuilds a session from a persisted token: profile fetch first,
// one refresh attempt if the token has gone stale.
func (c *Client) Restore(ctx context.Context) (model.User, error) {
	user, err := c.Me(ctx)
	if err == nil {
		return user, nil
	}
	if !IsSessionExpired(err) {
		return model.User{}, err
	}
	if err := c.Refresh(ctx); err != nil {
		return model.User{}, err
	}
	return c.Me(ctx)
}

// Logout tells the server best-effort, then wipes both token stores
// unconditionally.
func (c *Client) Logout(ctx context.Context) error {
	if req, err := c.newRequest(ctx, http.MethodPost, "/auth/logout", nil); err == nil {
		_ = c.do(req, nil, "Logout failed")
	}
	return c.sessions.Clear()
}

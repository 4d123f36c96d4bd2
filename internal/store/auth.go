package store

import (
	"context"
	"log/slog"
	"sync"

	"leavectl/internal/api"
	"leavectl/internal/model"
	"leavectl/internal/session"
)

// Auth owns the session slice: the signed-in user, the authenticated flag,
// and the login/restore lifecycle.
type Auth struct {
	signal
	client *api.Client
	log    *slog.Logger

	mu            sync.RWMutex
	user          model.User
	authenticated bool
	loading       bool
	err           string
}

func newAuth(client *api.Client, log *slog.Logger) *Auth {
	return &Auth{client: client, log: log}
}

func (s *Auth) Login(ctx context.Context, email, password string, remember bool) error {
	s.setLoading(true)
	result, err := s.client.Login(ctx, email, password, remember)
	if err != nil {
		s.fail(err)
		return err
	}
	s.fulfill(result.User)
	return nil
}

// ExchangeOAuthCode completes the identity-provider redirect.
func (s *Auth) ExchangeOAuthCode(ctx context.Context, code string) error {
	s.setLoading(true)
	result, err := s.client.ExchangeOAuthCode(ctx, code)
	if err != nil {
		s.fail(err)
		return err
	}
	s.fulfill(result.User)
	return nil
}

// Restore rebuilds the session from a persisted token. The guard calls this
// before redirecting an unauthenticated user to login.
func (s *Auth) Restore(ctx context.Context) error {
	if _, ok := s.client.Sessions().Get(); !ok {
		return &api.Error{Kind: api.KindAuthRequired, Message: "no stored session"}
	}
	s.setLoading(true)
	user, err := s.client.Restore(ctx)
	if err != nil {
		s.fail(err)
		return err
	}
	s.fulfill(user)
	return nil
}

// Logout clears the server session best-effort and both token stores
// unconditionally.
func (s *Auth) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	s.mu.Lock()
	s.user = model.User{}
	s.authenticated = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return err
}

// sessionExpired flips the authenticated flag so dependent UI can redirect
// to login. Reached from any store observing a 401.
func (s *Auth) sessionExpired() {
	s.mu.Lock()
	changed := s.authenticated
	s.authenticated = false
	s.mu.Unlock()
	if changed {
		s.log.Debug("session expired, flipping authenticated flag")
		s.notify()
	}
}

func (s *Auth) fulfill(user model.User) {
	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Auth) fail(err error) {
	msg, record := reject(s, err)
	s.mu.Lock()
	s.loading = false
	if record {
		s.err = msg
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Auth) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.notify()
}

func (s *Auth) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Auth) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.authenticated
}

// Role resolves the user's role for navigation scoping. When the profile
// has not been fetched yet it falls back to decoding the raw token claim.
// This is a display hint only; the server enforces authorization.
func (s *Auth) Role() string {
	s.mu.RLock()
	role := s.user.Role
	s.mu.RUnlock()
	if role != "" {
		return role
	}
	pair, ok := s.client.Sessions().Get()
	if !ok {
		return ""
	}
	claim, err := session.RoleFromToken(pair.Token)
	if err != nil {
		return ""
	}
	return claim
}

func (s *Auth) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Auth) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

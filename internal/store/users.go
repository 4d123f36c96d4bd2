package store

import (
	"context"
	"sync"

	"leavectl/internal/api"
	"leavectl/internal/fetch"
	"leavectl/internal/model"
)

// Users is the admin user-management slice.
type Users struct {
	signal
	client   *api.Client
	auth     *Auth
	registry *fetch.Registry

	mu       sync.RWMutex
	items    []model.User
	loading  bool
	creating bool
	updating bool
	deleting bool
	err      string
}

func newUsers(client *api.Client, auth *Auth, registry *fetch.Registry) *Users {
	return &Users{client: client, auth: auth, registry: registry}
}

// Fetch replaces the slice with the server's list. A newer Fetch supersedes
// an in-flight one.
func (s *Users) Fetch(ctx context.Context) error {
	ctx, done := s.registry.Begin(ctx, "users")
	defer done()

	s.setFlag(&s.loading, true)
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		s.fail(&s.loading, err)
		return err
	}
	s.mu.Lock()
	// A newer fetch may have superseded this one after the response settled;
	// its result must not land.
	if ctx.Err() != nil {
		s.loading = false
		s.mu.Unlock()
		s.notify()
		return ctx.Err()
	}
	s.items = users
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Users) Create(ctx context.Context, input api.UserInput) (model.User, error) {
	s.setFlag(&s.creating, true)
	user, err := s.client.CreateUser(ctx, input)
	if err != nil {
		s.fail(&s.creating, err)
		return model.User{}, err
	}
	s.mu.Lock()
	s.items = append(s.items, user)
	s.creating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return user, nil
}

func (s *Users) Update(ctx context.Context, id string, input api.UserInput) (model.User, error) {
	s.setFlag(&s.updating, true)
	user, err := s.client.UpdateUser(ctx, id, input)
	if err != nil {
		s.fail(&s.updating, err)
		return model.User{}, err
	}
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = user
			break
		}
	}
	s.updating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return user, nil
}

func (s *Users) Delete(ctx context.Context, id string) error {
	s.setFlag(&s.deleting, true)
	if err := s.client.DeleteUser(ctx, id); err != nil {
		s.fail(&s.deleting, err)
		return err
	}
	s.mu.Lock()
	kept := s.items[:0]
	for _, u := range s.items {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.items = kept
	s.deleting = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Users) All() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Users) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Users) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creating || s.updating || s.deleting
}

func (s *Users) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Users) setFlag(flag *bool, v bool) {
	s.mu.Lock()
	*flag = v
	s.mu.Unlock()
	s.notify()
}

func (s *Users) fail(flag *bool, err error) {
	msg, record := reject(s.auth, err)
	s.mu.Lock()
	*flag = false
	if record {
		s.err = msg
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Users) reset() {
	s.mu.Lock()
	s.items = nil
	s.loading, s.creating, s.updating, s.deleting = false, false, false, false
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

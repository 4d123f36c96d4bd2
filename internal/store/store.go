// Package store holds the client-side state slices. Each store owns the
// last successful fetch result for its domain, reduces operation outcomes
// into state under a mutex, and signals subscribers on every change. There
// is no reconciliation of concurrent mutations beyond patching the matching
// id in place or appending/filtering on success.
package store

import (
	"log/slog"
	"sync"

	"leavectl/internal/api"
	"leavectl/internal/fetch"
)

// Stores wires every domain store to one shared client, one supersession
// registry, and the auth store's session-expiry hook.
type Stores struct {
	Auth          *Auth
	Users         *Users
	Departments   *Departments
	Leave         *Leave
	Calendar      *Calendar
	Notifications *Notifications
	Reports       *Reports

	registry *fetch.Registry
}

func New(client *api.Client, log *slog.Logger) *Stores {
	if log == nil {
		log = slog.Default()
	}
	registry := fetch.NewRegistry()
	auth := newAuth(client, log)
	s := &Stores{
		Auth:          auth,
		Users:         newUsers(client, auth, registry),
		Departments:   newDepartments(client, auth, registry),
		Leave:         newLeave(client, auth, registry),
		Calendar:      newCalendar(client, auth, registry),
		Notifications: newNotifications(client, auth, registry),
		Reports:       newReports(client, auth, registry),
		registry:      registry,
	}
	return s
}

// Reset aborts in-flight fetches and drops all cached slices. Called on
// logout so the next login starts clean.
func (s *Stores) Reset() {
	s.registry.CancelAll()
	s.Users.reset()
	s.Departments.reset()
	s.Leave.reset()
	s.Calendar.reset()
	s.Notifications.reset()
	s.Reports.reset()
}

// signal is the subscriber list shared by every store.
type signal struct {
	mu   sync.Mutex
	subs []func()
}

// Subscribe registers fn to run after every state change. Callbacks run on
// the mutating goroutine and must not block.
func (s *signal) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *signal) notify() {
	s.mu.Lock()
	subs := s.subs
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// reject classifies a failed operation. Canceled requests are suppressed
// entirely; a session-expired failure additionally flips the auth store.
// The returned message is empty when nothing should be recorded.
func reject(auth *Auth, err error) (string, bool) {
	if api.IsCanceled(err) {
		return "", false
	}
	if api.IsSessionExpired(err) {
		auth.sessionExpired()
	}
	return err.Error(), true
}

package store

import (
	"context"
	"sync"

	"leavectl/internal/api"
	"leavectl/internal/fetch"
	"leavectl/internal/model"
)

// Notifications owns the notification list, the unread subset, and the
// unread counter. It is fed from two directions: REST fetches and the push
// channel's ApplyIncoming/SetUnreadCount.
type Notifications struct {
	signal
	client   *api.Client
	auth     *Auth
	registry *fetch.Registry

	mu          sync.RWMutex
	items       []model.Notification
	unread      []model.Notification
	unreadCount int
	loading     bool
	err         string
}

func newNotifications(client *api.Client, auth *Auth, registry *fetch.Registry) *Notifications {
	return &Notifications{client: client, auth: auth, registry: registry}
}

func (s *Notifications) Fetch(ctx context.Context) error {
	ctx, done := s.registry.Begin(ctx, "notifications")
	defer done()

	s.setLoading(true)
	notifications, err := s.client.ListNotifications(ctx)
	if err != nil {
		s.fail(err)
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
	s.items = notifications
	s.unread = s.unread[:0]
	for _, n := range notifications {
		if !n.IsRead {
			s.unread = append(s.unread, n)
		}
	}
	s.unreadCount = len(s.unread)
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

// ApplyIncoming merges a pushed notification: appended to the list if its id
// is unseen, and tracked as unread when applicable.
func (s *Notifications) ApplyIncoming(n model.Notification) {
	s.mu.Lock()
	seen := false
	for _, existing := range s.items {
		if existing.ID == n.ID {
			seen = true
			break
		}
	}
	if !seen {
		s.items = append([]model.Notification{n}, s.items...)
		if !n.IsRead {
			s.unread = append([]model.Notification{n}, s.unread...)
			s.unreadCount++
		}
	}
	s.mu.Unlock()
	s.notify()
}

// SetUnreadCount overwrites the counter from a push count-update frame.
func (s *Notifications) SetUnreadCount(count int) {
	s.mu.Lock()
	s.unreadCount = count
	s.mu.Unlock()
	s.notify()
}

// MarkReadLocal applies the optimistic read-state change: the notification
// leaves the unread list and the counter drops by one, without waiting for
// (or reconciling with) the server.
func (s *Notifications) MarkReadLocal(id string) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].IsRead = true
			break
		}
	}
	kept := s.unread[:0]
	removed := false
	for _, n := range s.unread {
		if n.ID == id {
			removed = true
			continue
		}
		kept = append(kept, n)
	}
	s.unread = kept
	if removed && s.unreadCount > 0 {
		s.unreadCount--
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Notifications) MarkAllReadLocal() {
	s.mu.Lock()
	for i := range s.items {
		s.items[i].IsRead = true
	}
	s.unread = nil
	s.unreadCount = 0
	s.mu.Unlock()
	s.notify()
}

// MarkRead is the REST path; the local patch mirrors the server outcome.
func (s *Notifications) MarkRead(ctx context.Context, id string) error {
	if err := s.client.MarkNotificationRead(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.MarkReadLocal(id)
	return nil
}

func (s *Notifications) MarkAllRead(ctx context.Context) error {
	if err := s.client.MarkAllNotificationsRead(ctx); err != nil {
		s.fail(err)
		return err
	}
	s.MarkAllReadLocal()
	return nil
}

func (s *Notifications) All() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Notification, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Notifications) Unread() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Notification, len(s.unread))
	copy(out, s.unread)
	return out
}

func (s *Notifications) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unreadCount
}

func (s *Notifications) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Notifications) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Notifications) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.notify()
}

func (s *Notifications) fail(err error) {
	msg, record := reject(s.auth, err)
	s.mu.Lock()
	s.loading = false
	if record {
		s.err = msg
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Notifications) reset() {
	s.mu.Lock()
	s.items, s.unread = nil, nil
	s.unreadCount = 0
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

package store

import (
	"context"
	"sync"
	"time"

	"leavectl/internal/api"
	"leavectl/internal/fetch"
	"leavectl/internal/model"
)

type Reports struct {
	signal
	client   *api.Client
	auth     *Auth
	registry *fetch.Registry

	mu      sync.RWMutex
	report  model.LeaveReport
	loaded  bool
	loading bool
	err     string
}

func newReports(client *api.Client, auth *Auth, registry *fetch.Registry) *Reports {
	return &Reports{client: client, auth: auth, registry: registry}
}

func (s *Reports) Fetch(ctx context.Context, from, to time.Time) error {
	ctx, done := s.registry.Begin(ctx, "reports.leave")
	defer done()

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.notify()

	report, err := s.client.LeaveSummary(ctx, from, to)
	if err != nil {
		msg, record := reject(s.auth, err)
		s.mu.Lock()
		s.loading = false
		if record {
			s.err = msg
		}
		s.mu.Unlock()
		s.notify()
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
	s.report = report
	s.loaded = true
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Reports) Report() (model.LeaveReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.loaded
}

func (s *Reports) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Reports) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Reports) reset() {
	s.mu.Lock()
	s.report = model.LeaveReport{}
	s.loaded = false
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

package store

import (
	"context"
	"sync"

	"leavectl/internal/api"
	"leavectl/internal/fetch"
	"leavectl/internal/model"
)

// Leave owns leave types, balances, and requests. Balances are displayed
// verbatim from the server; the client never recomputes available days.
type Leave struct {
	signal
	client   *api.Client
	auth     *Auth
	registry *fetch.Registry

	mu       sync.RWMutex
	types    []model.LeaveType
	balances []model.LeaveBalance
	requests []model.LeaveRequest
	loading  bool
	creating bool
	updating bool
	err      string
}

func newLeave(client *api.Client, auth *Auth, registry *fetch.Registry) *Leave {
	return &Leave{client: client, auth: auth, registry: registry}
}

func (s *Leave) FetchTypes(ctx context.Context) error {
	ctx, done := s.registry.Begin(ctx, "leave.types")
	defer done()

	s.setFlag(&s.loading, true)
	types, err := s.client.ListLeaveTypes(ctx)
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
	s.types = types
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Leave) CreateType(ctx context.Context, input api.LeaveTypeInput) (model.LeaveType, error) {
	s.setFlag(&s.creating, true)
	leaveType, err := s.client.CreateLeaveType(ctx, input)
	if err != nil {
		s.fail(&s.creating, err)
		return model.LeaveType{}, err
	}
	s.mu.Lock()
	s.types = append(s.types, leaveType)
	s.creating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return leaveType, nil
}

func (s *Leave) UpdateType(ctx context.Context, id string, input api.LeaveTypeInput) (model.LeaveType, error) {
	s.setFlag(&s.updating, true)
	leaveType, err := s.client.UpdateLeaveType(ctx, id, input)
	if err != nil {
		s.fail(&s.updating, err)
		return model.LeaveType{}, err
	}
	s.mu.Lock()
	for i := range s.types {
		if s.types[i].ID == id {
			s.types[i] = leaveType
			break
		}
	}
	s.updating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return leaveType, nil
}

func (s *Leave) DeleteType(ctx context.Context, id string) error {
	s.setFlag(&s.updating, true)
	if err := s.client.DeleteLeaveType(ctx, id); err != nil {
		s.fail(&s.updating, err)
		return err
	}
	s.mu.Lock()
	kept := s.types[:0]
	for _, t := range s.types {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.types = kept
	s.updating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Leave) FetchBalances(ctx context.Context, userID string, year int) error {
	ctx, done := s.registry.Begin(ctx, "leave.balances")
	defer done()

	s.setFlag(&s.loading, true)
	balances, err := s.client.LeaveBalances(ctx, userID, year)
	if err != nil {
		s.fail(&s.loading, err)
		return err
	}
	s.mu.Lock()
	if ctx.Err() != nil {
		s.loading = false
		s.mu.Unlock()
		s.notify()
		return ctx.Err()
	}
	s.balances = balances
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Leave) FetchRequests(ctx context.Context, status string) error {
	ctx, done := s.registry.Begin(ctx, "leave.requests")
	defer done()

	s.setFlag(&s.loading, true)
	requests, err := s.client.ListLeaveRequests(ctx, status)
	if err != nil {
		s.fail(&s.loading, err)
		return err
	}
	s.mu.Lock()
	if ctx.Err() != nil {
		s.loading = false
		s.mu.Unlock()
		s.notify()
		return ctx.Err()
	}
	s.requests = requests
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

// Apply submits a leave request without documents.
func (s *Leave) Apply(ctx context.Context, input api.LeaveRequestInput) (model.LeaveRequest, error) {
	return s.ApplyWithDocuments(ctx, input, nil)
}

// ApplyWithDocuments uploads first, then creates the request with the
// returned ids. When the upload fails, no request is created and the
// recorded error reflects the upload failure.
func (s *Leave) ApplyWithDocuments(ctx context.Context, input api.LeaveRequestInput, uploads []api.Upload) (model.LeaveRequest, error) {
	s.setFlag(&s.creating, true)
	request, err := s.client.CreateLeaveRequestWithDocuments(ctx, input, uploads)
	if err != nil {
		s.fail(&s.creating, err)
		return model.LeaveRequest{}, err
	}
	s.mu.Lock()
	s.requests = append(s.requests, request)
	s.creating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return request, nil
}

// SetStatus approves or rejects a pending request and patches it in place.
func (s *Leave) SetStatus(ctx context.Context, id, status, comment string) (model.LeaveRequest, error) {
	s.setFlag(&s.updating, true)
	request, err := s.client.UpdateLeaveRequestStatus(ctx, id, status, comment)
	if err != nil {
		s.fail(&s.updating, err)
		return model.LeaveRequest{}, err
	}
	s.mu.Lock()
	for i := range s.requests {
		if s.requests[i].ID == id {
			s.requests[i] = request
			break
		}
	}
	s.updating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return request, nil
}

func (s *Leave) Cancel(ctx context.Context, id string) error {
	s.setFlag(&s.updating, true)
	if err := s.client.CancelLeaveRequest(ctx, id); err != nil {
		s.fail(&s.updating, err)
		return err
	}
	s.mu.Lock()
	kept := s.requests[:0]
	for _, r := range s.requests {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.requests = kept
	s.updating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Leave) Types() []model.LeaveType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LeaveType, len(s.types))
	copy(out, s.types)
	return out
}

func (s *Leave) Balances() []model.LeaveBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LeaveBalance, len(s.balances))
	copy(out, s.balances)
	return out
}

func (s *Leave) Requests() []model.LeaveRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LeaveRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Leave) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Leave) Creating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creating
}

func (s *Leave) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Leave) setFlag(flag *bool, v bool) {
	s.mu.Lock()
	*flag = v
	s.mu.Unlock()
	s.notify()
}

func (s *Leave) fail(flag *bool, err error) {
	msg, record := reject(s.auth, err)
	s.mu.Lock()
	*flag = false
	if record {
		s.err = msg
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Leave) reset() {
	s.mu.Lock()
	s.types, s.balances, s.requests = nil, nil, nil
	s.loading, s.creating, s.updating = false, false, false
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

package store

import (
	"context"
	"sync"

	"leavectl/internal/api"
	"leavectl/internal/fetch"
	"leavectl/internal/model"
)

type Departments struct {
	signal
	client   *api.Client
	auth     *Auth
	registry *fetch.Registry

	mu       sync.RWMutex
	items    []model.Department
	loading  bool
	creating bool
	updating bool
	deleting bool
	err      string
}

func newDepartments(client *api.Client, auth *Auth, registry *fetch.Registry) *Departments {
	return &Departments{client: client, auth: auth, registry: registry}
}

func (s *Departments) Fetch(ctx context.Context) error {
	ctx, done := s.registry.Begin(ctx, "departments")
	defer done()

	s.setFlag(&s.loading, true)
	departments, err := s.client.ListDepartments(ctx)
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
	s.items = departments
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Departments) Create(ctx context.Context, input api.DepartmentInput) (model.Department, error) {
	s.setFlag(&s.creating, true)
	department, err := s.client.CreateDepartment(ctx, input)
	if err != nil {
		s.fail(&s.creating, err)
		return model.Department{}, err
	}
	s.mu.Lock()
	s.items = append(s.items, department)
	s.creating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return department, nil
}

func (s *Departments) Update(ctx context.Context, id string, input api.DepartmentInput) (model.Department, error) {
	s.setFlag(&s.updating, true)
	department, err := s.client.UpdateDepartment(ctx, id, input)
	if err != nil {
		s.fail(&s.updating, err)
		return model.Department{}, err
	}
	s.patch(department)
	return department, nil
}

func (s *Departments) Delete(ctx context.Context, id string) error {
	s.setFlag(&s.deleting, true)
	if err := s.client.DeleteDepartment(ctx, id); err != nil {
		s.fail(&s.deleting, err)
		return err
	}
	s.mu.Lock()
	kept := s.items[:0]
	for _, d := range s.items {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	s.items = kept
	s.deleting = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

// AssignHead and RemoveHead are separate operations from Update; the server
// owns the membership validation.
func (s *Departments) AssignHead(ctx context.Context, id, userID string) error {
	s.setFlag(&s.updating, true)
	department, err := s.client.AssignDepartmentHead(ctx, id, userID)
	if err != nil {
		s.fail(&s.updating, err)
		return err
	}
	s.patch(department)
	return nil
}

func (s *Departments) RemoveHead(ctx context.Context, id string) error {
	s.setFlag(&s.updating, true)
	department, err := s.client.RemoveDepartmentHead(ctx, id)
	if err != nil {
		s.fail(&s.updating, err)
		return err
	}
	s.patch(department)
	return nil
}

func (s *Departments) patch(department model.Department) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == department.ID {
			s.items[i] = department
			break
		}
	}
	s.updating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Departments) All() []model.Department {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Department, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Departments) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Departments) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Departments) setFlag(flag *bool, v bool) {
	s.mu.Lock()
	*flag = v
	s.mu.Unlock()
	s.notify()
}

func (s *Departments) fail(flag *bool, err error) {
	msg, record := reject(s.auth, err)
	s.mu.Lock()
	*flag = false
	if record {
		s.err = msg
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Departments) reset() {
	s.mu.Lock()
	s.items = nil
	s.loading, s.creating, s.updating, s.deleting = false, false, false, false
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

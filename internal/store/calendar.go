package store

import (
	"context"
	"sync"
	"time"

	"leavectl/internal/api"
	"leavectl/internal/fetch"
	"leavectl/internal/model"
)

// Calendar owns events and holidays. Event and holiday fetches supersede
// per operation key, not per parameter set.
type Calendar struct {
	signal
	client   *api.Client
	auth     *Auth
	registry *fetch.Registry

	mu       sync.RWMutex
	events   []model.CalendarEvent
	holidays []model.Holiday
	loading  bool
	creating bool
	updating bool
	err      string
}

func newCalendar(client *api.Client, auth *Auth, registry *fetch.Registry) *Calendar {
	return &Calendar{client: client, auth: auth, registry: registry}
}

// FetchEvents loads events for the visible range. A second call while one
// is pending cancels the first; only the newer result is committed.
func (s *Calendar) FetchEvents(ctx context.Context, from, to time.Time) error {
	ctx, done := s.registry.Begin(ctx, "calendar.events")
	defer done()

	s.setFlag(&s.loading, true)
	events, err := s.client.ListCalendarEvents(ctx, from, to)
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
	s.events = events
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Calendar) FetchHolidays(ctx context.Context, year int) error {
	ctx, done := s.registry.Begin(ctx, "calendar.holidays")
	defer done()

	s.setFlag(&s.loading, true)
	holidays, err := s.client.ListHolidays(ctx, year)
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
	s.holidays = holidays
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Calendar) CreateEvent(ctx context.Context, input api.CalendarEventInput) (model.CalendarEvent, error) {
	s.setFlag(&s.creating, true)
	event, err := s.client.CreateCalendarEvent(ctx, input)
	if err != nil {
		s.fail(&s.creating, err)
		return model.CalendarEvent{}, err
	}
	s.mu.Lock()
	s.events = append(s.events, event)
	s.creating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return event, nil
}

func (s *Calendar) UpdateEvent(ctx context.Context, id string, input api.CalendarEventInput) (model.CalendarEvent, error) {
	s.setFlag(&s.updating, true)
	event, err := s.client.UpdateCalendarEvent(ctx, id, input)
	if err != nil {
		s.fail(&s.updating, err)
		return model.CalendarEvent{}, err
	}
	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i] = event
			break
		}
	}
	s.updating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return event, nil
}

func (s *Calendar) DeleteEvent(ctx context.Context, id string) error {
	s.setFlag(&s.updating, true)
	if err := s.client.DeleteCalendarEvent(ctx, id); err != nil {
		s.fail(&s.updating, err)
		return err
	}
	s.mu.Lock()
	kept := s.events[:0]
	for _, e := range s.events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.events = kept
	s.updating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Calendar) CreateHoliday(ctx context.Context, input api.HolidayInput) (model.Holiday, error) {
	s.setFlag(&s.creating, true)
	holiday, err := s.client.CreateHoliday(ctx, input)
	if err != nil {
		s.fail(&s.creating, err)
		return model.Holiday{}, err
	}
	s.mu.Lock()
	s.holidays = append(s.holidays, holiday)
	s.creating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return holiday, nil
}

func (s *Calendar) DeleteHoliday(ctx context.Context, id string) error {
	s.setFlag(&s.updating, true)
	if err := s.client.DeleteHoliday(ctx, id); err != nil {
		s.fail(&s.updating, err)
		return err
	}
	s.mu.Lock()
	kept := s.holidays[:0]
	for _, h := range s.holidays {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	s.holidays = kept
	s.updating = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Calendar) Events() []model.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CalendarEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Calendar) Holidays() []model.Holiday {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Holiday, len(s.holidays))
	copy(out, s.holidays)
	return out
}

func (s *Calendar) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Calendar) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Calendar) setFlag(flag *bool, v bool) {
	s.mu.Lock()
	*flag = v
	s.mu.Unlock()
	s.notify()
}

func (s *Calendar) fail(flag *bool, err error) {
	msg, record := reject(s.auth, err)
	s.mu.Lock()
	*flag = false
	if record {
		s.err = msg
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Calendar) reset() {
	s.mu.Lock()
	s.events, s.holidays = nil, nil
	s.loading, s.creating, s.updating = false, false, false
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

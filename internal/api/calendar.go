package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"leavectl/internal/model"
)

type CalendarEventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Type        string    `json:"type"`
}

type HolidayInput struct {
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	Recurring bool      `json:"recurring"`
}

// ListCalendarEvents fetches events overlapping [from, to].
func (c *Client) ListCalendarEvents(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	query := url.Values{}
	query.Set("from", from.Format(time.RFC3339))
	query.Set("to", to.Format(time.RFC3339))
	req, err := c.newRequest(ctx, http.MethodGet, "/calendar/events?"+query.Encode(), nil)
	if err != nil {
		return nil, classify(err, "Failed to load calendar events")
	}
	if err := c.do(req, &events, "Failed to load calendar events"); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) CreateCalendarEvent(ctx context.Context, input CalendarEventInput) (model.CalendarEvent, error) {
	var event model.CalendarEvent
	req, err := c.newRequest(ctx, http.MethodPost, "/calendar/events", input)
	if err != nil {
		return model.CalendarEvent{}, classify(err, "Failed to create event")
	}
	if err := c.do(req, &event, "Failed to create event"); err != nil {
		return model.CalendarEvent{}, err
	}
	return event, nil
}

func (c *Client) UpdateCalendarEvent(ctx context.Context, id string, input CalendarEventInput) (model.CalendarEvent, error) {
	var event model.CalendarEvent
	req, err := c.newRequest(ctx, http.MethodPut, "/calendar/events/"+id, input)
	if err != nil {
		return model.CalendarEvent{}, classify(err, "Failed to update event")
	}
	if err := c.do(req, &event, "Failed to update event"); err != nil {
		return model.CalendarEvent{}, err
	}
	return event, nil
}

func (c *Client) DeleteCalendarEvent(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/calendar/events/"+id, nil)
	if err != nil {
		return classify(err, "Failed to delete event")
	}
	return c.do(req, nil, "Failed to delete event")
}

func (c *Client) ListHolidays(ctx context.Context, year int) ([]model.Holiday, error) {
	var holidays []model.Holiday
	query := url.Values{}
	if year > 0 {
		query.Set("year", strconv.Itoa(year))
	}
	path := "/calendar/holidays"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, classify(err, "Failed to load holidays")
	}
	if err := c.do(req, &holidays, "Failed to load holidays"); err != nil {
		return nil, err
	}
	return holidays, nil
}

func (c *Client) CreateHoliday(ctx context.Context, input HolidayInput) (model.Holiday, error) {
	var holiday model.Holiday
	req, err := c.newRequest(ctx, http.MethodPost, "/calendar/holidays", input)
	if err != nil {
		return model.Holiday{}, classify(err, "Failed to create holiday")
	}
	if err := c.do(req, &holiday, "Failed to create holiday"); err != nil {
		return model.Holiday{}, err
	}
	return holiday, nil
}

func (c *Client) DeleteHoliday(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/calendar/holidays/"+id, nil)
	if err != nil {
		return classify(err, "Failed to delete holiday")
	}
	return c.do(req, nil, "Failed to delete holiday")
}

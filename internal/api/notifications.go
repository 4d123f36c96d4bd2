package api

import (
	"context"
	"net/http"

	"leavectl/internal/model"
)

func (c *Client) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var notifications []model.Notification
	req, err := c.newRequest(ctx, http.MethodGet, "/notifications", nil)
	if err != nil {
		return nil, classify(err, "Failed to load notifications")
	}
	if err := c.do(req, &notifications, "Failed to load notifications"); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) UnreadNotifications(ctx context.Context) ([]model.Notification, error) {
	var notifications []model.Notification
	req, err := c.newRequest(ctx, http.MethodGet, "/notifications/unread", nil)
	if err != nil {
		return nil, classify(err, "Failed to load notifications")
	}
	if err := c.do(req, &notifications, "Failed to load notifications"); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead is the REST fallback for the push-channel command of
// the same name.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodPut, "/notifications/"+id+"/read", nil)
	if err != nil {
		return classify(err, "Failed to mark notification as read")
	}
	return c.do(req, nil, "Failed to mark notification as read")
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPut, "/notifications/read-all", nil)
	if err != nil {
		return classify(err, "Failed to mark notifications as read")
	}
	return c.do(req, nil, "Failed to mark notifications as read")
}

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"leavectl/internal/model"
)

type LeaveTypeInput struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	MaxDays     float64 `json:"maxDays"`
	AccrualRate float64 `json:"accrualRate"`
	RequiresDoc bool    `json:"requiresDoc"`
}

type LeaveRequestInput struct {
	LeaveTypeID string    `json:"leaveTypeId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	HalfDay     bool      `json:"halfDay"`
	Reason      string    `json:"reason"`
	DocumentIDs []string  `json:"documentIds,omitempty"`
}

func (c *Client) ListLeaveTypes(ctx context.Context) ([]model.LeaveType, error) {
	var types []model.LeaveType
	req, err := c.newRequest(ctx, http.MethodGet, "/leave/types", nil)
	if err != nil {
		return nil, classify(err, "Failed to load leave types")
	}
	if err := c.do(req, &types, "Failed to load leave types"); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) CreateLeaveType(ctx context.Context, input LeaveTypeInput) (model.LeaveType, error) {
	var leaveType model.LeaveType
	req, err := c.newRequest(ctx, http.MethodPost, "/leave/types", input)
	if err != nil {
		return model.LeaveType{}, classify(err, "Failed to create leave type")
	}
	if err := c.do(req, &leaveType, "Failed to create leave type"); err != nil {
		return model.LeaveType{}, err
	}
	return leaveType, nil
}

func (c *Client) UpdateLeaveType(ctx context.Context, id string, input LeaveTypeInput) (model.LeaveType, error) {
	var leaveType model.LeaveType
	req, err := c.newRequest(ctx, http.MethodPut, "/leave/types/"+id, input)
	if err != nil {
		return model.LeaveType{}, classify(err, "Failed to update leave type")
	}
	if err := c.do(req, &leaveType, "Failed to update leave type"); err != nil {
		return model.LeaveType{}, err
	}
	return leaveType, nil
}

func (c *Client) DeleteLeaveType(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/leave/types/"+id, nil)
	if err != nil {
		return classify(err, "Failed to delete leave type")
	}
	return c.do(req, nil, "Failed to delete leave type")
}

// LeaveBalances fetches the caller's balances for a year. Available days are
// server-derived and displayed verbatim.
func (c *Client) LeaveBalances(ctx context.Context, userID string, year int) ([]model.LeaveBalance, error) {
	var balances []model.LeaveBalance
	path := "/leave/balances?userId=" + userID + "&year=" + strconv.Itoa(year)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, classify(err, "Failed to load leave balances")
	}
	if err := c.do(req, &balances, "Failed to load leave balances"); err != nil {
		return nil, err
	}
	return balances, nil
}

func (c *Client) ListLeaveRequests(ctx context.Context, status string) ([]model.LeaveRequest, error) {
	var requests []model.LeaveRequest
	path := "/leave/requests"
	if status != "" {
		path += "?status=" + status
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, classify(err, "Failed to load leave requests")
	}
	if err := c.do(req, &requests, "Failed to load leave requests"); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) CreateLeaveRequest(ctx context.Context, input LeaveRequestInput) (model.LeaveRequest, error) {
	var request model.LeaveRequest
	req, err := c.newRequest(ctx, http.MethodPost, "/leave/requests", input)
	if err != nil {
		return model.LeaveRequest{}, classify(err, "Failed to submit leave request")
	}
	if err := c.do(req, &request, "Failed to submit leave request"); err != nil {
		return model.LeaveRequest{}, err
	}
	return request, nil
}

// UploadLeaveDocuments sends supporting documents and returns their ids.
func (c *Client) UploadLeaveDocuments(ctx context.Context, uploads []Upload) ([]model.LeaveDocument, error) {
	var documents []model.LeaveDocument
	req, err := c.newUploadRequest(ctx, "/leave/documents", uploads, nil)
	if err != nil {
		return nil, classify(err, "Failed to upload documents")
	}
	if err := c.do(req, &documents, "Failed to upload documents"); err != nil {
		return nil, err
	}
	return documents, nil
}

// CreateLeaveRequestWithDocuments is the one compound operation in the
// client: upload first, then create with the returned document ids. An
// upload failure short-circuits; no request is created.
func (c *Client) CreateLeaveRequestWithDocuments(ctx context.Context, input LeaveRequestInput, uploads []Upload) (model.LeaveRequest, error) {
	if len(uploads) > 0 {
		documents, err := c.UploadLeaveDocuments(ctx, uploads)
		if err != nil {
			return model.LeaveRequest{}, err
		}
		ids := make([]string, 0, len(documents))
		for _, doc := range documents {
			ids = append(ids, doc.ID)
		}
		input.DocumentIDs = ids
	}
	return c.CreateLeaveRequest(ctx, input)
}

// UpdateLeaveRequestStatus approves or rejects a pending request. The
// transition is terminal; the server rejects updates to settled requests.
func (c *Client) UpdateLeaveRequestStatus(ctx context.Context, id, status, comment string) (model.LeaveRequest, error) {
	var request model.LeaveRequest
	payload := map[string]string{"status": status, "comment": comment}
	req, err := c.newRequest(ctx, http.MethodPut, "/leave/requests/"+id+"/status", payload)
	if err != nil {
		return model.LeaveRequest{}, classify(err, "Failed to update leave request")
	}
	if err := c.do(req, &request, "Failed to update leave request"); err != nil {
		return model.LeaveRequest{}, err
	}
	return request, nil
}

func (c *Client) CancelLeaveRequest(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/leave/requests/"+id, nil)
	if err != nil {
		return classify(err, "Failed to cancel leave request")
	}
	return c.do(req, nil, "Failed to cancel leave request")
}

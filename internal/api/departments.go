package api

import (
	"context"
	"net/http"

	"leavectl/internal/model"
)

type DepartmentInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (c *Client) ListDepartments(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	req, err := c.newRequest(ctx, http.MethodGet, "/departments", nil)
	if err != nil {
		return nil, classify(err, "Failed to load departments")
	}
	if err := c.do(req, &departments, "Failed to load departments"); err != nil {
		return nil, err
	}
	return departments, nil
}

func (c *Client) CreateDepartment(ctx context.Context, input DepartmentInput) (model.Department, error) {
	var department model.Department
	req, err := c.newRequest(ctx, http.MethodPost, "/departments", input)
	if err != nil {
		return model.Department{}, classify(err, "Failed to create department")
	}
	if err := c.do(req, &department, "Failed to create department"); err != nil {
		return model.Department{}, err
	}
	return department, nil
}

func (c *Client) UpdateDepartment(ctx context.Context, id string, input DepartmentInput) (model.Department, error) {
	var department model.Department
	req, err := c.newRequest(ctx, http.MethodPut, "/departments/"+id, input)
	if err != nil {
		return model.Department{}, classify(err, "Failed to update department")
	}
	if err := c.do(req, &department, "Failed to update department"); err != nil {
		return model.Department{}, err
	}
	return department, nil
}

func (c *Client) DeleteDepartment(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/departments/"+id, nil)
	if err != nil {
		return classify(err, "Failed to delete department")
	}
	return c.do(req, nil, "Failed to delete department")
}

// AssignDepartmentHead is a distinct operation from UpdateDepartment; the
// server validates the head belongs to the department.
func (c *Client) AssignDepartmentHead(ctx context.Context, id, userID string) (model.Department, error) {
	var department model.Department
	req, err := c.newRequest(ctx, http.MethodPost, "/departments/"+id+"/head", map[string]string{"userId": userID})
	if err != nil {
		return model.Department{}, classify(err, "Failed to assign department head")
	}
	if err := c.do(req, &department, "Failed to assign department head"); err != nil {
		return model.Department{}, err
	}
	return department, nil
}

func (c *Client) RemoveDepartmentHead(ctx context.Context, id string) (model.Department, error) {
	var department model.Department
	req, err := c.newRequest(ctx, http.MethodDelete, "/departments/"+id+"/head", nil)
	if err != nil {
		return model.Department{}, classify(err, "Failed to remove department head")
	}
	if err := c.do(req, &department, "Failed to remove department head"); err != nil {
		return model.Department{}, err
	}
	return department, nil
}

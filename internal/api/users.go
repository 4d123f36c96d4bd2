package api

import (
	"context"
	"net/http"

	"leavectl/internal/model"
)

// UserInput is the create/update payload for admin user management.
type UserInput struct {
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	DepartmentID string `json:"departmentId,omitempty"`
	ManagerID    string `json:"managerId,omitempty"`
	Password     string `json:"password,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	req, err := c.newRequest(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, classify(err, "Failed to load users")
	}
	if err := c.do(req, &users, "Failed to load users"); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (model.User, error) {
	var user model.User
	req, err := c.newRequest(ctx, http.MethodGet, "/users/"+id, nil)
	if err != nil {
		return model.User{}, classify(err, "Failed to load user")
	}
	if err := c.do(req, &user, "Failed to load user"); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) CreateUser(ctx context.Context, input UserInput) (model.User, error) {
	var user model.User
	req, err := c.newRequest(ctx, http.MethodPost, "/users", input)
	if err != nil {
		return model.User{}, classify(err, "Failed to create user")
	}
	if err := c.do(req, &user, "Failed to create user"); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, input UserInput) (model.User, error) {
	var user model.User
	req, err := c.newRequest(ctx, http.MethodPut, "/users/"+id, input)
	if err != nil {
		return model.User{}, classify(err, "Failed to update user")
	}
	if err := c.do(req, &user, "Failed to update user"); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/users/"+id, nil)
	if err != nil {
		return classify(err, "Failed to delete user")
	}
	return c.do(req, nil, "Failed to delete user")
}

// UpdateProfile updates the caller's own profile fields.
func (c *Client) UpdateProfile(ctx context.Context, firstName, lastName string) (model.User, error) {
	var user model.User
	payload := map[string]string{"firstName": firstName, "lastName": lastName}
	req, err := c.newRequest(ctx, http.MethodPut, "/auth/me", payload)
	if err != nil {
		return model.User{}, classify(err, "Failed to update profile")
	}
	if err := c.do(req, &user, "Failed to update profile"); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// UploadProfilePicture sends the picture via the multipart variant and
// returns the updated user record.
func (c *Client) UploadProfilePicture(ctx context.Context, fileName, contentType string, data []byte) (model.User, error) {
	var user model.User
	uploads := []Upload{{Field: "picture", FileName: fileName, ContentType: contentType, Data: data}}
	req, err := c.newUploadRequest(ctx, "/auth/me/picture", uploads, nil)
	if err != nil {
		return model.User{}, classify(err, "Failed to upload picture")
	}
	if err := c.do(req, &user, "Failed to upload picture"); err != nil {
		return model.User{}, err
	}
	return user, nil
}

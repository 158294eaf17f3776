package apiclient

import (
	"context"
	"net/http"
	"strconv"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// users

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/user", nil, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/user/"+itoa(id), nil, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, u User) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPost, "/user", u, &out)
	return out, err
}

// UpdateUser replaces user id; u.ID must equal id.
func (c *Client) UpdateUser(ctx context.Context, id int64, u User) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPut, "/user/"+itoa(id), u, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/user/"+itoa(id), nil, nil)
}

// wastebins

func (c *Client) ListWastebins(ctx context.Context) ([]Wastebin, error) {
	var out []Wastebin
	err := c.do(ctx, http.MethodGet, "/wastebin", nil, &out)
	return out, err
}

func (c *Client) GetWastebin(ctx context.Context, id int64) (Wastebin, error) {
	var out Wastebin
	err := c.do(ctx, http.MethodGet, "/wastebin/"+itoa(id), nil, &out)
	return out, err
}

func (c *Client) ListWastebinsByUser(ctx context.Context, userID int64) ([]Wastebin, error) {
	var out []Wastebin
	err := c.do(ctx, http.MethodGet, "/wastebin/byUser/"+itoa(userID), nil, &out)
	return out, err
}

func (c *Client) CreateWastebin(ctx context.Context, w Wastebin) (Wastebin, error) {
	var out Wastebin
	err := c.do(ctx, http.MethodPost, "/wastebin/", w, &out)
	return out, err
}

func (c *Client) UpdateWastebin(ctx context.Context, id int64, w Wastebin) (Wastebin, error) {
	var out Wastebin
	err := c.do(ctx, http.MethodPut, "/wastebin/"+itoa(id), w, &out)
	return out, err
}

func (c *Client) DeleteWastebin(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/wastebin/"+itoa(id), nil, nil)
}

// feedback

func (c *Client) ListFeedback(ctx context.Context) ([]Feedback, error) {
	var out []Feedback
	err := c.do(ctx, http.MethodGet, "/feedback", nil, &out)
	return out, err
}

func (c *Client) GetFeedback(ctx context.Context, id int64) (Feedback, error) {
	var out Feedback
	err := c.do(ctx, http.MethodGet, "/feedback/"+itoa(id), nil, &out)
	return out, err
}

func (c *Client) ListFeedbackByUser(ctx context.Context, userID int64) ([]Feedback, error) {
	var out []Feedback
	err := c.do(ctx, http.MethodGet, "/feedback/byuser/"+itoa(userID), nil, &out)
	return out, err
}

func (c *Client) CreateFeedback(ctx context.Context, f Feedback) (Feedback, error) {
	var out Feedback
	err := c.do(ctx, http.MethodPost, "/feedback", f, &out)
	return out, err
}

func (c *Client) UpdateFeedback(ctx context.Context, id int64, f Feedback) (Feedback, error) {
	var out Feedback
	err := c.do(ctx, http.MethodPut, "/feedback/"+itoa(id), f, &out)
	return out, err
}

func (c *Client) DeleteFeedback(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/feedback/"+itoa(id), nil, nil)
}

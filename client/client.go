// Package client is a Go client for the task manager API. It mirrors
// the browser application's model: a REST client, local task and
// notification stores with derived views, and a WebSocket listener
// that keeps the stores in sync with server-side mutations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	notifdomain "github.com/example/task-manager/domain/notification"
	taskdomain "github.com/example/task-manager/domain/task"
)

// Client is a REST client for the task manager API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithToken sets the bearer token used for authenticated calls.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken updates the bearer token, e.g. after login or refresh.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Credentials is the login/register payload.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the API's user representation.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo"`
	Bio       string    `json:"bio"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// Tokens is the API's token pair representation.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Session is the result of a login or registration.
type Session struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// CreateTaskInput is the payload for task creation.
type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Status      string     `json:"status,omitempty"`
}

// UpdateTaskInput is the payload for a partial task update. Nil fields
// are not sent; present fields replace the stored value, including
// false and empty strings.
type UpdateTaskInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

// Register creates an account and stores the returned access token.
func (c *Client) Register(ctx context.Context, creds Credentials) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", creds, &session); err != nil {
		return nil, err
	}
	c.token = session.Tokens.AccessToken
	return &session, nil
}

// Login authenticates and stores the returned access token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	creds := Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", creds, &session); err != nil {
		return nil, err
	}
	c.token = session.Tokens.AccessToken
	return &session, nil
}

// Refresh exchanges a refresh token for a fresh pair and stores the new
// access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var resp struct {
		Tokens Tokens `json:"tokens"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/refresh", body, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Tokens.AccessToken
	return &resp.Tokens, nil
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/user", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, in CreateTaskInput) (*taskdomain.Task, error) {
	var resp struct {
		Task taskdomain.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/task/create", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// ListTasks fetches all of the caller's tasks.
func (c *Client) ListTasks(ctx context.Context) ([]taskdomain.Task, error) {
	var resp struct {
		Length int               `json:"length"`
		Tasks  []taskdomain.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// GetTask fetches one task.
func (c *Client) GetTask(ctx context.Context, id string) (*taskdomain.Task, error) {
	var resp struct {
		Task taskdomain.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/task/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id string, in UpdateTaskInput) (*taskdomain.Task, error) {
	var resp struct {
		Task taskdomain.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/task/"+id, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// DeleteTask removes a task and returns its last state.
func (c *Client) DeleteTask(ctx context.Context, id string) (*taskdomain.Task, error) {
	var resp struct {
		Task taskdomain.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/v1/task/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// TaskStatistics fetches the 30-day statistics aggregate.
func (c *Client) TaskStatistics(ctx context.Context) (*taskdomain.Statistics, error) {
	var stats taskdomain.Statistics
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/status", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateNotification persists a notification for the caller.
func (c *Client) CreateNotification(ctx context.Context, message, taskID string) (*notifdomain.Notification, error) {
	body := map[string]string{"message": message, "task_id": taskID}
	var resp struct {
		Notification notifdomain.Notification `json:"notification"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/create-notification", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Notification, nil
}

// ListNotifications fetches a user's notifications, newest first.
func (c *Client) ListNotifications(ctx context.Context, userID string) ([]notifdomain.Notification, error) {
	var resp struct {
		Notifications []notifdomain.Notification `json:"notifications"`
		Unread        int64                      `json:"unread"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/notifications/"+userID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

// MarkNotificationRead marks a notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) (*notifdomain.Notification, error) {
	var resp struct {
		Notification notifdomain.Notification `json:"notification"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/update-notification/"+id, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp.Notification, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Code = "unknown"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

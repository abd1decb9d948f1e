package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/valter-silva-au/taskboard/internal/logger"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

// ErrUnauthorized is returned when the backend rejects the stored token.
// The token has already been cleared when this error is returned.
var ErrUnauthorized = errors.New("unauthorized, please log in again")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TokenSource provides and forgets the bearer token.
type TokenSource interface {
	Load() (string, error)
	Clear() error
}

// APIClientConfig configures the backend client.
type APIClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	LoginPath string
	Headers   map[string]string
	Logger    logger.Logger
}

// APIClient talks to the task backend's REST API.
type APIClient struct {
	client    *resty.Client
	tokens    TokenSource
	loginPath string
	log       logger.Logger
}

// NewAPIClient creates an APIClient. tokens may be nil for unauthenticated use.
func NewAPIClient(cfg APIClientConfig, tokens TokenSource) *APIClient {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/api/login"
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryCondition)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if len(cfg.Headers) > 0 {
		client.SetHeaders(cfg.Headers)
	}

	c := &APIClient{
		client:    client,
		tokens:    tokens,
		loginPath: loginPath,
		log:       log.With("component", "api"),
	}
	client.OnBeforeRequest(c.authorize)
	return c
}

// authorize attaches the stored token to every request.
func (c *APIClient) authorize(_ *resty.Client, r *resty.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Load()
	if err != nil {
		return fmt.Errorf("loading token: %w", err)
	}
	if token != "" {
		r.SetAuthToken(token)
	}
	return nil
}

// retryCondition retries network errors, timeouts, throttling and server errors.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

// GetTasks returns every task record visible to the user.
func (c *APIClient) GetTasks(ctx context.Context) ([]models.RawTask, error) {
	var tasks []models.RawTask
	if err := c.do(ctx, c.client.R(), http.MethodGet, "/api/tasks", &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.RawTask{}
	}
	return tasks, nil
}

// GetProjects returns every project visible to the user.
func (c *APIClient) GetProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, c.client.R(), http.MethodGet, "/api/projects", &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// CreateTask posts a new task as a multipart form, with tags sent as
// tags[0], tags[1], ... fields.
func (c *APIClient) CreateTask(ctx context.Context, in models.TaskInput) (*models.RawTask, error) {
	form := map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"project_id":  in.ProjectID.String(),
		"due_date":    in.DueDate,
		"status":      string(in.Status),
	}
	for i, id := range in.TagIDs {
		form["tags["+strconv.Itoa(i)+"]"] = id.String()
	}

	var created models.RawTask
	req := c.client.R().SetMultipartFormData(form)
	if err := c.do(ctx, req, http.MethodPost, "/api/add-tasks", &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type updateTaskPayload struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ProjectID   models.ID   `json:"project_id,omitempty"`
	DueDate     string      `json:"due_date"`
	Status      string      `json:"status"`
	Tags        []models.ID `json:"tags"`
}

// UpdateTask replaces a task's editable fields with a JSON PUT.
func (c *APIClient) UpdateTask(ctx context.Context, id models.ID, in models.TaskInput) (*models.RawTask, error) {
	tags := in.TagIDs
	if tags == nil {
		tags = []models.ID{}
	}
	payload := updateTaskPayload{
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		DueDate:     in.DueDate,
		Status:      string(in.Status),
		Tags:        tags,
	}

	var updated models.RawTask
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if err := c.do(ctx, req, http.MethodPut, "/api/update-tasks/"+id.String(), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTask removes a task.
func (c *APIClient) DeleteTask(ctx context.Context, id models.ID) error {
	return c.do(ctx, c.client.R(), http.MethodDelete, "/api/delete-tasks/"+id.String(), nil)
}

type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a bearer token.
func (c *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password})
	if err := c.do(ctx, req, http.MethodPost, c.loginPath, &resp); err != nil {
		return "", err
	}
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return "", fmt.Errorf("login response did not contain a token")
	}
	return token, nil
}

// do executes req and decodes the response payload into out (if non-nil).
func (c *APIClient) do(ctx context.Context, req *resty.Request, method, path string, out any) error {
	start := time.Now()
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode(), "duration", time.Since(start))

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized:
		if c.tokens != nil {
			if err := c.tokens.Clear(); err != nil {
				c.log.Warn("clearing rejected token failed", "err", err)
			}
		}
		return ErrUnauthorized
	case code < 200 || code > 299:
		return &APIError{StatusCode: code, Message: errorMessage(code, resp.Body())}
	case code == http.StatusNoContent:
		return nil
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := decodePayload(resp.Body(), out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}

// decodePayload unwraps a {"data": ...} envelope when present.
func decodePayload(body []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		return json.Unmarshal(envelope.Data, out)
	}
	return json.Unmarshal(body, out)
}

// errorMessage extracts a human-readable message from an error body:
// the "message" field, else the JSON "errors" field. Bodies that are not
// JSON objects report the status code.
func errorMessage(code int, body []byte) string {
	var parsed struct {
		Message string          `json:"message"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Sprintf("HTTP error! Status: %d", code)
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	if len(parsed.Errors) > 0 && string(parsed.Errors) != "null" {
		return string(parsed.Errors)
	}
	return "an unknown error occurred"
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/models"
)

// DefaultCookieName is the session cookie the server sets on login.
const DefaultCookieName = "token"

// APIError is a non-2xx response from the server.
type APIError struct {
	Status    int
	ErrorType string
	Message   string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// Unwrap maps the status back onto the common error kinds.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return common.ErrValidation
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return common.ErrConflict
	}
	return common.ErrInternal
}

// APIClient talks to the todo server over HTTP.
type APIClient struct {
	baseURL    string
	cookieName string
	http       *http.Client
}

// NewAPIClient creates a client for the server at baseURL, e.g. http://localhost:8080/api.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookieName: DefaultCookieName,
		http:       httpClient,
	}
}

// response is the union of the server's envelope and its credential error body.
type response struct {
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	ErrorType string          `json:"errorType"`
}

func (c *APIClient) do(ctx context.Context, method, path, token string, body, out any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env response
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return resp, &APIError{Status: resp.StatusCode, ErrorType: env.ErrorType, Message: msg}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return resp, nil
}

// Register creates an account. It does not sign in.
func (c *APIClient) Register(ctx context.Context, req models.RegisterRequest) (models.PublicUser, error) {
	var user models.PublicUser
	_, err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &user)
	return user, err
}

// CheckCredentials reports whether email and password would log in.
func (c *APIClient) CheckCredentials(ctx context.Context, email, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/check-credentials", "",
		models.CredentialsRequest{Email: email, Password: password}, nil)
	return err
}

// Login signs in and returns the session token the server set as a cookie.
func (c *APIClient) Login(ctx context.Context, email, password string) (models.PublicUser, string, error) {
	var user models.PublicUser
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", "",
		models.CredentialsRequest{Email: email, Password: password}, &user)
	if err != nil {
		return models.PublicUser{}, "", err
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == c.cookieName && cookie.Value != "" {
			return user, cookie.Value, nil
		}
	}
	return models.PublicUser{}, "", errors.New("server did not return a session")
}

// Logout ends the session on the server side of the conversation.
func (c *APIClient) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
	return err
}

// Session returns the user behind token.
func (c *APIClient) Session(ctx context.Context, token string) (models.PublicUser, error) {
	var user models.PublicUser
	_, err := c.do(ctx, http.MethodGet, "/auth/session", token, nil, &user)
	return user, err
}

func (c *APIClient) ListTodos(ctx context.Context, token string) ([]models.Todo, error) {
	todos := []models.Todo{}
	if _, err := c.do(ctx, http.MethodGet, "/todos", token, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *APIClient) CreateTodo(ctx context.Context, token, text string) (models.Todo, error) {
	var todo models.Todo
	_, err := c.do(ctx, http.MethodPost, "/todos", token, models.TodoCreateRequest{Text: text}, &todo)
	return todo, err
}

func (c *APIClient) UpdateTodo(ctx context.Context, token, id string, req models.TodoUpdateRequest) (models.Todo, error) {
	var todo models.Todo
	_, err := c.do(ctx, http.MethodPatch, "/todos/"+url.PathEscape(id), token, req, &todo)
	return todo, err
}

func (c *APIClient) DeleteTodo(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), token, nil, nil)
	return err
}

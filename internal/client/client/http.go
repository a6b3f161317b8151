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
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// HTTPClient is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.bearer(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&eb) == nil {
			apiErr.Detail = eb.Detail
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	if in == nil {
		return c.do(ctx, method, path, nil, "", out)
	}
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func pageQuery(skip, limit int) string {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	return "?" + q.Encode()
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, "", nil)
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) (*models.User, error) {
	var u models.User
	in := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/register/", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *HTTPClient) Login(ctx context.Context, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}

	var tok models.Token
	err := c.do(ctx, http.MethodPost, "/api/token", strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", &tok)
	if err != nil {
		return err
	}
	if tok.AccessToken == "" {
		return errors.New("empty access token in response")
	}
	c.setToken(tok.AccessToken)
	return nil
}

func (c *HTTPClient) Logout() {
	c.setToken("")
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/me/", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) CreateNote(ctx context.Context, in *models.NoteInput) (*models.Note, error) {
	var n models.Note
	if err := c.doJSON(ctx, http.MethodPost, "/api/notes/", in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *HTTPClient) ListNotes(ctx context.Context, skip, limit int) ([]*models.Note, error) {
	var list []*models.Note
	if err := c.doJSON(ctx, http.MethodGet, "/api/notes/"+pageQuery(skip, limit), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	var n models.Note
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/notes/%d/", id), nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *HTTPClient) UpdateNote(ctx context.Context, id int64, in *models.NoteUpdate) (*models.Note, error) {
	var n models.Note
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/notes/%d/", id), in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *HTTPClient) DeleteNote(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/notes/%d/", id), nil, nil)
}

func (c *HTTPClient) CreatePassword(ctx context.Context, in *models.PasswordInput) (*models.PasswordEntry, error) {
	var e models.PasswordEntry
	if err := c.doJSON(ctx, http.MethodPost, "/api/passwords/", in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) ListPasswords(ctx context.Context, skip, limit int) ([]*models.PasswordEntry, error) {
	var list []*models.PasswordEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/passwords/"+pageQuery(skip, limit), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) GetPassword(ctx context.Context, id int64) (*models.PasswordEntry, error) {
	var e models.PasswordEntry
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/passwords/%d/", id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) DeletePassword(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/passwords/%d/", id), nil, nil)
}

func (c *HTTPClient) Export(ctx context.Context) (*models.ExportResult, error) {
	var res models.ExportResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/export/", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

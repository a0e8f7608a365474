package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"webmail-cli/internal/model"
)

// Client talks to the webmail backend's JSON API.
type Client struct {
	baseURL    string
	sessionID  string
	csrfToken  string
	httpClient *http.Client
}

// Config for Client
type Config struct {
	BaseURL   string // e.g., http://127.0.0.1:8000
	SessionID string // Django "sessionid" cookie, optional
	CSRFToken string // sent as cookie and X-CSRFToken header, optional
	Timeout   time.Duration
}

// Compose is the payload of POST /emails.
type Compose struct {
	Recipients string `json:"recipients"` // comma-separated addresses
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

// Update is a partial PUT /emails/:id. Nil fields are left untouched.
type Update struct {
	Read     *bool `json:"read,omitempty"`
	Archived *bool `json:"archived,omitempty"`
}

// Result is the backend's verdict on a send. A 400 with an error message is
// a Result, not a Go error: the caller decides what to do with it.
type Result struct {
	Status  int    `json:"-"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK reports whether the backend accepted the email.
func (r Result) OK() bool {
	return r.Status == http.StatusCreated
}

func (r Result) String() string {
	if r.Error != "" {
		return fmt.Sprintf("%d: %s", r.Status, r.Error)
	}
	return fmt.Sprintf("%d: %s", r.Status, r.Message)
}

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.Status)
}

// NewClient creates a new API client
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		sessionID: cfg.SessionID,
		csrfToken: cfg.CSRFToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the backend root the client points at.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendEmail submits a new email for every recipient plus the sender.
func (c *Client) SendEmail(ctx context.Context, msg Compose) (Result, error) {
	var res Result
	status, err := c.do(ctx, http.MethodPost, "/emails", msg, &res)
	if err != nil {
		return Result{}, err
	}
	res.Status = status
	return res, nil
}

// GetEmail fetches one email by id.
func (c *Client) GetEmail(ctx context.Context, id int64) (model.Email, error) {
	var e model.Email
	status, err := c.do(ctx, http.MethodGet, "/emails/"+strconv.FormatInt(id, 10), nil, &e)
	if err != nil {
		return model.Email{}, err
	}
	if status != http.StatusOK {
		return model.Email{}, &Error{Status: status}
	}
	return e, nil
}

// UpdateEmail flips read and/or archived on an email.
func (c *Client) UpdateEmail(ctx context.Context, id int64, u Update) error {
	_, err := c.do(ctx, http.MethodPut, "/emails/"+strconv.FormatInt(id, 10), u, nil)
	return err
}

// ListMailbox returns the emails in a mailbox, newest first.
func (c *Client) ListMailbox(ctx context.Context, mailbox model.Mailbox) ([]model.Email, error) {
	var emails []model.Email
	if _, err := c.do(ctx, http.MethodGet, "/emails/"+string(mailbox), nil, &emails); err != nil {
		return nil, err
	}
	if emails == nil {
		emails = []model.Email{}
	}
	return emails, nil
}

// do sends one request. Bodies of 2xx answers (and of 400s on POST /emails,
// which carry the send verdict) are decoded into out when it is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: c.sessionID})
	}
	if c.csrfToken != "" {
		req.AddCookie(&http.Cookie{Name: "csrftoken", Value: c.csrfToken})
		req.Header.Set("X-CSRFToken", c.csrfToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	sendVerdict := method == http.MethodPost && resp.StatusCode == http.StatusBadRequest
	if resp.StatusCode >= 300 && !sendVerdict {
		return resp.StatusCode, decodeError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return resp.StatusCode, nil
}

func decodeError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &Error{Status: status, Message: payload.Error}
	}
	return &Error{Status: status, Message: strings.TrimSpace(string(body))}
}

// Bool returns a pointer to b, for building an Update.
func Bool(b bool) *bool {
	return &b
}

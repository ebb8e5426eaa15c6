// Package api is a typed client for the calendar REST service.
package api

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
)

type Event struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Start       time.Time `json:"start" yaml:"start"`
	End         time.Time `json:"end" yaml:"end"`
	Category    string    `json:"category" yaml:"category"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// wire shape; the server sends the id twice and older servers only "_id"
type eventBody struct {
	ID          string    `json:"id"`
	LegacyID    string    `json:"_id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventInput is a create or update payload. Nil fields are omitted, so an
// update only sends what changed.
type EventInput struct {
	Title       *string    `json:"title,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// Error is a non-2xx answer from the service.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	location   *time.Location
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) { client.httpClient = c }
}

// WithLocation sets the zone returned timestamps are converted into.
func WithLocation(loc *time.Location) Option {
	return func(client *Client) {
		if loc != nil {
			client.location = loc
		}
	}
}

// NewClient takes the API root, e.g. "http://localhost:5000/api".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("NewClient: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("NewClient: unsupported scheme %q", u.Scheme)
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(u.String(), "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		location:   time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Location() *time.Location {
	return c.location
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) toEvent(b eventBody) Event {
	id := b.ID
	if id == "" {
		id = b.LegacyID
	}
	return Event{
		ID:          id,
		Title:       b.Title,
		Start:       b.Start.In(c.location),
		End:         b.End.In(c.location),
		Category:    b.Category,
		Description: b.Description,
		CreatedAt:   b.CreatedAt.In(c.location),
	}
}

func (c *Client) List(ctx context.Context) ([]Event, error) {
	var bodies []eventBody
	if err := c.do(ctx, http.MethodGet, "/events", nil, &bodies); err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(bodies))
	for _, b := range bodies {
		events = append(events, c.toEvent(b))
	}
	return events, nil
}

func (c *Client) Get(ctx context.Context, id string) (Event, error) {
	var b eventBody
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil, &b); err != nil {
		return Event{}, err
	}
	return c.toEvent(b), nil
}

func (c *Client) Create(ctx context.Context, in EventInput) (Event, error) {
	var b eventBody
	if err := c.do(ctx, http.MethodPost, "/events", in, &b); err != nil {
		return Event{}, err
	}
	return c.toEvent(b), nil
}

func (c *Client) Update(ctx context.Context, id string, in EventInput) (Event, error) {
	var b eventBody
	if err := c.do(ctx, http.MethodPut, "/events/"+url.PathEscape(id), in, &b); err != nil {
		return Event{}, err
	}
	return c.toEvent(b), nil
}

// Delete returns the server's confirmation message.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	var msg struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}

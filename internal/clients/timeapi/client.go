package timeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/dev-avwi/TradieTrack-sub007/internal/logger"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timeentry"
)

const tokenHeaderKey = "X-Api-Token"

// Client talks to a time-entry backend over its REST API. It implements
// timeentry.Service and timeentry.JobDirectory, translating the backend's
// conflict and not-found responses into the domain sentinels.
type Client struct {
	scheme   string
	host     string
	basePath string
	token    string
	client   http.Client
}

func New(baseUrl string, token string) (*Client, error) {
	u, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("could not parse base url %q: %w", baseUrl, err)
	}

	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}

	return &Client{
		scheme:   scheme,
		host:     u.Host,
		basePath: u.Path,
		token:    token,
		client:   http.Client{},
	}, nil
}

func (c *Client) ActiveEntry(ctx context.Context, userId string) (*timeentry.TimeEntry, error) {
	ctxLogger := logger.GetFromContext(ctx)
	endpoint := path.Join("users", userId, "entries", "active")

	data, status, err := c.doRequest(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		ctxLogger.ErrorContext(ctx, "request failed", "error", err)
		return nil, fmt.Errorf("ActiveEntry request failed: %w", err)
	}

	if status == http.StatusNoContent {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, apiError(status, data)
	}

	var entry timeentry.TimeEntry
	if err = json.Unmarshal(data, &entry); err != nil {
		ctxLogger.ErrorContext(ctx, "response parsing failed", "error", err)
		return nil, fmt.Errorf("could not parse response data: %w", err)
	}

	return &entry, nil
}

func (c *Client) CreateEntry(ctx context.Context, req timeentry.CreateEntryRequest) (timeentry.TimeEntry, error) {
	ctxLogger := logger.GetFromContext(ctx)

	data, status, err := c.doRequest(ctx, http.MethodPost, "entries", nil, req)
	if err != nil {
		ctxLogger.ErrorContext(ctx, "request failed", "error", err)
		return timeentry.TimeEntry{}, fmt.Errorf("CreateEntry request failed: %w", err)
	}

	if status != http.StatusCreated && status != http.StatusOK {
		return timeentry.TimeEntry{}, apiError(status, data)
	}

	var entry timeentry.TimeEntry
	if err = json.Unmarshal(data, &entry); err != nil {
		ctxLogger.ErrorContext(ctx, "response parsing failed", "error", err)
		return timeentry.TimeEntry{}, fmt.Errorf("could not parse response data: %w", err)
	}

	return entry, nil
}

func (c *Client) UpdateEntry(ctx context.Context, entryId string, req timeentry.UpdateEntryRequest) (timeentry.TimeEntry, error) {
	ctxLogger := logger.GetFromContext(ctx)
	endpoint := path.Join("entries", entryId)

	data, status, err := c.doRequest(ctx, http.MethodPatch, endpoint, nil, req)
	if err != nil {
		ctxLogger.ErrorContext(ctx, "request failed", "error", err)
		return timeentry.TimeEntry{}, fmt.Errorf("UpdateEntry request failed: %w", err)
	}

	if status != http.StatusOK {
		return timeentry.TimeEntry{}, apiError(status, data)
	}

	var entry timeentry.TimeEntry
	if err = json.Unmarshal(data, &entry); err != nil {
		ctxLogger.ErrorContext(ctx, "response parsing failed", "error", err)
		return timeentry.TimeEntry{}, fmt.Errorf("could not parse response data: %w", err)
	}

	return entry, nil
}

func (c *Client) DeleteEntry(ctx context.Context, entryId string) error {
	ctxLogger := logger.GetFromContext(ctx)
	endpoint := path.Join("entries", entryId)

	data, status, err := c.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
	if err != nil {
		ctxLogger.ErrorContext(ctx, "request failed", "error", err)
		return fmt.Errorf("DeleteEntry request failed: %w", err)
	}

	if status != http.StatusNoContent && status != http.StatusOK {
		return apiError(status, data)
	}

	return nil
}

func (c *Client) Entries(ctx context.Context, userId string, window timeentry.Range) ([]timeentry.TimeEntry, error) {
	ctxLogger := logger.GetFromContext(ctx)
	endpoint := path.Join("users", userId, "entries")

	params := url.Values{}
	if !window.From.IsZero() {
		params.Add("from", window.From.UTC().Format(time.RFC3339))
	}
	if !window.To.IsZero() {
		params.Add("to", window.To.UTC().Format(time.RFC3339))
	}

	data, status, err := c.doRequest(ctx, http.MethodGet, endpoint, params, nil)
	if err != nil {
		ctxLogger.ErrorContext(ctx, "request failed", "error", err)
		return nil, fmt.Errorf("Entries request failed: %w", err)
	}

	if status != http.StatusOK {
		return nil, apiError(status, data)
	}

	var entries []timeentry.TimeEntry
	if err = json.Unmarshal(data, &entries); err != nil {
		ctxLogger.ErrorContext(ctx, "response parsing failed", "error", err)
		return nil, fmt.Errorf("could not parse response data: %w", err)
	}

	return entries, nil
}

func (c *Client) Jobs(ctx context.Context) ([]timeentry.Job, error) {
	ctxLogger := logger.GetFromContext(ctx)

	data, status, err := c.doRequest(ctx, http.MethodGet, "jobs", nil, nil)
	if err != nil {
		ctxLogger.ErrorContext(ctx, "request failed", "error", err)
		return nil, fmt.Errorf("Jobs request failed: %w", err)
	}

	if status != http.StatusOK {
		return nil, apiError(status, data)
	}

	var jobs []timeentry.Job
	if err = json.Unmarshal(data, &jobs); err != nil {
		ctxLogger.ErrorContext(ctx, "response parsing failed", "error", err)
		return nil, fmt.Errorf("could not parse response data: %w", err)
	}

	return jobs, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// apiError turns a non-success response into an error. Conflict and
// not-found map onto the domain sentinels so callers can errors.Is them
// without knowing the transport.
func apiError(status int, body []byte) error {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		resp.Error = ""
	}

	switch status {
	case http.StatusConflict:
		if resp.Error != "" {
			return fmt.Errorf("%w: %s", timeentry.ErrConflict, resp.Error)
		}
		return timeentry.ErrConflict
	case http.StatusNotFound:
		if resp.Error != "" {
			return fmt.Errorf("%w: %s", timeentry.ErrNotFound, resp.Error)
		}
		return timeentry.ErrNotFound
	}

	if resp.Error != "" {
		return fmt.Errorf("response status code does not indicate success: %d (%s)", status, resp.Error)
	}
	return fmt.Errorf("response status code does not indicate success: %d", status)
}

func (c *Client) doRequest(ctx context.Context, method string, endpointPath string, params url.Values, body any) ([]byte, int, error) {
	ctxLogger := logger.GetFromContext(ctx)
	u := url.URL{
		Scheme: c.scheme,
		Host:   c.host,
		Path:   path.Join("/", c.basePath, endpointPath),
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("could not encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("could not construct request: %w", err)
	}

	req.Header.Set(tokenHeaderKey, c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}

	res, err := c.client.Do(req)
	if err != nil {
		ctxLogger.ErrorContext(ctx, "http request failed", "error", err)
		return nil, 0, fmt.Errorf("failed to query time-entry api (%q): %w", endpointPath, err)
	}
	defer res.Body.Close()

	ctxLogger.InfoContext(ctx, "http request finished",
		"request_url", res.Request.URL.String(),
		"status_code", res.StatusCode)

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		ctxLogger.ErrorContext(ctx, "response body read failed", "error", err)
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return resBody, res.StatusCode, nil
}

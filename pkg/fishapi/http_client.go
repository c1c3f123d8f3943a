package fishapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-fishboard/components/tracker"
)

// DefaultTimeout bounds every upstream request unless overridden.
const DefaultTimeout = 10 * time.Second

// RequestIDHeader correlates outbound requests with server logs.
const RequestIDHeader = "X-Request-ID"

const (
	pathFish      = "/fish"
	pathAddFish   = "/admin/add_fish"
	pathUploadCSV = "/admin/upload_csv"
)

// HTTPConfig configures the HTTP fish API client.
type HTTPConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil. Zero selects DefaultTimeout and
	// a negative value disables the timeout.
	Timeout time.Duration
	// RequestID generates the X-Request-ID header when the context carries
	// none. Defaults to uuid.NewString.
	RequestID func() string
	// Logger receives warnings about records the client had to repair.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// HTTPClient talks to the remote fish API.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	requestID func() string
	logger    *slog.Logger
}

// NewHTTPClient builds a client for the fish API at cfg.BaseURL.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("fishapi: base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("fishapi: invalid base url %q: %w", cfg.BaseURL, err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		switch {
		case timeout == 0:
			timeout = DefaultTimeout
		case timeout < 0:
			timeout = 0
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	requestID := cfg.RequestID
	if requestID == nil {
		requestID = uuid.NewString
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		baseURL:   base,
		client:    httpClient,
		requestID: requestID,
		logger:    logger,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// FetchFish implements tracker.FishSource via GET /fish.
func (c *HTTPClient) FetchFish(ctx context.Context) ([]tracker.Fish, error) {
	req, err := c.newRequest(ctx, http.MethodGet, pathFish, nil, "")
	if err != nil {
		return nil, err
	}
	var resp []fishRecord
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	fish := make([]tracker.Fish, len(resp))
	for i, record := range resp {
		for _, raw := range record.invalidDates() {
			c.logger.WarnContext(ctx, "fishapi: unrecognized weigh-in date",
				"fish_id", record.ID, "date", raw)
		}
		fish[i] = record.toFish()
	}
	return fish, nil
}

// AddFish implements tracker.AdminWriter via a form post to /admin/add_fish.
func (c *HTTPClient) AddFish(ctx context.Context, input tracker.AddFishInput) (tracker.AdminResult, error) {
	form := url.Values{}
	form.Set("name", input.Name)
	form.Set("notes", input.Notes)
	form.Set("password", input.Password)
	req, err := c.newRequest(ctx, http.MethodPost, pathAddFish, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return tracker.AdminResult{}, err
	}
	return c.admin(req)
}

// UploadWeighIns implements tracker.AdminWriter via a multipart post to
// /admin/upload_csv.
func (c *HTTPClient) UploadWeighIns(ctx context.Context, input tracker.UploadWeighInsInput) (tracker.AdminResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	filename := input.Filename
	if filename == "" {
		filename = "weigh_ins.csv"
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return tracker.AdminResult{}, fmt.Errorf("fishapi: encode upload: %w", err)
	}
	if _, err := part.Write(input.Content); err != nil {
		return tracker.AdminResult{}, fmt.Errorf("fishapi: encode upload: %w", err)
	}
	if err := writer.WriteField("password", input.Password); err != nil {
		return tracker.AdminResult{}, fmt.Errorf("fishapi: encode upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return tracker.AdminResult{}, fmt.Errorf("fishapi: encode upload: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, pathUploadCSV, &body, writer.FormDataContentType())
	if err != nil {
		return tracker.AdminResult{}, err
	}
	return c.admin(req)
}

func (c *HTTPClient) admin(req *http.Request) (tracker.AdminResult, error) {
	var resp adminResponse
	if err := c.do(req, &resp); err != nil {
		return tracker.AdminResult{}, err
	}
	return tracker.AdminResult{Message: resp.message()}, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("fishapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	id, ok := tracker.RequestIDFrom(ctx)
	if !ok {
		id = c.requestID()
	}
	req.Header.Set(RequestIDHeader, id)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, target any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fishapi: %s %s: %w: %w", req.Method, req.URL.Path, tracker.ErrUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &tracker.RemoteError{Status: resp.StatusCode, Detail: errorDetail(buf.Bytes())}
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("fishapi: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// errorDetail pulls "detail" out of an error body, falling back to the
// trimmed body text when it is not a JSON object.
func errorDetail(body []byte) string {
	var resp adminResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		if detail := rawMessage(resp.Detail); detail != "" {
			return detail
		}
	}
	return strings.TrimSpace(string(body))
}

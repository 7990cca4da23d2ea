package reader

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
	"github.com/lectern-hq/lectern-reader-agent/internal/logger"
	"github.com/lectern-hq/lectern-reader-agent/pkg/httpclient"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the production Readwise Reader API root.
	DefaultBaseURL = "https://readwise.io/api/v3"

	// rateLimitFallback is used when a 429 arrives without a usable
	// Retry-After header.
	rateLimitFallback = 60 * time.Second
)

// Options configures a Reader API client.
type Options struct {
	Token        string
	BaseURL      string
	Timeout      time.Duration
	RequestDelay time.Duration
	Logger       logger.Logger
}

// Client talks to the Reader API. All calls honor the server's rate
// limiting: a 429 response is waited out and the request repeated, for as
// long as the context allows.
type Client struct {
	rc    *resty.Client
	delay time.Duration
	log   logger.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient builds a Client authenticated with the given token.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	log := opts.Logger
	if log == nil {
		log = logger.NopLogger{}
	}

	rc := httpclient.NewRestyHTTPClient(opts.Timeout)
	rc.SetBaseURL(strings.TrimRight(baseURL, "/"))
	rc.SetAuthScheme("Token")
	rc.SetAuthToken(opts.Token)

	return &Client{
		rc:    rc,
		delay: opts.RequestDelay,
		log:   log,
		sleep: sleepContext,
	}
}

// listPage mirrors the /list/ response envelope.
type listPage struct {
	Count          int               `json:"count"`
	NextPageCursor string            `json:"nextPageCursor"`
	Results        []domain.Document `json:"results"`
}

// listDocuments fetches a single page for the given location. An empty
// cursor requests the first page.
func (c *Client) listDocuments(ctx context.Context, location, cursor string) (listPage, error) {
	query := map[string]string{"location": location}
	if cursor != "" {
		query["pageCursor"] = cursor
	}

	var page listPage
	if err := c.do(ctx, http.MethodGet, "/list/", query, nil, &page); err != nil {
		return listPage{}, fmt.Errorf("list %s documents: %w", location, err)
	}
	return page, nil
}

// UpdateLocation moves a document to another partition.
func (c *Client) UpdateLocation(ctx context.Context, id, location string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("document id is empty")
	}

	path := fmt.Sprintf("/update/%s/", id)
	body := map[string]string{"location": location}
	if err := c.do(ctx, http.MethodPatch, path, nil, body, nil); err != nil {
		return fmt.Errorf("move document %s to %s: %w", id, location, err)
	}
	return nil
}

// do executes one API request. Rate-limited responses are retried after the
// server-advertised wait; other non-success statuses surface as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, out interface{}) error {
	for {
		req := c.rc.R().SetContext(ctx)
		if len(query) > 0 {
			req.SetQueryParams(query)
		}
		if body != nil {
			req.SetBody(body)
		}
		if out != nil {
			req.SetResult(out)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}

		if resp.StatusCode() == http.StatusTooManyRequests {
			wait := retryAfter(resp)
			c.log.WarnObj("rate limited by reader api", "rate_limit", map[string]any{
				"path":         path,
				"wait_seconds": int(wait / time.Second),
			})
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if resp.IsError() {
			return &APIError{
				Status:     resp.StatusCode(),
				StatusText: http.StatusText(resp.StatusCode()),
				Body:       httpclient.Snippet(resp.Body()),
			}
		}
		return nil
	}
}

// retryAfter reads the wait from a 429 response, in whole seconds.
func retryAfter(resp *resty.Response) time.Duration {
	raw := strings.TrimSpace(resp.Header().Get("Retry-After"))
	if raw == "" {
		return rateLimitFallback
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return rateLimitFallback
	}
	return time.Duration(secs) * time.Second
}

// sleepContext blocks for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Client is a Confluence Cloud REST API client.
type Client struct {
	baseURL    string
	email      string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithRateLimit sets the sustained request rate against the Confluence API.
// The default is 2 requests per second, which keeps paginated space crawls
// well below Atlassian's per-user quotas.
func WithRateLimit(rps float64, burst int) Option {
	return func(client *Client) {
		client.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new Confluence API client.
// baseURL is the site URL (e.g., "https://your-domain.atlassian.net").
// email and token are the Atlassian account email and API token used
// for basic authentication.
func NewClient(baseURL, email, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		email:   email,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// apiURL builds a full URL under /wiki/rest/api with the given query values.
func (c *Client) apiURL(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/wiki/rest/api" + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// doRequest performs an HTTP request and decodes the JSON response.
// Each request waits on the client's rate limiter first, so sequential
// pagination is paced without callers sleeping between pages.
func (c *Client) doRequest(ctx context.Context, method, fullURL string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Transient: true, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Transient:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// wrapError attaches an operation name to API errors.
func wrapError(err error, op string) error {
	if err == nil {
		return nil
	}
	apiErr, ok := err.(*Error)
	if ok {
		apiErr.Op = op
		return apiErr
	}
	return fmt.Errorf("%s: %w", op, err)
}

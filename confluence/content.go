package confluence

import (
	"context"
	"net/url"
	"strconv"
)

// ListContent retrieves a single page of content for a space.
// Callers paginate by advancing opts.Start until fewer than opts.Limit
// results come back.
func (c *Client) ListContent(ctx context.Context, spaceKey string, opts *ListOptions) (*PageList, error) {
	query := url.Values{}
	query.Set("spaceKey", spaceKey)
	if opts != nil {
		if opts.Start > 0 {
			query.Set("start", strconv.Itoa(opts.Start))
		}
		if opts.Limit > 0 {
			query.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Expand != "" {
			query.Set("expand", opts.Expand)
		}
	}

	fullURL, err := c.apiURL("/content", query)
	if err != nil {
		return nil, wrapError(err, "ListContent")
	}

	var result PageList
	if err := c.doRequest(ctx, "GET", fullURL, &result); err != nil {
		return nil, wrapError(err, "ListContent")
	}

	return &result, nil
}

// GetPage retrieves a single page by ID with the given expansions.
func (c *Client) GetPage(ctx context.Context, id string, expand string) (*Page, error) {
	query := url.Values{}
	if expand != "" {
		query.Set("expand", expand)
	}

	fullURL, err := c.apiURL("/content/"+id, query)
	if err != nil {
		return nil, wrapError(err, "GetPage")
	}

	var result Page
	if err := c.doRequest(ctx, "GET", fullURL, &result); err != nil {
		return nil, wrapError(err, "GetPage")
	}

	return &result, nil
}

// WebURL returns the browser URL for a page, built from its webui link.
func (c *Client) WebURL(p Page) string {
	return c.baseURL + "/wiki" + p.Links.WebUI
}

package confluence

import (
	"context"
	"net/url"
	"strconv"
)

// ListSpaces retrieves a single page of spaces visible to the caller.
func (c *Client) ListSpaces(ctx context.Context, opts *ListOptions) (*SpaceList, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Start > 0 {
			query.Set("start", strconv.Itoa(opts.Start))
		}
		if opts.Limit > 0 {
			query.Set("limit", strconv.Itoa(opts.Limit))
		}
	}

	fullURL, err := c.apiURL("/space", query)
	if err != nil {
		return nil, wrapError(err, "ListSpaces")
	}

	var result SpaceList
	if err := c.doRequest(ctx, "GET", fullURL, &result); err != nil {
		return nil, wrapError(err, "ListSpaces")
	}

	return &result, nil
}

// AllSpaces paginates through every space the caller can see.
func (c *Client) AllSpaces(ctx context.Context) ([]Space, error) {
	const pageSize = 100

	var spaces []Space
	start := 0
	for {
		list, err := c.ListSpaces(ctx, &ListOptions{Start: start, Limit: pageSize})
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, list.Results...)
		if len(list.Results) < pageSize {
			return spaces, nil
		}
		start += pageSize
	}
}

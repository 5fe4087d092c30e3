package source

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/confkb/confluence-kb/confluence"
	"github.com/confkb/confluence-kb/internal/normalize"
)

// pageSize is the Confluence content pagination window.
const pageSize = 50

// ConfluenceSource fetches every page of the configured spaces through the
// Confluence REST API.
type ConfluenceSource struct {
	client *confluence.Client
	spaces []string
}

// NewConfluence creates a source over the given spaces.
func NewConfluence(client *confluence.Client, spaces []string) *ConfluenceSource {
	return &ConfluenceSource{client: client, spaces: spaces}
}

// Descriptor returns the configured space keys.
func (s *ConfluenceSource) Descriptor() []string {
	return s.spaces
}

// Fetch paginates through each space and returns every page as a document.
// Auth failures abort the fetch: the credentials are wrong for every
// space. Any other failure skips the affected space and continues.
func (s *ConfluenceSource) Fetch(ctx context.Context) ([]Document, error) {
	var docs []Document

	for _, space := range s.spaces {
		spaceDocs, err := s.fetchSpace(ctx, space)
		if err != nil {
			if confluence.IsAuthFailure(err) {
				return nil, err
			}
			slog.Warn("skipping space after fetch failure",
				"space", space,
				"error", err,
			)
			continue
		}
		docs = append(docs, spaceDocs...)
		slog.Info("fetched space", "space", space, "pages", len(spaceDocs))
	}

	return docs, nil
}

func (s *ConfluenceSource) fetchSpace(ctx context.Context, space string) ([]Document, error) {
	var docs []Document

	start := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		list, err := s.client.ListContent(ctx, space, &confluence.ListOptions{
			Start:  start,
			Limit:  pageSize,
			Expand: "body.storage,version,space",
		})
		if err != nil {
			return nil, err
		}

		for _, page := range list.Results {
			docs = append(docs, Document{
				ID:        page.ID,
				Title:     page.Title,
				Content:   page.Body.Storage.Value,
				Origin:    OriginRemote,
				Kind:      normalize.Markup,
				SourceKey: page.Space.Key,
				Locator:   s.client.WebURL(page),
				Meta: map[string]string{
					"version": strconv.Itoa(page.Version.Number),
				},
			})
		}

		if len(list.Results) < pageSize {
			return docs, nil
		}
		start += pageSize
	}
}

package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
)

// Search queries /search.json by title and author. Results are sorted
// oldest-first so the earliest edition of a work comes back first.
// A response with zero matches is not an error; NumFound is 0 and
// Docs is empty.
func (c *Client) Search(ctx context.Context, title, author string) (*SearchResult, error) {
	query := url.Values{}
	query.Set("title", title)
	query.Set("author", author)
	query.Set("sort", "old")

	body, err := c.doRequest(ctx, "/search.json", query)
	if err != nil {
		return nil, wrapError("search", err)
	}

	var raw rawSearchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, wrapError("search", fmt.Errorf("parse response: %w", err))
	}

	c.logger.Debug("openlibrary search results",
		"title", title,
		"author", author,
		"count", raw.NumFound,
	)

	return &SearchResult{
		NumFound: raw.NumFound,
		Docs:     raw.Docs,
	}, nil
}

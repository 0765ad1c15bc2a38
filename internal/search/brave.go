package search

import (
	"context"
	"fmt"
	"net/url"
)

const (
	braveAPIURL = "https://api.search.brave.com/res/v1/web/search"

	braveResultCount = "10"
)

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
		} `json:"results"`
	} `json:"web"`
}

func (c *Client) braveSearch(ctx context.Context, query string) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("count", braveResultCount)
	q.Set("search_lang", "en")
	q.Set("country", "US")
	q.Set("safesearch", "moderate")

	headers := map[string]string{
		"X-Subscription-Token": c.braveKey,
	}

	var response braveResponse
	if err := c.getJSON(ctx, c.BraveAPIURL, q, headers, &response); err != nil {
		return nil, fmt.Errorf("brave search: %w", err)
	}

	results := make([]Result, 0, len(response.Web.Results))
	for _, item := range response.Web.Results {
		results = append(results, Result{
			Title:   item.Title,
			Snippet: item.Description,
			URL:     item.URL,
		})
	}

	return results, nil
}

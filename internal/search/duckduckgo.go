package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	duckAPIURL = "https://api.duckduckgo.com/"

	// The instant-answer API has no paging; related topics beyond the first
	// few are rarely on subject.
	maxRelatedTopics = 5
)

type duckResponse struct {
	Heading       string      `json:"Heading"`
	Abstract      string      `json:"Abstract"`
	AbstractURL   string      `json:"AbstractURL"`
	RelatedTopics []duckTopic `json:"RelatedTopics"`
}

// duckTopic is a related-topic entry. Category groupings come back in the
// same list without a Text field and are skipped.
type duckTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

func (c *Client) duckDuckGoSearch(ctx context.Context, query string) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	var response duckResponse
	if err := c.getJSON(ctx, c.DuckAPIURL, q, nil, &response); err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}

	var results []Result

	if response.Abstract != "" {
		title := response.Heading
		if title == "" {
			title = query
		}
		results = append(results, Result{
			Title:   title,
			Snippet: response.Abstract,
			URL:     response.AbstractURL,
		})
	}

	topics := response.RelatedTopics
	if len(topics) > maxRelatedTopics {
		topics = topics[:maxRelatedTopics]
	}
	for _, topic := range topics {
		if topic.Text == "" {
			continue
		}
		results = append(results, Result{
			Title:   topicTitle(topic.FirstURL),
			Snippet: topic.Text,
			URL:     topic.FirstURL,
		})
	}

	return results, nil
}

// topicTitle derives a readable title from the last path segment of a
// related-topic URL.
func topicTitle(rawURL string) string {
	segments := strings.Split(rawURL, "/")
	last := segments[len(segments)-1]
	return strings.ReplaceAll(last, "_", " ")
}

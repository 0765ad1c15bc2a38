package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestBraveSearch(t *testing.T) {
	var gotToken, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Subscription-Token")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"web":{"results":[
			{"title":"Stanford University","description":"Private research university","url":"https://stanford.edu"},
			{"title":"MIT","description":"Institute of technology","url":"https://mit.edu"}
		]}}`))
	}))
	defer server.Close()

	client := New(zap.NewNop(), "token-123")
	client.BraveAPIURL = server.URL

	results, err := client.Search(context.Background(), "universities colleges")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotToken != "token-123" {
		t.Fatalf("expected subscription token header, got %q", gotToken)
	}
	if gotQuery != "universities colleges" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "Stanford University" || results[0].Snippet != "Private research university" || results[0].URL != "https://stanford.edu" {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
}

func TestDuckDuckGoSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("expected json format param, got %q", r.URL.Query().Get("format"))
		}
		w.Write([]byte(`{
			"Heading":"University",
			"Abstract":"A university is an institution of higher education.",
			"AbstractURL":"https://duckduckgo.com/University",
			"RelatedTopics":[
				{"Text":"Stanford University - private university","FirstURL":"https://duckduckgo.com/Stanford_University"},
				{"Topics":[{"Text":"ignored nested"}]},
				{"Text":"MIT - institute","FirstURL":"https://duckduckgo.com/MIT"}
			]
		}`))
	}))
	defer server.Close()

	client := New(zap.NewNop(), "")
	client.DuckAPIURL = server.URL

	results, err := client.Search(context.Background(), "universities")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Title != "University" {
		t.Fatalf("expected abstract heading as title, got %q", results[0].Title)
	}
	if results[1].Title != "Stanford University" {
		t.Fatalf("expected underscores replaced in topic title, got %q", results[1].Title)
	}
}

func TestSearchBackendSelection(t *testing.T) {
	braveCalled := false
	brave := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		braveCalled = true
		w.Write([]byte(`{"web":{"results":[]}}`))
	}))
	defer brave.Close()

	duckCalled := false
	duck := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		duckCalled = true
		w.Write([]byte(`{}`))
	}))
	defer duck.Close()

	keyed := New(zap.NewNop(), "token")
	keyed.BraveAPIURL = brave.URL
	keyed.DuckAPIURL = duck.URL
	if _, err := keyed.Search(context.Background(), "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !braveCalled || duckCalled {
		t.Fatalf("expected brave backend with key present (brave=%v duck=%v)", braveCalled, duckCalled)
	}

	braveCalled, duckCalled = false, false
	keyless := New(zap.NewNop(), "  ")
	keyless.BraveAPIURL = brave.URL
	keyless.DuckAPIURL = duck.URL
	if _, err := keyless.Search(context.Background(), "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if braveCalled || !duckCalled {
		t.Fatalf("expected duckduckgo backend without key (brave=%v duck=%v)", braveCalled, duckCalled)
	}
}

func TestSearchBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(zap.NewNop(), "")
	client.DuckAPIURL = server.URL

	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client := New(zap.NewNop(), "")
	if _, err := client.Search(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty query")
	}
}

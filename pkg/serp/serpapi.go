package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/brajen/contentbrief/pkg/brief"
	sharedhttp "github.com/brajen/contentbrief/pkg/shared/http"
)

// SerpAPIProvider queries serpapi.com's Google Search endpoint.
type SerpAPIProvider struct {
	apiKey string
	client *http.Client
	locale string
}

// NewSerpAPIProvider builds a provider bound to apiKey with the shared
// 10-second SERP HTTP client configuration; each request is sent once.
func NewSerpAPIProvider(apiKey string, timeout time.Duration) *SerpAPIProvider {
	return &SerpAPIProvider{
		apiKey: apiKey,
		client: sharedhttp.NewClient(sharedhttp.SerpAPIClientConfig()),
		locale: "pl",
	}
}

func (p *SerpAPIProvider) Name() string { return "serpapi" }

type serpAPIResponse struct {
	OrganicResults []struct {
		Position int    `json:"position"`
		Link     string `json:"link"`
		Title    string `json:"title"`
		Snippet  string `json:"snippet"`
	} `json:"organic_results"`
	RelatedQuestions []struct {
		Question string `json:"question"`
		Snippet  string `json:"snippet"`
		Link     string `json:"link"`
	} `json:"related_questions"`
	AnswerBox *struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answer_box"`
	RelatedSearches []struct {
		Query string `json:"query"`
	} `json:"related_searches"`
}

// Fetch implements Provider.
func (p *SerpAPIProvider) Fetch(ctx context.Context, keyword string, depth int) (*brief.SerpMetadata, error) {
	q := url.Values{}
	q.Set("engine", "google")
	q.Set("q", keyword)
	q.Set("hl", p.locale)
	q.Set("gl", "pl")
	q.Set("num", fmt.Sprintf("%d", depth))
	q.Set("api_key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://serpapi.com/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: status %d", resp.StatusCode)
	}

	var parsed serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	meta := &brief.SerpMetadata{Provider: p.Name()}
	for _, r := range parsed.OrganicResults {
		meta.Organic = append(meta.Organic, brief.SerpItem{Rank: r.Position, URL: r.Link, Title: r.Title, Snippet: r.Snippet})
		meta.Titles = append(meta.Titles, r.Title)
		meta.Snippets = append(meta.Snippets, r.Snippet)
	}
	for _, q := range parsed.RelatedQuestions {
		meta.PAA = append(meta.PAA, brief.PAAEntry{Question: q.Question, Answer: q.Snippet, Source: q.Link})
	}
	if parsed.AnswerBox != nil && parsed.AnswerBox.Snippet != "" {
		snippet := parsed.AnswerBox.Snippet
		meta.FeaturedSnippet = &snippet
	}
	for _, r := range parsed.RelatedSearches {
		meta.RelatedSearches = append(meta.RelatedSearches, r.Query)
	}

	return meta, nil
}

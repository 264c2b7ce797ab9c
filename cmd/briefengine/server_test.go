package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"

	"github.com/brajen/contentbrief/internal/config"
	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/cache"
	"github.com/brajen/contentbrief/pkg/causal"
	"github.com/brajen/contentbrief/pkg/lang/pl"
	"github.com/brajen/contentbrief/pkg/scrape"
	"github.com/brajen/contentbrief/pkg/serp"
	"github.com/brajen/contentbrief/pkg/store"
)

type nopProvider struct{ name string }

func (p nopProvider) Name() string { return p.name }
func (p nopProvider) Fetch(ctx context.Context, keyword string, depth int) (*brief.SerpMetadata, error) {
	return &brief.SerpMetadata{Provider: p.name}, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	serpClient := serp.NewClient(nopProvider{name: "serpapi"}, nopProvider{name: "dataforseo"}, serp.ModeAuto, nil)
	scraper := scrape.NewFetcher(0)
	engine := brief.NewEngine(pl.New(), serpClient, scraper, 1, causal.LLM(nil), causal.LLM(nil), store.NewInMemoryStore(), cache.NoOp{}, false)
	return NewServer(engine, logr.Discard())
}

func TestHandleAnalyze_EmptySourcesReturns400(t *testing.T) {
	s := testServer(t)
	body, _ := json.Marshal(map[string]interface{}{"main_keyword": "odszkodowanie za opóźniony lot"})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.handleAnalyze(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body=%s", rr.Code, rr.Body.String())
	}
}

func TestHandleAnalyze_SuppliedSourcesSkipsSERP(t *testing.T) {
	s := testServer(t)
	body, _ := json.Marshal(map[string]interface{}{
		"main_keyword": "rozwód w Warszawie",
		"sources": []map[string]interface{}{
			{
				"url":          "https://example.pl/a",
				"content":      "Rozwód w Warszawie jest skomplikowany. Prawnik od rozwodów pomoże. Rozwód w Warszawie trwa długo.",
				"h2_structure": []string{"Rozwód krok po kroku"},
			},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.handleAnalyze(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rr.Code, rr.Body.String())
	}
	var got brief.Brief
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Summary.SourcesAutoFetched {
		t.Errorf("sources_auto_fetched = true, want false")
	}
	if got.Summary.SourcesCount != 1 {
		t.Errorf("sources_count = %d, want 1", got.Summary.SourcesCount)
	}
}

func TestHandleAnalyze_MissingKeywordReturns400(t *testing.T) {
	s := testServer(t)
	body, _ := json.Marshal(map[string]interface{}{})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.handleAnalyze(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleHierarchicalCount_SeedScenario(t *testing.T) {
	s := testServer(t)
	body, _ := json.Marshal(map[string]interface{}{
		"raw_counts": map[string]int{"rozwód": 3, "rozwód warszawa": 2, "warszawa": 5},
	})
	req := httptest.NewRequest(http.MethodPost, "/count_keywords_inherited", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.handleHierarchicalCount(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var got struct {
		HierarchicalCounts map[string]int `json:"hierarchical_counts"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.HierarchicalCounts["warszawa"] != 7 || got.HierarchicalCounts["rozwód"] != 5 {
		t.Errorf("hierarchical_counts = %+v", got.HierarchicalCounts)
	}
}

func TestHandleTopHeadings_ReturnsRanked(t *testing.T) {
	s := testServer(t)
	body, _ := json.Marshal(map[string]interface{}{
		"headings": []string{"Wstęp", "Wstęp", "Podsumowanie"},
	})
	req := httptest.NewRequest(http.MethodPost, "/top_headings", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.handleTopHeadings(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var got struct {
		TopHeadings []struct {
			Heading string `json:"heading"`
			Count   int    `json:"count"`
		} `json:"top_headings"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.TopHeadings) != 2 || got.TopHeadings[0].Heading != "Wstęp" || got.TopHeadings[0].Count != 2 {
		t.Errorf("top_headings = %+v, want Wstęp (2) ranked first of 2", got.TopHeadings)
	}
}

func TestHandleHealth_ReportsVersionAndFlags(t *testing.T) {
	s := testServer(t)
	cfg := &config.Config{}
	cfg.EntitySEO.Enabled = true
	cfg.SERP.Provider = "serpapi"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.handleHealth(cfg)(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["version"] != version {
		t.Errorf("version = %v, want %q", got["version"], version)
	}
	if got["entity_seo_enabled"] != true {
		t.Errorf("entity_seo_enabled = %v, want true", got["entity_seo_enabled"])
	}
}

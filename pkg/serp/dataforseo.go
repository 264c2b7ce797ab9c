package serp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/brajen/contentbrief/pkg/brief"
	sharedhttp "github.com/brajen/contentbrief/pkg/shared/http"
)

// DataForSEOProvider queries DataForSEO's SERP API (basic-auth protected).
type DataForSEOProvider struct {
	login, password string
	client          *http.Client
}

// NewDataForSEOProvider builds a provider bound to login/password.
func NewDataForSEOProvider(login, password string, timeout time.Duration) *DataForSEOProvider {
	return &DataForSEOProvider{
		login:    login,
		password: password,
		client:   sharedhttp.NewClient(sharedhttp.SerpAPIClientConfig()),
	}
}

func (p *DataForSEOProvider) Name() string { return "dataforseo" }

type dataForSEOTask struct {
	Result []struct {
		Items []struct {
			Type        string `json:"type"`
			Rank        int    `json:"rank_absolute"`
			URL         string `json:"url"`
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"items"`
	} `json:"result"`
}

type dataForSEOResponse struct {
	Tasks []dataForSEOTask `json:"tasks"`
}

// Fetch implements Provider.
func (p *DataForSEOProvider) Fetch(ctx context.Context, keyword string, depth int) (*brief.SerpMetadata, error) {
	body, _ := json.Marshal([]map[string]interface{}{
		{
			"keyword":       keyword,
			"location_code": 2616,
			"language_code": "pl",
			"depth":         depth,
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.dataforseo.com/v3/serp/google/organic/live/advanced", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(p.login, p.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("dataforseo: unauthorized")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataforseo: status %d", resp.StatusCode)
	}

	var parsed dataForSEOResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	meta := &brief.SerpMetadata{Provider: p.Name()}
	for _, task := range parsed.Tasks {
		for _, result := range task.Result {
			for _, item := range result.Items {
				if item.Type != "organic" {
					continue
				}
				meta.Organic = append(meta.Organic, brief.SerpItem{
					Rank: item.Rank, URL: item.URL, Title: item.Title, Snippet: item.Description,
				})
				meta.Titles = append(meta.Titles, item.Title)
				meta.Snippets = append(meta.Snippets, item.Description)
			}
		}
	}

	return meta, nil
}

package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brajen/contentbrief/internal/config"
	apperrors "github.com/brajen/contentbrief/internal/errors"
	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/headings"
	"github.com/brajen/contentbrief/pkg/hierarchy"
	"github.com/brajen/contentbrief/pkg/serp"
	"github.com/brajen/contentbrief/pkg/synthesize"
)

const version = "1.0.0"

// Server holds the dependencies every HTTP handler needs.
type Server struct {
	engine *brief.Engine
	logger logr.Logger
}

// NewServer builds a Server around an already-wired Engine.
func NewServer(engine *brief.Engine, logger logr.Logger) *Server {
	return &Server{engine: engine, logger: logger}
}

// Routes builds the chi router for the full spec §6 API surface.
func (s *Server) Routes(cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth(cfg))
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/analyze", s.handleAnalyze)
	r.Post("/synthesize_topics", s.handleSynthesizeTopics)
	r.Post("/generate_compliance_report", s.handleComplianceReport)
	r.Post("/count_keywords_inherited", s.handleHierarchicalCount)
	r.Post("/top_headings", s.handleTopHeadings)
	r.Get("/debug/{provider}", s.handleDebugProvider)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	ae, ok := err.(*apperrors.AppError)
	if !ok {
		ae = apperrors.New(apperrors.ErrorTypeInternal, apperrors.SafeErrorMessage(err))
	}
	writeJSON(w, ae.StatusCode, map[string]string{
		"error":   apperrors.SafeErrorMessage(ae),
		"details": ae.Details,
	})
}

func (s *Server) handleHealth(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":             "ok",
			"version":            version,
			"entity_seo_enabled": cfg.EntitySEO.Enabled,
			"serp_provider":      cfg.SERP.Provider,
			"auth_failed":        serp.IsAuthFailed(),
		})
	}
}

// sourceInput is the request-side shape for a caller-supplied source (spec
// §8 seed scenario 2: {url, content, h2_structure}), distinct from
// brief.Source's response-side JSON tags.
type sourceInput struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	H2Structure []string `json:"h2_structure"`
}

type analyzeRequest struct {
	MainKeyword string        `json:"main_keyword"`
	TopN        int           `json:"top_n"`
	Sources     []sourceInput `json:"sources"`
	ProjectID   string        `json:"project_id"`
}

func wordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		isSpace := r == ' ' || r == '\n' || r == '\t' || r == '\r'
		if !isSpace && !inWord {
			count++
			inWord = true
		} else if isSpace {
			inWord = false
		}
	}
	return count
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("malformed request body"))
		return
	}
	if req.MainKeyword == "" {
		writeError(w, apperrors.NewValidationError("main_keyword is required"))
		return
	}

	var sources []brief.Source
	for _, si := range req.Sources {
		sources = append(sources, brief.Source{
			URL:       si.URL,
			Title:     si.Title,
			Text:      si.Content,
			H2:        si.H2Structure,
			WordCount: wordCount(si.Content),
		})
	}

	opts := brief.Options{TopN: req.TopN, Sources: sources, ProjectID: req.ProjectID}
	result, err := s.engine.Analyze(r.Context(), req.MainKeyword, opts)
	if err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "analyze failed"))
		return
	}

	if result.Summary.SourcesAutoFetched && result.Summary.SourcesCount == 0 {
		writeError(w, apperrors.New(apperrors.ErrorTypeValidation, "Nie udało się pobrać źródeł z SERP"))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// rawNgramItem accepts either a bare string or {"ngram": "..."} per the
// synthesize endpoint's permissive request shape (spec §6).
type rawNgramItem struct {
	Ngram string `json:"ngram"`
}

func decodeStringList(raw json.RawMessage) []string {
	var strs []string
	if err := json.Unmarshal(raw, &strs); err == nil {
		return strs
	}
	var items []rawNgramItem
	if err := json.Unmarshal(raw, &items); err == nil {
		out := make([]string, 0, len(items))
		for _, it := range items {
			if it.Ngram != "" {
				out = append(out, it.Ngram)
			}
		}
		return out
	}
	return nil
}

type synthesizeRequest struct {
	Ngrams   json.RawMessage `json:"ngrams"`
	Headings json.RawMessage `json:"headings"`
}

func (s *Server) handleSynthesizeTopics(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("malformed request body"))
		return
	}
	ngrams := decodeStringList(req.Ngrams)
	headingsList := decodeStringList(req.Headings)
	topics := synthesize.Topics(ngrams, headingsList)
	writeJSON(w, http.StatusOK, map[string]interface{}{"topic_importance": topics})
}

type complianceRequest struct {
	Text         string      `json:"text"`
	KeywordState interface{} `json:"keyword_state"`
}

func (s *Server) handleComplianceReport(w http.ResponseWriter, r *http.Request) {
	var req complianceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("malformed request body"))
		return
	}
	reports, nextState, err := s.engine.RunCompliance(req.Text, req.KeywordState)
	if err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "invalid keyword_state"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"compliance_report": reports,
		"new_keyword_state": nextState,
	})
}

type hierarchicalCountRequest struct {
	RawCounts map[string]int `json:"raw_counts"`
}

func (s *Server) handleHierarchicalCount(w http.ResponseWriter, r *http.Request) {
	var req hierarchicalCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("malformed request body"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hierarchical_counts": hierarchy.Count(req.RawCounts),
	})
}

type headingsRequest struct {
	Headings []string `json:"headings"`
}

func (s *Server) handleTopHeadings(w http.ResponseWriter, r *http.Request) {
	var req headingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("malformed request body"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"top_headings": headings.Top5(req.Headings),
	})
}

func (s *Server) handleDebugProvider(w http.ResponseWriter, r *http.Request) {
	providerName := chi.URLParam(r, "provider")
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		writeError(w, apperrors.NewValidationError("keyword query parameter is required"))
		return
	}
	meta, err := s.engine.SerpClient.Debug(r.Context(), providerName, keyword, 8)
	if err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.ErrorTypeNetwork, "provider debug call failed"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"provider":         providerName,
		"organic_count":    len(meta.Organic),
		"paa_count":        len(meta.PAA),
		"has_ai_overview":  meta.AIOverview != nil,
		"related_searches": meta.RelatedSearches,
		"refinement_chips": meta.RefinementChips,
	})
}

package brief

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brajen/contentbrief/pkg/cache"
	"github.com/brajen/contentbrief/pkg/causal"
	"github.com/brajen/contentbrief/pkg/compliance"
	"github.com/brajen/contentbrief/pkg/concept"
	"github.com/brajen/contentbrief/pkg/entity"
	"github.com/brajen/contentbrief/pkg/gap"
	"github.com/brajen/contentbrief/pkg/keyphrase"
	"github.com/brajen/contentbrief/pkg/lang"
	"github.com/brajen/contentbrief/pkg/metrics"
	"github.com/brajen/contentbrief/pkg/ngram"
	"github.com/brajen/contentbrief/pkg/relation"
	"github.com/brajen/contentbrief/pkg/salience"
	"github.com/brajen/contentbrief/pkg/scrape"
	"github.com/brajen/contentbrief/pkg/serp"
	"github.com/brajen/contentbrief/pkg/store"
)

// Options carries the per-request knobs for Analyze.
type Options struct {
	TopN    int
	Sources []Source // pre-supplied; if non-empty, SERP/scrape are skipped
	Depth   int
	ProjectID string
}

// Engine wires every component named in the component table into the
// SERP-to-brief pipeline (spec §4.N).
type Engine struct {
	Asset         lang.Asset
	SerpClient    *serp.Client
	Scraper       *scrape.Fetcher
	ScrapeWorkers int
	CausalPrimary causal.LLM
	CausalSecondary causal.LLM
	Store         store.BriefStore
	Cache         cache.Cache
	EntitySEOEnabled bool
}

// cacheTTL is how long a completed brief is kept in Cache before a repeat
// request for the same keyword re-runs the pipeline.
const cacheTTL = time.Hour

// NewEngine builds an Engine from its component dependencies. c may be
// cache.NoOp{} to disable caching.
func NewEngine(asset lang.Asset, serpClient *serp.Client, scraper *scrape.Fetcher, scrapeWorkers int, causalPrimary, causalSecondary causal.LLM, briefStore store.BriefStore, c cache.Cache, entitySEOEnabled bool) *Engine {
	return &Engine{
		Asset:            asset,
		SerpClient:       serpClient,
		Scraper:          scraper,
		ScrapeWorkers:    scrapeWorkers,
		CausalPrimary:    causalPrimary,
		CausalSecondary:  causalSecondary,
		Store:            briefStore,
		Cache:            c,
		EntitySEOEnabled: entitySEOEnabled,
	}
}

// Analyze runs the full pipeline end to end (spec §4.N steps 1-9).
func (e *Engine) Analyze(ctx context.Context, mainKeyword string, opts Options) (*Brief, error) {
	start := time.Now()
	defer func() { metrics.RecordAnalyzeDuration(time.Since(start)) }()

	if opts.Depth <= 0 {
		opts.Depth = 8
	}
	if opts.Depth > 20 {
		opts.Depth = 20
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = 30
	}

	requestID := uuid.NewString()
	ctx, span := StartSpan(ctx, "brief.Analyze")
	span.SetAttributes(attribute.String("request_id", requestID), attribute.String("main_keyword", mainKeyword))
	defer span.End()

	sources := opts.Sources
	autoFetched := len(sources) == 0
	cacheKey := "brief:" + mainKeyword

	if autoFetched && e.Cache != nil {
		var cached Brief
		if hit, err := e.Cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	var serpMeta *SerpMetadata

	if autoFetched {
		serpMeta = e.SerpClient.Fetch(ctx, mainKeyword, opts.Depth, nil)

		targets := make([]scrape.Target, 0, len(serpMeta.Organic))
		for _, item := range serpMeta.Organic {
			targets = append(targets, scrape.Target{Rank: item.Rank, URL: item.URL, Title: item.Title})
		}
		sources = scrape.PoolScrape(ctx, targets, e.Scraper.Fetch, e.ScrapeWorkers)
	} else {
		serpMeta = &SerpMetadata{}
	}

	highSignalText := buildHighSignalText(serpMeta)

	var concatenated strings.Builder
	for _, s := range sources {
		concatenated.WriteString(s.Text)
		concatenated.WriteString("\n\n")
	}
	corpus := concatenated.String()

	ngrams := ngram.Index(e.Asset, sources, highSignalText, mainKeyword)

	keyphraseCorpus := corpus
	if len(keyphraseCorpus) > 15*1024 {
		keyphraseCorpus = keyphraseCorpus[:15*1024]
	}
	keyphrases := keyphrase.Extract(keyphraseCorpus, 10)

	entities := entity.Extract(e.Asset, sources)
	concepts := concept.Extract(e.Asset, sources, mainKeyword)

	conceptDisplays := make([]string, 0, len(concepts))
	for _, c := range concepts {
		conceptDisplays = append(conceptDisplays, c.Display)
	}
	relations := relation.Extract(e.Asset, sources, conceptDisplays)

	var causalTriplets []CausalTriplet
	var gapResult gap.Result
	{
		texts := make([]string, 0, len(sources))
		for _, s := range sources {
			texts = append(texts, s.Text)
		}
		causalTriplets = causal.Extract(ctx, e.CausalPrimary, e.CausalSecondary, mainKeyword, texts, 15)

		var h2s []string
		for _, s := range sources {
			h2s = append(h2s, s.H2...)
		}
		gapResult = gap.Analyze(corpus, h2s, serpMeta.PAA, serpMeta.RelatedSearches, serpMeta.RefinementChips)
	}

	var entitySEO EntitySEO
	if e.EntitySEOEnabled {
		var h1s, h2s []string
		for _, s := range sources {
			if s.H1 != "" {
				h1s = append(h1s, s.H1)
			}
			h2s = append(h2s, s.H2...)
		}
		salienceSignals := salience.Compute(e.Asset, entities, sources, h1s, h2s, mainKeyword)
		cooc := salience.Cooccurrence(e.Asset, entities, sources)
		plan := salience.Plan(salienceSignals, cooc, relations, concepts)
		summary := concept.Summarize(concepts)

		entitySEO = EntitySEO{
			Entities:            entities,
			ConceptEntities:     concepts,
			TopicalSummary:      summary.Instruction,
			EntityRelationships: relations,
			TopicalCoverage:     append(summary.MustCover, summary.ShouldCover...),
			EntitySalience:      salienceSignals,
			EntityCooccurrence:  cooc,
			EntityPlacement:     &plan,
			EntitySEOSummary:    plan.Instruction,
		}
	}

	lengthAnalysis := computeLengthAnalysis(sources)

	h2Patterns := aggregateH2Patterns(sources)

	b := &Brief{
		MainKeyword:        mainKeyword,
		Ngrams:             capNgrams(ngrams, topN),
		SemanticKeyphrases: keyphrases,
		FullTextSample:     sample(corpus, 2000),
		SerpContent:        sample(corpus, 2000),
		SerpAnalysis: SerpAnalysis{
			PAAQuestions:         serpMeta.PAA,
			FeaturedSnippet:      serpMeta.FeaturedSnippet,
			AIOverview:           serpMeta.AIOverview,
			RelatedSearches:      serpMeta.RelatedSearches,
			RefinementChips:      serpMeta.RefinementChips,
			CompetitorTitles:     serpMeta.Titles,
			CompetitorSnippets:   serpMeta.Snippets,
			CompetitorH2Patterns: h2Patterns,
			Competitors:          competitorURLs(sources),
		},
		PAA:                  serpMeta.PAA,
		LengthAnalysis:       lengthAnalysis,
		RecommendedLength:    lengthAnalysis.Recommended,
		CompetitorH2Patterns: h2Patterns,
		EntitySEO:            entitySEO,
		CausalTriplets:       causal.Summarize(causalTriplets),
		ContentGaps:          gap.ToContentGaps(gapResult),
		Summary: Summary{
			RequestID:           requestID,
			SourcesAutoFetched:  autoFetched,
			SourcesCount:        len(sources),
			PAAAvailable:        len(serpMeta.PAA) > 0,
			AIOverviewAvailable: serpMeta.AIOverview != nil,
			EntitySEOEnabled:    e.EntitySEOEnabled,
			CausalAvailable:     len(causalTriplets) > 0,
		},
	}

	if opts.ProjectID != "" && e.Store != nil {
		_ = e.Store.Upsert(ctx, opts.ProjectID, b)
	}
	if autoFetched && e.Cache != nil {
		_ = e.Cache.Set(ctx, cacheKey, b, cacheTTL)
	}

	return b, nil
}

func buildHighSignalText(meta *SerpMetadata) string {
	var parts []string
	for _, p := range meta.PAA {
		parts = append(parts, p.Question)
	}
	parts = append(parts, meta.RefinementChips...)
	parts = append(parts, meta.RelatedSearches...)
	parts = append(parts, meta.Titles...)
	parts = append(parts, meta.Snippets...)
	return strings.Join(parts, " . ")
}

func capNgrams(ngrams []NGram, topN int) []NGram {
	if len(ngrams) > topN {
		return ngrams[:topN]
	}
	return ngrams
}

func sample(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func competitorURLs(sources []Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.URL)
	}
	return out
}

func computeLengthAnalysis(sources []Source) LengthAnalysis {
	if len(sources) == 0 {
		return LengthAnalysis{}
	}
	counts := make([]float64, 0, len(sources))
	sum := 0.0
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, s := range sources {
		wc := float64(s.WordCount)
		counts = append(counts, wc)
		sum += wc
		if wc < minV {
			minV = wc
		}
		if wc > maxV {
			maxV = wc
		}
	}
	mean := sum / float64(len(counts))
	sort.Float64s(counts)
	median := medianOf(counts)
	recommended := int(math.Ceil(mean * 1.10))

	return LengthAnalysis{
		Recommended:      recommended,
		AvgCompetitor:    mean,
		MedianCompetitor: median,
		MinCompetitor:    minV,
		MaxCompetitor:    maxV,
		CompetitorsCount: len(sources),
	}
}

func medianOf(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	mid := n / 2
	if n%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func aggregateH2Patterns(sources []Source) []H2Pattern {
	counts := map[string]int{}
	sourceSets := map[string]map[int]bool{}
	var order []string
	for srcIdx, s := range sources {
		for _, h2 := range s.H2 {
			key := strings.ToLower(strings.TrimSpace(h2))
			if key == "" {
				continue
			}
			if _, ok := counts[key]; !ok {
				order = append(order, key)
				sourceSets[key] = map[int]bool{}
			}
			counts[key]++
			sourceSets[key][srcIdx] = true
		}
	}
	patterns := make([]H2Pattern, 0, len(order))
	for _, key := range order {
		patterns = append(patterns, H2Pattern{Text: key, Count: counts[key], Sources: len(sourceSets[key])})
	}
	sort.Slice(patterns, func(i, j int) bool { return patterns[i].Count > patterns[j].Count })
	return patterns
}

// RunCompliance is the /generate_compliance_report entry point (spec
// §4.M), a thin wrapper kept alongside Engine so callers needn't import
// pkg/compliance directly.
func (e *Engine) RunCompliance(text string, rawState interface{}) ([]compliance.KeywordReport, KeywordState, error) {
	metrics.RecordComplianceBatch()
	state, err := compliance.ParseKeywordState(rawState)
	if err != nil {
		return nil, nil, err
	}
	reports, next := compliance.Report(e.Asset, text, state)
	return reports, next, nil
}

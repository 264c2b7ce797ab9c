// Package brief holds the shared value types every pipeline stage produces
// or consumes (spec §3 Data Model) and Engine, the orchestrator that runs
// the full SERP-to-brief pipeline (spec §4.N).
package brief

// SerpQuery is the per-request query description (spec §3).
type SerpQuery struct {
	MainKeyword string `json:"main_keyword"`
	Depth       int    `json:"depth"`
	Locale      string `json:"locale"`
}

// SerpItem is one organic result (spec §3).
type SerpItem struct {
	Rank      int    `json:"rank"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	WordCount *int   `json:"word_count,omitempty"`
}

// PAAEntry is one People-Also-Ask question (spec glossary).
type PAAEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Source   string `json:"source,omitempty"`
}

// AIOverview is Google's generative answer block (spec glossary), possibly
// a continuation stub awaiting a follow-up request (spec §4.D).
type AIOverview struct {
	Text              string   `json:"text"`
	Sources           []string `json:"sources"`
	Blocks            []string `json:"blocks"`
	ContinuationToken string   `json:"-"`
}

// SerpMetadata is the provider-agnostic SERP response shape (spec §4.D).
type SerpMetadata struct {
	PAA             []PAAEntry  `json:"paa"`
	FeaturedSnippet *string     `json:"featured_snippet"`
	AIOverview      *AIOverview `json:"ai_overview"`
	RelatedSearches []string    `json:"related_searches"`
	RefinementChips []string    `json:"refinement_chips"`
	Organic         []SerpItem  `json:"-"`
	Titles          []string    `json:"-"`
	Snippets        []string    `json:"-"`
	Provider        string      `json:"provider"`
	AuthFailed      bool        `json:"-"`
}

// Source is scraped, sanitized page content (spec §3).
type Source struct {
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Text      string   `json:"-"`
	H2        []string `json:"h2"`
	H1        string   `json:"h1,omitempty"`
	WordCount int      `json:"word_count"`
}

// NGram is one lemma-keyed n-gram entry (spec §4.E).
type NGram struct {
	Ngram            string `json:"ngram"`
	NgramLemma       string `json:"ngram_lemma"`
	Type             int    `json:"-"`
	Freq             int    `json:"freq"`
	FreqTotal        int    `json:"freq_total"`
	IsHighSignal     bool   `json:"is_high_signal"`
	Weight           float64 `json:"weight"`
	SiteDistribution string `json:"site_distribution"`
	FreqPerSource    []int  `json:"freq_per_source"`
	FreqMin          int    `json:"freq_min"`
	FreqMedian       float64 `json:"freq_median"`
	FreqMax          int    `json:"freq_max"`
}

// SemanticKeyphrase is a TF-IDF-ranked key phrase (spec §4.F).
type SemanticKeyphrase struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

// NamedEntity is an aggregated NER hit (spec §4.G).
type NamedEntity struct {
	Text           string         `json:"text"`
	Key            string         `json:"key"`
	Type           string         `json:"type"`
	Freq           int            `json:"freq"`
	FreqPerSource  map[int]int    `json:"freq_per_source"`
	Importance     float64        `json:"importance"`
	ContextSnippets []string      `json:"context_snippets"`
	Sources        map[int]bool   `json:"-"`
}

// ConceptEntity is a POS-chunk-derived multi-word noun phrase (spec §4.H).
type ConceptEntity struct {
	Display         string       `json:"display"`
	LemmaKey        string       `json:"lemma_key"`
	Kind            string       `json:"kind"`
	Freq            int          `json:"freq"`
	FreqPerSource   map[int]int  `json:"freq_per_source"`
	Variants        []string     `json:"variants"`
	Importance      float64      `json:"importance"`
	ContextSnippets []string     `json:"context_snippets"`
	Sources         map[int]bool `json:"-"`
	MaxWordCount    int          `json:"-"`
}

// Relation is a subject-verb-object triple (spec §4.I).
type Relation struct {
	Subject      string `json:"subject"`
	Verb         string `json:"verb"`
	Object       string `json:"object"`
	RelationType string `json:"relation_type"`
	Freq         int    `json:"freq"`
}

// CausalTriplet is an LLM-mined cause-effect pair (spec §4.J).
type CausalTriplet struct {
	Cause          string  `json:"cause"`
	Effect         string  `json:"effect"`
	RelationType   string  `json:"relation_type"`
	Confidence     float64 `json:"confidence"`
	SourceSentence string  `json:"source_sentence,omitempty"`
	IsChain        bool    `json:"is_chain"`
}

// Gap is a topical coverage gap (spec §4.K).
type Gap struct {
	Topic           string `json:"topic"`
	Kind            string `json:"kind"`
	Priority        int    `json:"priority"`
	SuggestedH2     string `json:"suggested_h2,omitempty"`
}

// SalienceSignals is the per-entity salience scoring record (spec §4.L).
type SalienceSignals struct {
	Entity           string  `json:"entity"`
	Type             string  `json:"type"`
	AvgPositionRatio float64 `json:"avg_position_ratio"`
	EarlyMentions    int     `json:"early_mentions"`
	H1Count          int     `json:"h1_count"`
	H2Count          int     `json:"h2_count"`
	SubjectCount     int     `json:"subject_count"`
	ObjectCount      int     `json:"object_count"`
	SubjectRatio     float64 `json:"subject_ratio"`
	Freq             int     `json:"freq"`
	SourcesCount     int     `json:"sources_count"`
	Salience         float64 `json:"salience"`
}

// CoOccurrencePair is two entities that co-occur (spec §4.L).
type CoOccurrencePair struct {
	EntityA         string  `json:"entity_a"`
	EntityB         string  `json:"entity_b"`
	SentenceCount   int     `json:"sentence_count"`
	ParagraphCount  int     `json:"paragraph_count"`
	SourcesCount    int     `json:"sources_count"`
	Strength        float64 `json:"strength"`
	SampleContext   string  `json:"sample_context,omitempty"`
}

// PlacementPlan is the writer-facing entity placement instruction (spec
// §4.L).
type PlacementPlan struct {
	Primary           string             `json:"primary"`
	Secondary         []string           `json:"secondary"`
	Supporting        []string           `json:"supporting"`
	MustCoverConcepts []string           `json:"must_cover_concepts"`
	StrongPairs       []CoOccurrencePair `json:"strong_pairs"`
	TopRelations      []Relation         `json:"top_relations"`
	Instruction       string             `json:"instruction"`
}

// KeywordBound is the {min,max} room for a single compliance keyword.
type KeywordBound struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// KeywordState is the caller-owned compliance state (spec §4.M).
type KeywordState map[string]KeywordBound

// LengthAnalysis summarises competitor word counts (spec §4.N step 8).
type LengthAnalysis struct {
	Recommended      int     `json:"recommended"`
	AvgCompetitor    float64 `json:"avg_competitor"`
	MedianCompetitor float64 `json:"median_competitor"`
	MinCompetitor    float64 `json:"min_competitor"`
	MaxCompetitor    float64 `json:"max_competitor"`
	CompetitorsCount int     `json:"competitors_count"`
}

// H2Pattern is one aggregated competitor H2 (spec §6 competitor_h2_patterns).
type H2Pattern struct {
	Text    string `json:"text"`
	Count   int    `json:"count"`
	Sources int    `json:"sources"`
}

// SerpAnalysis is the §6 serp_analysis response block.
type SerpAnalysis struct {
	PAAQuestions        []PAAEntry  `json:"paa_questions"`
	FeaturedSnippet     *string     `json:"featured_snippet"`
	AIOverview          *AIOverview `json:"ai_overview"`
	RelatedSearches     []string    `json:"related_searches"`
	RefinementChips     []string    `json:"refinement_chips"`
	CompetitorTitles    []string    `json:"competitor_titles"`
	CompetitorSnippets  []string    `json:"competitor_snippets"`
	CompetitorH2Patterns []H2Pattern `json:"competitor_h2_patterns"`
	Competitors         []string    `json:"competitors"`
}

// EntitySEO is the §6 entity_seo response block.
type EntitySEO struct {
	Entities            []NamedEntity      `json:"entities"`
	ConceptEntities     []ConceptEntity    `json:"concept_entities"`
	TopicalSummary      string             `json:"topical_summary"`
	EntityRelationships []Relation         `json:"entity_relationships"`
	TopicalCoverage     []string           `json:"topical_coverage"`
	EntitySalience      []SalienceSignals  `json:"entity_salience"`
	EntityCooccurrence  []CoOccurrencePair `json:"entity_cooccurrence"`
	EntityPlacement     *PlacementPlan     `json:"entity_placement"`
	EntitySEOSummary    string             `json:"entity_seo_summary"`
}

// CausalSummary is the §6 causal_triplets response block.
type CausalSummary struct {
	Count             int             `json:"count"`
	Chains            []CausalTriplet `json:"chains"`
	Singles           []CausalTriplet `json:"singles"`
	AgentInstruction  string          `json:"agent_instruction"`
}

// ContentGaps is the §6 content_gaps response block.
type ContentGaps struct {
	TotalGaps       int      `json:"total_gaps"`
	SuggestedNewH2s []string `json:"suggested_new_h2s"`
	PAAUnanswered   []Gap    `json:"paa_unanswered"`
	SubtopicMissing []Gap    `json:"subtopic_missing"`
	DepthMissing    []Gap    `json:"depth_missing"`
	Instruction     string   `json:"instruction"`
	AllGaps         []Gap    `json:"all_gaps"`
	Status          string   `json:"status"`
}

// Summary is the §6 summary response block: feature flags and counts.
type Summary struct {
	RequestID          string `json:"request_id"`
	SourcesAutoFetched bool `json:"sources_auto_fetched"`
	SourcesCount       int  `json:"sources_count"`
	PAAAvailable       bool `json:"paa_available"`
	AIOverviewAvailable bool `json:"ai_overview_available"`
	EntitySEOEnabled   bool `json:"entity_seo_enabled"`
	CausalAvailable    bool `json:"causal_available"`
}

// Brief is the full /analyze response payload (spec §6).
type Brief struct {
	MainKeyword         string              `json:"main_keyword"`
	Ngrams              []NGram             `json:"ngrams"`
	SemanticKeyphrases  []SemanticKeyphrase `json:"semantic_keyphrases"`
	FullTextSample      string              `json:"full_text_sample"`
	SerpContent         string              `json:"serp_content"`
	SerpAnalysis        SerpAnalysis        `json:"serp_analysis"`
	PAA                 []PAAEntry          `json:"paa"`
	LengthAnalysis      LengthAnalysis      `json:"length_analysis"`
	RecommendedLength   int                 `json:"recommended_length"`
	CompetitorH2Patterns []H2Pattern        `json:"competitor_h2_patterns"`
	EntitySEO           EntitySEO           `json:"entity_seo"`
	CausalTriplets      CausalSummary       `json:"causal_triplets"`
	ContentGaps         ContentGaps         `json:"content_gaps"`
	Summary             Summary             `json:"summary"`
}

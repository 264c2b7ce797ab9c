// Package gap compares competitor coverage against user demand to surface
// content gaps (spec §4.K): unanswered PAA questions, missing subtopic
// clusters, and missing depth signals. Failure is non-fatal — callers
// receive a {status: "FAILED"} result rather than an error.
package gap

import (
	"regexp"
	"sort"
	"strings"

	"github.com/brajen/contentbrief/pkg/brief"
)

var contentWordRe = regexp.MustCompile(`[a-ząćęłńóśźż]{4,}`)

func contentWords(s string) []string {
	return contentWordRe.FindAllString(strings.ToLower(s), -1)
}

func distinctCoverageThreshold(question string) int {
	words := contentWords(question)
	switch {
	case len(words) <= 3:
		return 1
	case len(words) <= 6:
		return 2
	default:
		return 3
	}
}

func paaUnanswered(corpus string, paa []brief.PAAEntry) []brief.Gap {
	lowerCorpus := strings.ToLower(corpus)
	var gaps []brief.Gap
	for _, q := range paa {
		words := contentWords(q.Question)
		if len(words) == 0 {
			continue
		}
		covered := 0
		for _, w := range words {
			if strings.Contains(lowerCorpus, w) {
				covered++
			}
		}
		if covered < distinctCoverageThreshold(q.Question) {
			gaps = append(gaps, brief.Gap{
				Topic:       q.Question,
				Kind:        "paa_unanswered",
				Priority:    1,
				SuggestedH2: q.Question,
			})
		}
	}
	return gaps
}

func threeWordKey(s string) string {
	words := contentWords(s)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

func subtopicMissing(competitorH2s []string, relatedSearches, refinementChips []string) []brief.Gap {
	clusterCounts := map[string]int{}
	for _, h2 := range competitorH2s {
		key := threeWordKey(h2)
		if key == "" {
			continue
		}
		clusterCounts[key]++
	}
	total := len(competitorH2s)

	var gaps []brief.Gap
	seen := map[string]bool{}
	for _, candidate := range append(append([]string{}, relatedSearches...), refinementChips...) {
		key := threeWordKey(candidate)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		coverage := 0.0
		if total > 0 {
			coverage = float64(clusterCounts[key]) / float64(total)
		}
		if coverage < 0.30 {
			gaps = append(gaps, brief.Gap{
				Topic:       candidate,
				Kind:        "subtopic_missing",
				Priority:    2,
				SuggestedH2: candidate,
			})
		}
	}
	return gaps
}

type depthSignal struct {
	name    string
	pattern *regexp.Regexp
}

var depthSignals = []depthSignal{
	{"numeric_data", regexp.MustCompile(`\d+[.,]?\d*\s*(%|zł|pln)`)},
	{"date_reference", regexp.MustCompile(`\b(19|20)\d{2}\b`)},
	{"institutional_citation", regexp.MustCompile(`(?i)s[ąa]d|ministerstwo|urząd|gus`)},
	{"research_citation", regexp.MustCompile(`(?i)badani[ae]|raport|statystyk`)},
	{"legal_reference", regexp.MustCompile(`(?i)art\.\s?\d+|kodeks|ustaw[ay]`)},
	{"edge_cases", regexp.MustCompile(`(?i)wyjątek|w przypadku gdy|jeżeli jednak`)},
	{"comparisons", regexp.MustCompile(`(?i)w porównaniu|natomiast|z drugiej strony`)},
	{"step_by_step", regexp.MustCompile(`(?i)krok \d|po pierwsze|następnie`)},
}

func depthMissing(corpus string) []brief.Gap {
	var gaps []brief.Gap
	for _, sig := range depthSignals {
		if !sig.pattern.MatchString(corpus) {
			gaps = append(gaps, brief.Gap{
				Topic:    sig.name,
				Kind:     "depth_missing",
				Priority: 3,
			})
		}
	}
	return gaps
}

// Result is the gap-analysis outcome for the response envelope.
type Result struct {
	PAAUnanswered   []brief.Gap
	SubtopicMissing []brief.Gap
	DepthMissing    []brief.Gap
	Status          string
}

// Analyze runs all three gap families. On an empty corpus it returns a
// non-fatal {status: "FAILED"} result.
func Analyze(corpus string, competitorH2s []string, paa []brief.PAAEntry, relatedSearches, refinementChips []string) Result {
	if strings.TrimSpace(corpus) == "" {
		return Result{Status: "FAILED"}
	}
	return Result{
		PAAUnanswered:   paaUnanswered(corpus, paa),
		SubtopicMissing: subtopicMissing(competitorH2s, relatedSearches, refinementChips),
		DepthMissing:    depthMissing(corpus),
		Status:          "OK",
	}
}

// ToContentGaps assembles the §6 content_gaps response block from a
// Result, producing suggested H2s, an ordered priority list, and a writer
// instruction string.
func ToContentGaps(r Result) brief.ContentGaps {
	if r.Status != "OK" {
		return brief.ContentGaps{Status: r.Status}
	}

	all := append(append(append([]brief.Gap{}, r.PAAUnanswered...), r.SubtopicMissing...), r.DepthMissing...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Priority < all[j].Priority })

	var suggestedH2s []string
	for _, g := range all {
		if g.SuggestedH2 != "" {
			suggestedH2s = append(suggestedH2s, g.SuggestedH2)
		}
	}

	instruction := ""
	if len(all) > 0 {
		instruction = "Address the unanswered PAA questions and missing subtopics as new H2 sections; fill the missing depth signals within existing sections."
	}

	return brief.ContentGaps{
		TotalGaps:       len(all),
		SuggestedNewH2s: suggestedH2s,
		PAAUnanswered:   r.PAAUnanswered,
		SubtopicMissing: r.SubtopicMissing,
		DepthMissing:    r.DepthMissing,
		Instruction:     instruction,
		AllGaps:         all,
		Status:          r.Status,
	}
}

// Package concept emulates a noun-chunk extractor over the rule-based
// Polish POS tags (spec §4.H): since the in-repo language asset has no
// built-in chunk iterator, consecutive NOUN/PROPN/ADJ runs stand in for
// noun phrases, scored by distribution, frequency and keyword overlap.
package concept

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/garbage"
	"github.com/brajen/contentbrief/pkg/lang"
)

var (
	cssSignatureRe  = regexp.MustCompile(`(?i)^-(webkit|moz|ms|o)-|var\(|calc\(|^#[0-9a-f]{3,8}$`)
	vowels          = "aeiouyąęó"
	punctTrimRe     = regexp.MustCompile(`^[^\p{L}\p{N}]+|[^\p{L}\p{N}]+$`)
	whitespaceCollapseRe = regexp.MustCompile(`\s+`)
)

type chunkAgg struct {
	surfaceCounts   map[string]int
	freq            int
	perSource       map[int]int
	presence        map[int]bool
	contextSnippets []string
	maxWordCount    int
}

// Extract finds candidate noun-phrase spans across sources and returns the
// top-30 ConceptEntity list ranked by importance.
func Extract(asset lang.Asset, sources []brief.Source, mainKeyword string) []brief.ConceptEntity {
	agg := map[string]*chunkAgg{}

	for srcIdx, src := range sources {
		text := src.Text
		if len(text) > 50*1024 {
			text = text[:50*1024]
		}
		for _, sent := range asset.Sentences(text) {
			spans := findSpans(sent.Tokens)
			for _, span := range spans {
				surface, lemmaKey, wordCount, ok := normalizeSpan(asset, span)
				if !ok {
					continue
				}
				a, exists := agg[lemmaKey]
				if !exists {
					a = &chunkAgg{
						surfaceCounts: map[string]int{},
						perSource:     map[int]int{},
						presence:      map[int]bool{},
					}
					agg[lemmaKey] = a
				}
				a.surfaceCounts[surface]++
				a.freq++
				a.perSource[srcIdx]++
				a.presence[srcIdx] = true
				if wordCount > a.maxWordCount {
					a.maxWordCount = wordCount
				}
				if len(a.contextSnippets) < 3 {
					a.contextSnippets = append(a.contextSnippets, surface)
				}
			}
		}
	}

	mainKeywordLower := strings.ToLower(mainKeyword)
	var results []brief.ConceptEntity
	for lemmaKey, a := range agg {
		if a.freq < 2 || len(a.presence) < 1 {
			continue
		}
		display := pickDisplay(a.surfaceCounts)
		if display == "" {
			continue
		}

		wordCount := a.maxWordCount
		kind := "TOPICAL"
		if wordCount <= 2 {
			kind = "CONCEPT"
		}

		distribution := 0.0
		if len(sources) > 0 {
			distribution = float64(len(a.presence)) / float64(len(sources))
		}
		freqBonus := math.Log(float64(a.freq)+1) * 0.06
		if freqBonus > 0.25 {
			freqBonus = 0.25
		}
		var specificity float64
		switch {
		case wordCount == 1:
			specificity = 0.10
		case wordCount == 2:
			specificity = 0.20
		case wordCount == 3:
			specificity = 0.18
		default:
			specificity = 0.08
		}
		keywordOverlap := 0.0
		if mainKeywordLower != "" && strings.Contains(display, mainKeywordLower) {
			keywordOverlap = 1.0
		}
		importance := distribution*0.35 + freqBonus + specificity + keywordOverlap*0.20
		if importance > 1.0 {
			importance = 1.0
		}

		variants := make([]string, 0, len(a.surfaceCounts))
		for s := range a.surfaceCounts {
			variants = append(variants, s)
		}
		sort.Strings(variants)

		perSource := make(map[int]int, len(a.perSource))
		for k, v := range a.perSource {
			perSource[k] = v
		}
		srcSet := make(map[int]bool, len(a.presence))
		for k := range a.presence {
			srcSet[k] = true
		}

		results = append(results, brief.ConceptEntity{
			Display:         display,
			LemmaKey:        lemmaKey,
			Kind:            kind,
			Freq:            a.freq,
			FreqPerSource:   perSource,
			Variants:        variants,
			Importance:      importance,
			ContextSnippets: a.contextSnippets,
			Sources:         srcSet,
			MaxWordCount:    wordCount,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Importance > results[j].Importance })
	if len(results) > 30 {
		results = results[:30]
	}
	return results
}

func findSpans(tokens []lang.Token) [][]lang.Token {
	var spans [][]lang.Token
	var current []lang.Token
	flush := func() {
		if len(current) >= 2 && len(current) <= 5 {
			last := current[len(current)-1]
			if last.POS == "NOUN" || last.POS == "PROPN" {
				spans = append(spans, append([]lang.Token(nil), current...))
			}
		}
		current = nil
	}
	for _, tok := range tokens {
		if tok.POS == "NOUN" || tok.POS == "PROPN" || tok.POS == "ADJ" {
			current = append(current, tok)
		} else {
			flush()
		}
	}
	flush()
	return spans
}

func normalizeSpan(asset lang.Asset, span []lang.Token) (surface, lemmaKey string, wordCount int, ok bool) {
	var words []string
	for _, tok := range span {
		words = append(words, tok.Text)
	}
	raw := strings.Join(words, " ")
	normalized := whitespaceCollapseRe.ReplaceAllString(strings.ToLower(raw), " ")
	normalized = punctTrimRe.ReplaceAllString(normalized, "")
	normalized = strings.TrimSpace(normalized)

	if len([]rune(normalized)) < 3 || len([]rune(normalized)) > 80 {
		return "", "", 0, false
	}
	if cssSignatureRe.MatchString(normalized) || garbage.IsGarbage(normalized) {
		return "", "", 0, false
	}
	if alphaRatio(normalized) < 0.6 {
		return "", "", 0, false
	}

	parts := strings.Fields(normalized)
	if len(parts) > 5 {
		return "", "", 0, false
	}
	if len(parts) == 2 && asset.IsStopWord(parts[0]) {
		return "", "", 0, false
	}

	allStop := true
	var lemmas []string
	for _, p := range parts {
		if asset.IsStopWord(p) {
			continue
		}
		allStop = false
		if len([]rune(p)) > 2 {
			lemmas = append(lemmas, asset.Stem(p))
		}
	}
	if allStop {
		return "", "", 0, false
	}
	sort.Strings(lemmas)

	return normalized, strings.Join(lemmas, " "), len(parts), true
}

func alphaRatio(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	letters, total := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}

// pickDisplay chooses the most frequent surface form that passes the typo
// heuristic: after the first vowel, a run of >= 4 consonants in the middle
// of a word signals a scraped typo rather than a real Polish word.
func pickDisplay(counts map[string]int) string {
	type candidate struct {
		surface string
		count   int
	}
	var candidates []candidate
	for s, c := range counts {
		candidates = append(candidates, candidate{s, c})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].surface < candidates[j].surface
	})
	for _, c := range candidates {
		if !looksLikeTypo(c.surface) {
			return c.surface
		}
	}
	if len(candidates) > 0 {
		return candidates[0].surface
	}
	return ""
}

// Summary is the writer-facing must-cover/should-cover partition of a
// ConceptEntity list (spec §4.H companion summariser).
type Summary struct {
	MustCover   []string `json:"must_cover"`
	ShouldCover []string `json:"should_cover"`
	Instruction string   `json:"instruction"`
}

// Summarize partitions concepts into must-cover (sources >= 2 and
// importance >= 0.3) and should-cover (importance >= 0.2) sets.
func Summarize(concepts []brief.ConceptEntity) Summary {
	var mustCover, shouldCover []string
	for _, c := range concepts {
		switch {
		case len(c.Sources) >= 2 && c.Importance >= 0.3:
			mustCover = append(mustCover, c.Display)
		case c.Importance >= 0.2:
			shouldCover = append(shouldCover, c.Display)
		}
	}

	var b strings.Builder
	if len(mustCover) > 0 {
		b.WriteString("Must cover: " + strings.Join(mustCover, ", ") + ". ")
	}
	if len(shouldCover) > 0 {
		b.WriteString("Should cover: " + strings.Join(shouldCover, ", ") + ".")
	}

	return Summary{MustCover: mustCover, ShouldCover: shouldCover, Instruction: strings.TrimSpace(b.String())}
}

func looksLikeTypo(phrase string) bool {
	for _, word := range strings.Fields(phrase) {
		runes := []rune(word)
		firstVowel := -1
		for i, r := range runes {
			if strings.ContainsRune(vowels, unicode.ToLower(r)) {
				firstVowel = i
				break
			}
		}
		if firstVowel < 0 {
			continue
		}
		run := 0
		for i := firstVowel + 1; i < len(runes)-1; i++ {
			if strings.ContainsRune(vowels, unicode.ToLower(runes[i])) {
				run = 0
				continue
			}
			run++
			if run >= 4 {
				return true
			}
		}
	}
	return false
}

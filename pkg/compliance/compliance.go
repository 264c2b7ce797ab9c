// Package compliance implements the stateful, per-batch keyword compliance
// counter (spec §4.M): it tallies how many times each required keyword
// appears in a draft (exact lemma-sequence match, topped up with a fuzzy
// pass) and derives the remaining {min,max} room for the next batch. The
// server keeps no session state — KeywordState is round-tripped by the
// caller (spec §9 "Stateful compliance is caller-owned").
package compliance

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/lang"
)

// KeywordReport is one line of the compliance_report response (spec §6).
type KeywordReport struct {
	Keyword       string `json:"keyword"`
	RangeRemaining string `json:"range_remaining"`
	ActualInBatch int    `json:"actual_in_batch"`
	Status        string `json:"status"`
}

var (
	rangeRe = regexp.MustCompile(`^(.*?):\s*(\d+)\s*(?:-|–|—)\s*(\d+)\s*x?\s*$`)
	maxRe   = regexp.MustCompile(`^(.*?):\s*(\d+)\s*x?\s*$`)
)

// ParseKeywordState interprets raw as either a free-form brief string (spec
// §4.M state parsing rules 1-3) or an already-structured mapping (passed
// through unchanged after shape validation).
func ParseKeywordState(raw interface{}) (brief.KeywordState, error) {
	switch v := raw.(type) {
	case brief.KeywordState:
		return v, nil
	case map[string]brief.KeywordBound:
		return brief.KeywordState(v), nil
	case map[string]interface{}:
		state := brief.KeywordState{}
		for k, val := range v {
			bound, err := coerceBound(val)
			if err != nil {
				return nil, fmt.Errorf("invalid keyword_state entry for %q: %w", k, err)
			}
			state[k] = bound
		}
		return state, nil
	case string:
		return parseKeywordStateString(v), nil
	default:
		return nil, fmt.Errorf("unsupported keyword_state type %T", raw)
	}
}

func coerceBound(val interface{}) (brief.KeywordBound, error) {
	m, ok := val.(map[string]interface{})
	if !ok {
		return brief.KeywordBound{}, fmt.Errorf("expected object with min/max")
	}
	min, err := toInt(m["min"])
	if err != nil {
		return brief.KeywordBound{}, err
	}
	max, err := toInt(m["max"])
	if err != nil {
		return brief.KeywordBound{}, err
	}
	return brief.KeywordBound{Min: min, Max: max}, nil
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("expected numeric value, got %T", v)
	}
}

func parseKeywordStateString(text string) brief.KeywordState {
	state := brief.KeywordState{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := rangeRe.FindStringSubmatch(line); m != nil {
			min, _ := strconv.Atoi(m[2])
			max, _ := strconv.Atoi(m[3])
			name := strings.TrimSpace(m[1])
			if name != "" {
				state[name] = brief.KeywordBound{Min: min, Max: max}
			}
			continue
		}
		if m := maxRe.FindStringSubmatch(line); m != nil {
			max, _ := strconv.Atoi(m[2])
			name := strings.TrimSpace(m[1])
			if name != "" {
				state[name] = brief.KeywordBound{Min: 1, Max: max}
			}
			continue
		}
		state[line] = brief.KeywordBound{Min: 1, Max: 99}
	}
	return state
}

// CountExact is the simple counting precursor to the stateful fuzzy
// counter, kept as an exported building block in the spirit of the
// original's keyword_validator.py: how many non-overlapping times keyword
// appears in text as a plain substring.
func CountExact(text, keyword string) int {
	if keyword == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), strings.ToLower(keyword))
}

// Report runs one compliance batch: text against state, using asset for
// lemmatization. Returns the per-keyword report lines (sorted by keyword
// for deterministic output) and the derived next state.
func Report(asset lang.Asset, text string, state brief.KeywordState) ([]KeywordReport, brief.KeywordState) {
	textLemmas := lemmasOf(asset, text)

	keywords := make([]string, 0, len(state))
	for k := range state {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	reports := make([]KeywordReport, 0, len(keywords))
	newState := brief.KeywordState{}

	for _, kw := range keywords {
		bound := state[kw]
		kwLemmas := lemmasOf(asset, kw)
		actual := countMatches(textLemmas, kwLemmas, bound.Max)

		status := "OK"
		if actual > bound.Max {
			status = "OVER"
		}

		newMin := bound.Min - actual
		if newMin < 0 {
			newMin = 0
		}
		newMax := bound.Max - actual
		if newMax < 0 {
			newMax = 0
		}
		if newMin > newMax {
			newMax = newMin
		}

		reports = append(reports, KeywordReport{
			Keyword:        kw,
			RangeRemaining: fmt.Sprintf("%d-%d", bound.Min, bound.Max),
			ActualInBatch:  actual,
			Status:         status,
		})
		newState[kw] = brief.KeywordBound{Min: newMin, Max: newMax}
	}

	return reports, newState
}

func lemmasOf(asset lang.Asset, text string) []string {
	var lemmas []string
	for _, tok := range asset.Tokens(text) {
		if tok.IsAlpha {
			lemmas = append(lemmas, strings.ToLower(tok.Lemma))
		}
	}
	return lemmas
}

// countMatches counts exact sliding-window matches of kwLemmas within
// textLemmas, then tops up with fuzzy matches (token_set_ratio >= 90) up to
// max, per spec §4.M.
func countMatches(textLemmas, kwLemmas []string, max int) int {
	kwLen := len(kwLemmas)
	if kwLen == 0 || len(textLemmas) < kwLen {
		return 0
	}
	kwJoined := strings.Join(kwLemmas, " ")

	used := make([]bool, len(textLemmas))
	exact := 0
	for i := 0; i+kwLen <= len(textLemmas); i++ {
		if windowEquals(textLemmas[i:i+kwLen], kwLemmas) {
			exact++
			for j := i; j < i+kwLen; j++ {
				used[j] = true
			}
		}
	}

	actual := exact
	if actual >= max {
		return actual
	}

	room := max - actual
	fuzzyHits := 0
	for start := 0; start < len(textLemmas) && fuzzyHits < room; start++ {
		if used[start] {
			continue
		}
		matched := false
		for winLen := kwLen; winLen <= kwLen+2 && !matched; winLen++ {
			end := start + winLen
			if end > len(textLemmas) {
				break
			}
			overlaps := false
			for j := start; j < end; j++ {
				if used[j] {
					overlaps = true
					break
				}
			}
			if overlaps {
				continue
			}
			window := strings.Join(textLemmas[start:end], " ")
			if tokenSetRatio(window, kwJoined) >= 90 {
				for j := start; j < end; j++ {
					used[j] = true
				}
				fuzzyHits++
				matched = true
			}
		}
	}

	return actual + fuzzyHits
}

func windowEquals(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// tokenSetRatio is a hand-rolled approximation of rapidfuzz's
// token_set_ratio (no Go port of rapidfuzz exists in the example corpus):
// it builds the intersection/difference token sets of a and b, then scores
// the best pairwise Levenshtein-based ratio among (intersection,
// intersection+diffA), (intersection, intersection+diffB), and
// (intersection+diffA, intersection+diffB).
func tokenSetRatio(a, b string) int {
	tokensA := uniqueSortedTokens(a)
	tokensB := uniqueSortedTokens(b)

	var intersection, onlyA, onlyB []string
	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}
	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}
	for _, t := range tokensA {
		if setB[t] {
			intersection = append(intersection, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tokensB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}

	t0 := strings.Join(intersection, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	best := ratio(t0, t1)
	if r := ratio(t0, t2); r > best {
		best = r
	}
	if r := ratio(t1, t2); r > best {
		best = r
	}
	return best
}

func uniqueSortedTokens(s string) []string {
	seen := map[string]bool{}
	var out []string
	for _, tok := range strings.Fields(s) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	sort.Strings(out)
	return out
}

func ratio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	lenSum := len([]rune(a)) + len([]rune(b))
	if lenSum == 0 {
		return 100
	}
	return int((float64(lenSum-dist) / float64(lenSum)) * 100)
}

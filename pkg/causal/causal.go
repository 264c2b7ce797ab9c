// Package causal mines cause-effect triplets from competitor text via an
// LLM prompt (spec §4.J): primary backend tried first, secondary on
// failure, chain detection by indexing on the first three effect words.
package causal

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/brajen/contentbrief/pkg/brief"
)

// closedTypes is spec §3's CausalTriplet.RelationType closed set.
var closedTypes = map[string]bool{
	"causes":            true,
	"may_cause":         true,
	"prevents":          true,
	"requires":          true,
	"enables":           true,
	"leads_to":          true,
	"results_from":      true,
	"initiates":         true,
	"treats":            true,
	"deficiency_causes": true,
	"omission_causes":   true,
	"untreated_causes":  true,
	"required_for":      true,
}

const maxCorpusBytes = 8 * 1024

type rawTriplet struct {
	Cause      string  `json:"cause"`
	Effect     string  `json:"effect"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

func buildPrompt(mainKeyword, corpus string) string {
	return fmt.Sprintf(`Przeanalizuj poniższy tekst o temacie "%s" i zwróć listę maksymalnie 15 trójek przyczyna-skutek jako tablicę JSON.
Każdy element: {"cause": "...", "effect": "...", "type": "causes|may_cause|prevents|requires|enables|leads_to|results_from|initiates|treats|deficiency_causes|omission_causes|untreated_causes|required_for", "confidence": 0.6-0.95}.
Wszystko po polsku, ściśle związane z tematem. Zwróć wyłącznie tablicę JSON, bez dodatkowego tekstu.

Tekst:
%s`, mainKeyword, corpus)
}

var fencedJSONRe = regexp.MustCompile(`(?s)\[.*\]`)

func parseResponse(response string) []rawTriplet {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	match := fencedJSONRe.FindString(response)
	if match == "" {
		return nil
	}

	var raw []rawTriplet
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil
	}
	return raw
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func clampConfidence(c float64) float64 {
	if c < 0.3 {
		return 0.3
	}
	if c > 0.95 {
		return 0.95
	}
	return c
}

func validate(raw rawTriplet) (brief.CausalTriplet, bool) {
	cause := strings.TrimSpace(raw.Cause)
	effect := strings.TrimSpace(raw.Effect)
	if cause == "" || effect == "" {
		return brief.CausalTriplet{}, false
	}
	relType := strings.ToLower(strings.TrimSpace(raw.Type))
	if !closedTypes[relType] {
		relType = "causes"
	}
	return brief.CausalTriplet{
		Cause:        truncate(cause, 80),
		Effect:       truncate(effect, 80),
		RelationType: relType,
		Confidence:   clampConfidence(raw.Confidence),
	}, true
}

func dedupKey(t brief.CausalTriplet) string {
	return truncate(strings.ToLower(t.Cause), 25) + "|" + truncate(strings.ToLower(t.Effect), 25)
}

func firstNWords(s string, n int) string {
	words := strings.Fields(strings.ToLower(s))
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func detectChains(triplets []brief.CausalTriplet) []brief.CausalTriplet {
	effectIndex := map[string][]int{}
	for i, t := range triplets {
		key := firstNWords(t.Effect, 3)
		effectIndex[key] = append(effectIndex[key], i)
	}
	for i, t := range triplets {
		causeKey := firstNWords(t.Cause, 3)
		if matches, ok := effectIndex[causeKey]; ok {
			for _, j := range matches {
				if j != i {
					triplets[i].IsChain = true
					triplets[j].IsChain = true
				}
			}
		}
	}
	return triplets
}

// Extract mines cause-effect triplets from the concatenated competitor
// text, trying primary then secondary on failure, and returns the top N
// (default 15) ranked by (is_chain desc, confidence desc).
func Extract(ctx context.Context, primary, secondary LLM, mainKeyword string, sourceTexts []string, topN int) []brief.CausalTriplet {
	if topN <= 0 {
		topN = 15
	}

	var corpus strings.Builder
	for _, text := range sourceTexts {
		if corpus.Len() >= maxCorpusBytes {
			break
		}
		remaining := maxCorpusBytes - corpus.Len()
		if len(text) > remaining {
			text = text[:remaining]
		}
		corpus.WriteString(text)
		corpus.WriteString(" ")
	}
	if corpus.Len() == 0 {
		return nil
	}

	prompt := buildPrompt(mainKeyword, corpus.String())

	response, err := tryComplete(ctx, primary, prompt)
	if err != nil || strings.TrimSpace(response) == "" {
		if secondary != nil {
			response, err = tryComplete(ctx, secondary, prompt)
		}
	}
	if err != nil || strings.TrimSpace(response) == "" {
		return nil
	}

	rawTriplets := parseResponse(response)
	if len(rawTriplets) == 0 {
		return nil
	}

	seen := map[string]bool{}
	var triplets []brief.CausalTriplet
	for _, raw := range rawTriplets {
		t, ok := validate(raw)
		if !ok {
			continue
		}
		key := dedupKey(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		triplets = append(triplets, t)
	}

	triplets = detectChains(triplets)

	sort.SliceStable(triplets, func(i, j int) bool {
		if triplets[i].IsChain != triplets[j].IsChain {
			return triplets[i].IsChain
		}
		return triplets[i].Confidence > triplets[j].Confidence
	})

	if len(triplets) > topN {
		triplets = triplets[:topN]
	}
	return triplets
}

func tryComplete(ctx context.Context, backend LLM, prompt string) (string, error) {
	if backend == nil {
		return "", fmt.Errorf("no LLM backend configured")
	}
	return backend.Complete(ctx, prompt)
}

// Summarize partitions triplets into chains and singles for the response
// envelope (spec §6 causal_triplets block).
func Summarize(triplets []brief.CausalTriplet) brief.CausalSummary {
	var chains, singles []brief.CausalTriplet
	for _, t := range triplets {
		if t.IsChain {
			chains = append(chains, t)
		} else {
			singles = append(singles, t)
		}
	}
	instruction := ""
	if len(chains) > 0 {
		instruction = "Weave the causal chains into sequential paragraphs; keep single triplets as standalone supporting sentences."
	} else if len(singles) > 0 {
		instruction = "Use the causal triplets as standalone supporting sentences throughout the draft."
	}
	return brief.CausalSummary{
		Count:            len(triplets),
		Chains:           chains,
		Singles:          singles,
		AgentInstruction: instruction,
	}
}

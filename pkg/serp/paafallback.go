package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/causal"
)

type rawPAA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var paaJSONRe = regexp.MustCompile(`(?s)\[.*\]`)

func buildPAAPrompt(keyword string, topSnippets []string) string {
	context := strings.Join(topSnippets, "\n")
	return fmt.Sprintf(`Na podstawie tematu "%s" i poniższych fragmentów wyników wyszukiwania wygeneruj listę 4-6 prawdopodobnych pytań "Ludzie również pytają" wraz z krótkimi odpowiedziami.
Zwróć wyłącznie tablicę JSON: [{"question": "...", "answer": "..."}]. Wszystko po polsku.

Fragmenty:
%s`, keyword, context)
}

// LLMPAAFallback builds the paaFallback callback NewClient expects: when
// neither SERP provider surfaces a People-Also-Ask block, it asks llm to
// synthesize plausible questions from the organic snippets already
// collected, so downstream gap analysis (spec §4.K) always has something
// to check coverage against.
func LLMPAAFallback(llm causal.LLM) func(ctx context.Context, keyword string, topSnippets []string) []brief.PAAEntry {
	return func(ctx context.Context, keyword string, topSnippets []string) []brief.PAAEntry {
		if llm == nil || len(topSnippets) == 0 {
			return nil
		}
		response, err := llm.Complete(ctx, buildPAAPrompt(keyword, topSnippets))
		if err != nil || strings.TrimSpace(response) == "" {
			return nil
		}
		match := paaJSONRe.FindString(response)
		if match == "" {
			return nil
		}
		var raw []rawPAA
		if err := json.Unmarshal([]byte(match), &raw); err != nil {
			return nil
		}
		entries := make([]brief.PAAEntry, 0, len(raw))
		for _, r := range raw {
			q := strings.TrimSpace(r.Question)
			if q == "" {
				continue
			}
			entries = append(entries, brief.PAAEntry{
				Question: q,
				Answer:   strings.TrimSpace(r.Answer),
				Source:   "llm_fallback",
			})
		}
		return entries
	}
}

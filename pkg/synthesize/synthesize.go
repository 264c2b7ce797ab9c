// Package synthesize builds the /synthesize_topics view: the dominant
// themes shared by a set of n-grams and H2 headings, with how often each
// theme shows up in either list (spec §6 synthesize_topics endpoint).
package synthesize

import (
	"regexp"
	"sort"
	"strings"
)

// Topic is one synthesized theme with its source frequencies.
type Topic struct {
	Theme          string `json:"theme"`
	H2Frequency    int    `json:"h2_frequency"`
	NgramFrequency int    `json:"ngram_frequency"`
}

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]{3,}`)

func themes(items []string) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range wordRe.FindAllString(strings.ToLower(strings.Join(items, " ")), -1) {
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > 10 {
		order = order[:10]
	}
	return order
}

// Topics synthesizes the shared-theme view of ngrams and headings.
func Topics(ngrams, headingsList []string) []Topic {
	allThemes := make(map[string]bool)
	for _, t := range themes(ngrams) {
		allThemes[t] = true
	}
	for _, t := range themes(headingsList) {
		allThemes[t] = true
	}

	sorted := make([]string, 0, len(allThemes))
	for t := range allThemes {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)

	var out []Topic
	for _, theme := range sorted {
		hFreq := 0
		for _, h := range headingsList {
			if strings.Contains(strings.ToLower(h), theme) {
				hFreq++
			}
		}
		nFreq := 0
		for _, n := range ngrams {
			if strings.Contains(strings.ToLower(n), theme) {
				nFreq++
			}
		}
		if hFreq > 0 || nFreq > 0 {
			out = append(out, Topic{Theme: theme, H2Frequency: hFreq, NgramFrequency: nFreq})
		}
	}
	return out
}

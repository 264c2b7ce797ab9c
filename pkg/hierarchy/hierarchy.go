// Package hierarchy implements the hierarchical keyword counter (spec
// §4.K-adjacent /count_keywords_inherited endpoint): a short phrase's raw
// count is boosted by the counts of every longer phrase that contains it as
// a whole word, so "rozwód" absorbs the hits already counted under "rozwód
// warszawa".
package hierarchy

import (
	"regexp"
	"sort"
)

// Count boosts raw per-phrase counts so that a short phrase's count
// includes every longer phrase's count when the short phrase occurs in the
// long phrase as a whole word.
func Count(rawCounts map[string]int) map[string]int {
	keywords := make([]string, 0, len(rawCounts))
	for k := range rawCounts {
		keywords = append(keywords, k)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})

	result := make(map[string]int, len(rawCounts))
	for k, v := range rawCounts {
		result[k] = v
	}

	for i, longKW := range keywords {
		for _, shortKW := range keywords[i+1:] {
			if containsWholeWord(longKW, shortKW) {
				result[shortKW] += rawCounts[longKW]
			}
		}
	}

	return result
}

func containsWholeWord(haystack, needle string) bool {
	if needle == "" || needle == haystack {
		return false
	}
	pattern := `(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(needle) + `(?:$|[^\p{L}\p{N}_])`
	matched, err := regexp.MatchString(pattern, haystack)
	return err == nil && matched
}

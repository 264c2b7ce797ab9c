// Package keyphrase ranks multi-word key phrases by a hand-rolled TF-IDF
// over paragraph-like pseudo-documents (spec §4.F). No Go port of
// scikit-learn's TfidfVectorizer exists in the example corpus, so the
// n-gram/document-frequency/IDF arithmetic is implemented directly; the
// ecosystem contribution here is the shared Polish stop-word list from
// pkg/lang/pl, not a vectorizer library.
package keyphrase

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/lang/pl"
)

const (
	minDF       = 1
	maxDFRatio  = 0.95
	maxFeatures = 500
)

var tokenRe = regexp.MustCompile(`[a-ząćęłńóśźż]+`)

// splitPseudoDocs partitions corpus into paragraph-like chunks: blank-line
// or sentence-boundary segments of >= 30 chars, falling back to 200-word
// sliding windows when fewer than two segments result.
func splitPseudoDocs(corpus string) []string {
	var segments []string
	for _, block := range regexp.MustCompile(`\n\s*\n`).Split(corpus, -1) {
		for _, sentence := range regexp.MustCompile(`(?:[.!?]+\s+)`).Split(block, -1) {
			sentence = strings.TrimSpace(sentence)
			if len(sentence) >= 30 {
				segments = append(segments, sentence)
			}
		}
	}
	if len(segments) >= 2 {
		return segments
	}

	words := strings.Fields(corpus)
	if len(words) == 0 {
		return nil
	}
	var chunks []string
	const chunkSize = 200
	for i := 0; i < len(words); i += chunkSize {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

func ngrams(doc string) []string {
	words := tokenRe.FindAllString(strings.ToLower(doc), -1)
	var filtered []string
	for _, w := range words {
		if !pl.StopWords[w] {
			filtered = append(filtered, w)
		}
	}
	var out []string
	for _, n := range []int{2, 3, 4} {
		for i := 0; i+n <= len(filtered); i++ {
			out = append(out, strings.Join(filtered[i:i+n], " "))
		}
	}
	return out
}

// Extract fits the TF-IDF model over the pseudo-document split of corpus
// and returns the top topN phrases.
func Extract(corpus string, topN int) []brief.SemanticKeyphrase {
	docs := splitPseudoDocs(corpus)
	if len(docs) == 0 {
		return nil
	}

	docNgramCounts := make([]map[string]int, len(docs))
	docFreq := map[string]int{}
	for i, doc := range docs {
		counts := map[string]int{}
		for _, ng := range ngrams(doc) {
			counts[ng]++
		}
		docNgramCounts[i] = counts
		for ng := range counts {
			docFreq[ng]++
		}
	}

	numDocs := float64(len(docs))
	maxDF := int(maxDFRatio * numDocs)
	if maxDF < minDF {
		maxDF = len(docs)
	}

	type scored struct {
		phrase string
		avgTFIDF float64
	}
	var candidates []scored
	for phrase, df := range docFreq {
		if df < minDF || df > maxDF {
			continue
		}
		idf := math.Log(numDocs/float64(df)) + 1
		var sumTFIDF float64
		for _, counts := range docNgramCounts {
			total := 0
			for _, c := range counts {
				total += c
			}
			if total == 0 {
				continue
			}
			tf := float64(counts[phrase]) / float64(total)
			sumTFIDF += tf * idf
		}
		avg := sumTFIDF / numDocs
		candidates = append(candidates, scored{phrase: phrase, avgTFIDF: avg})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].avgTFIDF > candidates[j].avgTFIDF })
	if len(candidates) > maxFeatures {
		candidates = candidates[:maxFeatures]
	}

	var selected []string
	var results []brief.SemanticKeyphrase
	for _, c := range candidates {
		if isSubstringOfAny(c.phrase, selected) || anyIsSubstringOf(selected, c.phrase) {
			continue
		}
		selected = append(selected, c.phrase)
		score := c.avgTFIDF * 3
		if score > 0.95 {
			score = 0.95
		}
		if score < 0 {
			score = 0
		}
		results = append(results, brief.SemanticKeyphrase{Phrase: c.phrase, Score: score})
		if len(results) >= topN {
			break
		}
	}
	return results
}

func isSubstringOfAny(phrase string, chosen []string) bool {
	for _, c := range chosen {
		if strings.Contains(c, phrase) {
			return true
		}
	}
	return false
}

func anyIsSubstringOf(chosen []string, phrase string) bool {
	for _, c := range chosen {
		if strings.Contains(phrase, c) {
			return true
		}
	}
	return false
}

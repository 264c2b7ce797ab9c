// Package ngram builds the lemma-keyed sliding-window n-gram index (spec
// §4.E): 2-, 3- and 4-word windows over competitor text plus a high-signal
// pseudo-source built from PAA/related-search/AI-overview text, scored by a
// frequency/site-distribution blend.
package ngram

import (
	"sort"
	"strconv"
	"strings"

	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/lang"
)

const highSignalLabel = "__google_signals__"

// docLemmas is the parallel raw/lemma token list for one document.
type docLemmas struct {
	raw   []string
	lemma []string
}

func tokenize(asset lang.Asset, text string, capBytes int) docLemmas {
	if len(text) > capBytes {
		text = text[:capBytes]
	}
	var d docLemmas
	for _, tok := range asset.Tokens(text) {
		if !tok.IsAlpha {
			continue
		}
		d.raw = append(d.raw, strings.ToLower(tok.Text))
		d.lemma = append(d.lemma, strings.ToLower(tok.Lemma))
	}
	return d
}

type entry struct {
	lemmaKey       string
	surfaceCounts  map[string]int
	perSource      map[int]int // index len(sources) is the high-signal slot
	presence       map[int]bool
}

// Index builds the ranked top-30 n-gram list for sources plus a high-signal
// concatenation (PAA + related searches + AI overview, already joined by
// the caller with " . ").
func Index(asset lang.Asset, sources []brief.Source, highSignalText, mainKeyword string) []brief.NGram {
	docs := make([]docLemmas, 0, len(sources)+1)
	for _, s := range sources {
		docs = append(docs, tokenize(asset, s.Text, 50*1024))
	}
	highSignalIdx := len(sources)
	docs = append(docs, tokenize(asset, highSignalText, 20*1024))

	entries := map[string]*entry{}

	for docIdx, doc := range docs {
		for _, n := range []int{2, 3, 4} {
			if len(doc.lemma) < n {
				continue
			}
			for i := 0; i+n <= len(doc.lemma); i++ {
				lemmaKey := strings.Join(doc.lemma[i:i+n], " ")
				surface := strings.Join(doc.raw[i:i+n], " ")

				e, ok := entries[lemmaKey]
				if !ok {
					e = &entry{
						lemmaKey:      lemmaKey,
						surfaceCounts: map[string]int{},
						perSource:     map[int]int{},
						presence:      map[int]bool{},
					}
					entries[lemmaKey] = e
				}
				e.surfaceCounts[surface]++
				e.perSource[docIdx]++
				e.presence[docIdx] = true
			}
		}
	}

	maxPageFreq := 0
	type candidate struct {
		e              *entry
		pageFreq       int
		pagePresence   int
		highSignalOnly bool
	}
	var candidates []candidate
	for _, e := range entries {
		pageFreq := 0
		pagePresence := 0
		for idx, c := range e.perSource {
			if idx == highSignalIdx {
				continue
			}
			pageFreq += c
		}
		for idx := range e.presence {
			if idx != highSignalIdx {
				pagePresence++
			}
		}
		highSignalOnly := pageFreq == 0 && e.presence[highSignalIdx]
		if pageFreq < 2 && !highSignalOnly {
			continue
		}
		if pageFreq > maxPageFreq {
			maxPageFreq = pageFreq
		}
		candidates = append(candidates, candidate{e: e, pageFreq: pageFreq, pagePresence: pagePresence, highSignalOnly: highSignalOnly})
	}

	mainKeywordLower := strings.ToLower(mainKeyword)
	results := make([]brief.NGram, 0, len(candidates))
	for _, c := range candidates {
		freqNorm := 0.0
		if maxPageFreq > 0 {
			freqNorm = float64(c.pageFreq) / float64(maxPageFreq)
		}
		siteScore := 0.0
		if len(sources) > 0 {
			siteScore = float64(c.pagePresence) / float64(len(sources))
		}
		weight := 0.5*freqNorm + 0.5*siteScore

		display := mostCommonSurface(c.e.surfaceCounts)
		if mainKeywordLower != "" && strings.Contains(display, mainKeywordLower) {
			weight += 0.1
		}
		if c.e.presence[highSignalIdx] {
			weight += 0.08
		}

		freqTotal := 0
		var nonZero []int
		for idx, cnt := range c.e.perSource {
			freqTotal += cnt
			if idx != highSignalIdx {
				nonZero = append(nonZero, cnt)
			}
		}
		perSourceList := make([]int, len(sources))
		for i := range perSourceList {
			perSourceList[i] = c.e.perSource[i]
		}

		freqMin, freqMedian, freqMax := minMedianMax(nonZero)

		results = append(results, brief.NGram{
			Ngram:            display,
			NgramLemma:       c.e.lemmaKey,
			Freq:             c.pageFreq,
			FreqTotal:        freqTotal,
			IsHighSignal:     c.e.presence[highSignalIdx],
			Weight:           weight,
			SiteDistribution: siteDistributionLabel(c.pagePresence, len(sources)),
			FreqPerSource:    perSourceList,
			FreqMin:          float64(freqMin),
			FreqMedian:       freqMedian,
			FreqMax:          float64(freqMax),
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Weight > results[j].Weight })
	if len(results) > 30 {
		results = results[:30]
	}
	return results
}

func mostCommonSurface(counts map[string]int) string {
	best := ""
	bestCount := -1
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}

func minMedianMax(values []int) (int, float64, int) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	min := sorted[0]
	max := sorted[len(sorted)-1]
	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	} else {
		median = float64(sorted[mid])
	}
	return min, median, max
}

func siteDistributionLabel(pagePresence, totalSources int) string {
	return strconv.Itoa(pagePresence) + "/" + strconv.Itoa(totalSources)
}

// Package entity aggregates named-entity mentions across sources into the
// NamedEntity list (spec §4.G): language-asset NER output filtered through
// the garbage classifier, grouped by lowercased text, and scored by an
// importance formula that favours priority types and broad distribution.
package entity

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

var priorityTypes = map[string]bool{
	"PERSON":       true,
	"ORGANIZATION": true,
	"LOCATION":     true,
	"DATE":         true,
}

var labelMap = map[string]string{
	"PERSON":       "PERSON",
	"ORGANIZATION": "ORGANIZATION",
	"ORG":          "ORGANIZATION",
	"LOCATION":     "LOCATION",
	"LOC":          "LOCATION",
	"GPE":          "LOCATION",
	"DATE":         "DATE",
	"TIME":         "TIME",
	"MONEY":        "MONEY",
	"PERCENT":      "PERCENT",
}

var numericRe = regexp.MustCompile(`^[\d\s.,%-]+$`)

func normalizeType(t string) string {
	if v, ok := labelMap[t]; ok {
		return v
	}
	return t
}

type aggregate struct {
	displayText     string
	entityType      string
	freq            int
	perSource       map[int]int
	presence        map[int]bool
	contextSnippets []string
}

// Extract runs NER over each source (text capped at 50KB) and aggregates
// hits into the ranked top-50 NamedEntity list.
func Extract(asset lang.Asset, sources []brief.Source) []brief.NamedEntity {
	entities := map[string]*aggregate{}

	for srcIdx, src := range sources {
		text := src.Text
		if len(text) > 50*1024 {
			text = text[:50*1024]
		}
		for _, span := range asset.NER(text) {
			if !acceptSpan(span.Text) {
				continue
			}
			key := strings.ToLower(span.Text)
			agg, ok := entities[key]
			if !ok {
				agg = &aggregate{
					displayText: span.Text,
					entityType:  normalizeType(span.Type),
					perSource:   map[int]int{},
					presence:    map[int]bool{},
				}
				entities[key] = agg
			}
			agg.freq++
			agg.perSource[srcIdx]++
			agg.presence[srcIdx] = true
			if len(agg.contextSnippets) < 3 {
				agg.contextSnippets = append(agg.contextSnippets, contextWindow(text, span.Start, span.End, 50))
			}
		}
	}

	results := make([]brief.NamedEntity, 0, len(entities))
	for key, agg := range entities {
		importance := 0.3
		if priorityTypes[agg.entityType] {
			importance += 0.2
		}
		freqBonus := math.Log(float64(agg.freq)+1) * 0.08
		if freqBonus > 0.25 {
			freqBonus = 0.25
		}
		importance += freqBonus
		if len(sources) > 0 {
			importance += 0.25 * float64(len(agg.presence)) / float64(len(sources))
		}
		if importance > 1.0 {
			importance = 1.0
		}

		perSource := make(map[int]int, len(agg.perSource))
		for k, v := range agg.perSource {
			perSource[k] = v
		}
		sourcesSet := make(map[int]bool, len(agg.presence))
		for k := range agg.presence {
			sourcesSet[k] = true
		}

		results = append(results, brief.NamedEntity{
			Text:            agg.displayText,
			Key:             key,
			Type:            agg.entityType,
			Freq:            agg.freq,
			FreqPerSource:   perSource,
			Importance:      importance,
			ContextSnippets: agg.contextSnippets,
			Sources:         sourcesSet,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Importance > results[j].Importance })
	if len(results) > 50 {
		results = results[:50]
	}
	return results
}

func acceptSpan(text string) bool {
	runeLen := len([]rune(text))
	if runeLen < 2 || runeLen > 100 {
		return false
	}
	if numericRe.MatchString(text) {
		return false
	}
	if garbage.IsGarbage(text) {
		return false
	}
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	return hasLetter
}

func contextWindow(text string, start, end, radius int) string {
	runes := []rune(text)
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := end + radius
	if hi > len(runes) {
		hi = len(runes)
	}
	if lo < 0 || hi > len(runes) || lo > hi {
		return ""
	}
	return string(runes[lo:hi])
}

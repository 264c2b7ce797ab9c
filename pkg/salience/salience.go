// Package salience scores how prominently each named entity features
// across the corpus (spec §4.L): position, grammatical role, heading
// presence and cross-source distribution feed a single salience score,
// alongside entity co-occurrence and the writer-facing placement plan.
package salience

import (
	"math"
	"sort"
	"strings"

	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/lang"
)

const earlyMentionChars = 1500

func stem(word string) string {
	r := []rune(word)
	if len(r) > 6 {
		return string(r[:len(r)-3])
	}
	return word
}

func headingCount(key string, headingsList []string) int {
	count := 0
	keyStem := stem(key)
	for _, h := range headingsList {
		lower := strings.ToLower(h)
		if strings.Contains(lower, key) || strings.Contains(lower, keyStem) {
			count++
		}
	}
	return count
}

type roleCounts struct {
	subject, object int
}

// maxEntityWindow bounds the sliding window used to match multi-word entity
// keys against a run of token texts. pkg/lang/pl's capSeqRe spans are at
// most four words; orgSuffixRe spans (up to five capitalised words plus a
// legal-form suffix) can be longer and are not matched past this width.
const maxEntityWindow = 6

// entityWindowMatches finds, for each position in tokTexts, every entity
// key (single- or multi-word) that matches the window starting there, and
// calls fn with the key and the matched token range [i, i+w).
func entityWindowMatches(tokTexts []string, entityKeys map[string]bool, fn func(key string, lo, hi int)) {
	for i := range tokTexts {
		for w := 1; w <= maxEntityWindow && i+w <= len(tokTexts); w++ {
			key := strings.Join(tokTexts[i:i+w], " ")
			if entityKeys[key] {
				fn(key, i, i+w)
			}
		}
	}
}

type positionInfo struct {
	ratios       []float64
	earlySources map[int]bool
}

// scanSource runs NER over one source's text and returns, per entity key,
// the earliest character offset ratio and whether it's an early mention,
// plus subject/object role counts derived from the nearest dependency tag.
func scanSource(asset lang.Asset, srcIdx int, text string, entityKeys map[string]bool) (map[string]float64, map[string]bool, map[string]roleCounts) {
	earliestOffset := map[string]int{}
	textLen := len([]rune(text))

	for _, span := range asset.NER(text) {
		key := strings.ToLower(span.Text)
		if !entityKeys[key] {
			continue
		}
		if existing, ok := earliestOffset[key]; !ok || span.Start < existing {
			earliestOffset[key] = span.Start
		}
	}

	ratios := map[string]float64{}
	early := map[string]bool{}
	for key, offset := range earliestOffset {
		if textLen > 0 {
			ratios[key] = float64(offset) / float64(textLen)
		}
		if offset <= earlyMentionChars {
			early[key] = true
		}
	}

	roles := map[string]roleCounts{}
	for _, sent := range asset.Sentences(text) {
		tokTexts := make([]string, len(sent.Tokens))
		for i, tok := range sent.Tokens {
			tokTexts[i] = strings.ToLower(tok.Text)
		}
		entityWindowMatches(tokTexts, entityKeys, func(key string, lo, hi int) {
			rc := roles[key]
			for _, tok := range sent.Tokens[lo:hi] {
				switch tok.DepRel {
				case "nsubj", "nsubj:pass":
					rc.subject++
				case "obj", "iobj", "obl", "obl:arg":
					rc.object++
				}
			}
			roles[key] = rc
		})
	}

	return ratios, early, roles
}

// Compute derives SalienceSignals for each entity and sorts desc by
// salience.
func Compute(asset lang.Asset, entities []brief.NamedEntity, sources []brief.Source, headingsH1, headingsH2 []string, mainKeyword string) []brief.SalienceSignals {
	entityKeys := make(map[string]bool, len(entities))
	for _, e := range entities {
		entityKeys[e.Key] = true
	}

	sumRatio := map[string]float64{}
	countRatio := map[string]int{}
	earlySources := map[string]map[int]bool{}
	roleTotals := map[string]roleCounts{}

	for srcIdx, src := range sources {
		text := src.Text
		if len(text) > 50*1024 {
			text = text[:50*1024]
		}
		ratios, early, roles := scanSource(asset, srcIdx, text, entityKeys)
		for key, r := range ratios {
			sumRatio[key] += r
			countRatio[key]++
		}
		for key := range early {
			if earlySources[key] == nil {
				earlySources[key] = map[int]bool{}
			}
			earlySources[key][srcIdx] = true
		}
		for key, rc := range roles {
			total := roleTotals[key]
			total.subject += rc.subject
			total.object += rc.object
			roleTotals[key] = total
		}
	}

	mainKeywordLower := strings.ToLower(mainKeyword)
	results := make([]brief.SalienceSignals, 0, len(entities))
	for _, e := range entities {
		avgPos := 0.0
		if countRatio[e.Key] > 0 {
			avgPos = sumRatio[e.Key] / float64(countRatio[e.Key])
		}
		roles := roleTotals[e.Key]
		subjectRatio := 0.0
		if roles.subject+roles.object > 0 {
			subjectRatio = float64(roles.subject) / float64(roles.subject+roles.object)
		}

		h1Count := headingCount(e.Key, headingsH1)
		h2Count := headingCount(e.Key, headingsH2)

		distribution := 0.0
		if len(sources) > 0 {
			distribution = float64(len(e.Sources)) / float64(len(sources))
		}
		idfBonus := 0.0
		if distribution > 0 && distribution < 1 {
			idfBonus = math.Min(0.05, math.Log(1/distribution)*0.02)
		}
		earlyRatio := 0.0
		if len(sources) > 0 {
			earlyRatio = float64(len(earlySources[e.Key])) / float64(len(sources))
		}
		keywordOverlap := 0.0
		if mainKeywordLower != "" && strings.Contains(strings.ToLower(e.Text), mainKeywordLower) {
			keywordOverlap = 1.0
		}

		h1Bonus := 0.0
		if h1Count > 0 {
			h1Bonus = 0.15
		}
		h2Bonus := math.Min(0.05, float64(h2Count)*0.02)

		salienceScore := (1-avgPos)*0.25 + h1Bonus + h2Bonus + subjectRatio*0.15 +
			distribution*0.20 + idfBonus + earlyRatio*0.10 + keywordOverlap*0.05
		if salienceScore > 1 {
			salienceScore = 1
		}
		if salienceScore < 0 {
			salienceScore = 0
		}

		results = append(results, brief.SalienceSignals{
			Entity:           e.Text,
			Type:             e.Type,
			AvgPositionRatio: avgPos,
			EarlyMentions:    len(earlySources[e.Key]),
			H1Count:          h1Count,
			H2Count:          h2Count,
			SubjectCount:     roles.subject,
			ObjectCount:      roles.object,
			SubjectRatio:     subjectRatio,
			Freq:             e.Freq,
			SourcesCount:     len(e.Sources),
			Salience:         salienceScore,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Salience > results[j].Salience })
	return results
}

// Cooccurrence computes sentence/paragraph co-occurrence pairs across
// sources, dropping pairs with combined count < 2 and returning the top 20
// by strength.
func Cooccurrence(asset lang.Asset, entities []brief.NamedEntity, sources []brief.Source) []brief.CoOccurrencePair {
	entityKeys := make(map[string]bool, len(entities))
	displayByKey := make(map[string]string, len(entities))
	for _, e := range entities {
		entityKeys[e.Key] = true
		displayByKey[e.Key] = e.Text
	}

	type pairStats struct {
		sentenceCount  int
		paragraphCount int
		sources        map[int]bool
		sampleContext  string
	}
	pairs := map[[2]string]*pairStats{}

	pairKey := func(a, b string) [2]string {
		if a > b {
			a, b = b, a
		}
		return [2]string{a, b}
	}

	for srcIdx, src := range sources {
		text := src.Text
		if len(text) > 50*1024 {
			text = text[:50*1024]
		}

		for _, sent := range asset.Sentences(text) {
			tokTexts := make([]string, len(sent.Tokens))
			for i, tok := range sent.Tokens {
				tokTexts[i] = strings.ToLower(tok.Text)
			}
			present := map[string]bool{}
			entityWindowMatches(tokTexts, entityKeys, func(key string, lo, hi int) {
				present[key] = true
			})
			keys := keysOf(present)
			for i := 0; i < len(keys); i++ {
				for j := i + 1; j < len(keys); j++ {
					k := pairKey(keys[i], keys[j])
					p, ok := pairs[k]
					if !ok {
						p = &pairStats{sources: map[int]bool{}}
						pairs[k] = p
					}
					p.sentenceCount++
					p.sources[srcIdx] = true
					if p.sampleContext == "" {
						p.sampleContext = sent.Text
					}
				}
			}
		}

		for _, paragraph := range strings.Split(text, "\n\n") {
			present := map[string]bool{}
			lower := strings.ToLower(paragraph)
			for key := range entityKeys {
				if strings.Contains(lower, key) {
					present[key] = true
				}
			}
			keys := keysOf(present)
			for i := 0; i < len(keys); i++ {
				for j := i + 1; j < len(keys); j++ {
					k := pairKey(keys[i], keys[j])
					p, ok := pairs[k]
					if !ok {
						p = &pairStats{sources: map[int]bool{}}
						pairs[k] = p
					}
					p.paragraphCount++
					p.sources[srcIdx] = true
				}
			}
		}
	}

	var results []brief.CoOccurrencePair
	for k, p := range pairs {
		if p.sentenceCount+p.paragraphCount < 2 {
			continue
		}
		strength := (3*float64(p.sentenceCount) + float64(p.paragraphCount)) * (1 + 0.2*float64(len(p.sources))) / 50
		if strength > 1 {
			strength = 1
		}
		if strength < 0 {
			strength = 0
		}
		results = append(results, brief.CoOccurrencePair{
			EntityA:        displayByKey[k[0]],
			EntityB:        displayByKey[k[1]],
			SentenceCount:  p.sentenceCount,
			ParagraphCount: p.paragraphCount,
			SourcesCount:   len(p.sources),
			Strength:       strength,
			SampleContext:  p.sampleContext,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Strength > results[j].Strength })
	if len(results) > 20 {
		results = results[:20]
	}
	return results
}

func keysOf(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Plan assembles the writer-facing PlacementPlan from ranked salience,
// co-occurrence pairs, relations and concept entities (spec §4.L).
func Plan(ranked []brief.SalienceSignals, pairs []brief.CoOccurrencePair, relations []brief.Relation, concepts []brief.ConceptEntity) brief.PlacementPlan {
	var primary string
	var secondary, supporting []string
	for i, s := range ranked {
		switch {
		case i == 0:
			primary = s.Entity
		case i >= 1 && i <= 3:
			secondary = append(secondary, s.Entity)
		case i >= 4 && i <= 9:
			supporting = append(supporting, s.Entity)
		}
	}

	var strongPairs []brief.CoOccurrencePair
	for _, p := range pairs {
		if p.Strength >= 0.2 {
			strongPairs = append(strongPairs, p)
		}
		if len(strongPairs) >= 5 {
			break
		}
	}

	topRelations := relations
	if len(topRelations) > 5 {
		topRelations = topRelations[:5]
	}

	var mustCover []string
	for _, c := range concepts {
		if len(c.Sources) >= 2 {
			mustCover = append(mustCover, c.Display)
		}
		if len(mustCover) >= 8 {
			break
		}
	}

	var b strings.Builder
	if primary != "" {
		b.WriteString("Place " + primary + " in the H1 and first sentence. ")
	}
	if len(secondary) > 0 {
		b.WriteString("Introduce " + strings.Join(secondary, ", ") + " within the first two H2 sections. ")
	}
	for _, p := range strongPairs {
		b.WriteString("Keep " + p.EntityA + " and " + p.EntityB + " in the same paragraph. ")
	}

	return brief.PlacementPlan{
		Primary:           primary,
		Secondary:         secondary,
		Supporting:        supporting,
		MustCoverConcepts: mustCover,
		StrongPairs:       strongPairs,
		TopRelations:      topRelations,
		Instruction:       strings.TrimSpace(b.String()),
	}
}

// Package pl is the default, dependency-free Polish language asset. It
// emulates tokenization, lemmatization, POS tagging, a shallow dependency
// parse, and named-entity recognition with deterministic rules instead of a
// statistical model, so the engine ships without a cgo bridge to a Python
// NLP stack. A production deployment may swap in a real spaCy/Stanza-backed
// Asset behind the same interface (pkg/lang.Asset) without touching any
// pipeline package.
package pl

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/brajen/contentbrief/pkg/lang"
)

var wordRe = regexp.MustCompile(`\pL+|\d+|[^\s\pL\d]`)

var sentenceSplitRe = regexp.MustCompile(`(?:[.!?]+)(\s+)`)

// StopWords is the ~45-entry Polish stop-word list spec §4.F calls for,
// shared by the TF-IDF extractor and the concept-entity chunker. The POS
// tagger classifies function words from its own adposition, conjunction and
// pronoun maps below.
var StopWords = map[string]bool{
	"i": true, "w": true, "z": true, "na": true, "do": true, "nie": true,
	"się": true, "to": true, "jest": true, "o": true, "że": true, "a": true,
	"co": true, "jak": true, "ale": true, "czy": true, "od": true, "po": true,
	"za": true, "dla": true, "tym": true, "są": true, "być": true, "ten": true,
	"ta": true, "te": true, "tak": true, "już": true, "tylko": true, "lub": true,
	"oraz": true, "przez": true, "przy": true, "bez": true, "jego": true,
	"jej": true, "ich": true, "który": true, "która": true, "które": true,
	"gdy": true, "więc": true, "bardzo": true, "może": true, "było": true,
	"będzie": true, "ma": true, "mają": true,
}

var adpositions = map[string]bool{
	"w": true, "z": true, "na": true, "do": true, "od": true, "po": true,
	"za": true, "dla": true, "przez": true, "przy": true, "bez": true,
	"o": true, "u": true, "ku": true, "nad": true, "pod": true, "przed": true,
	"między": true,
}

var conjunctions = map[string]bool{
	"i": true, "a": true, "ale": true, "lub": true, "oraz": true, "czy": true,
	"że": true, "gdy": true, "więc": true, "jak": true, "bo": true,
}

var pronouns = map[string]bool{
	"to": true, "się": true, "ten": true, "ta": true, "te": true, "jego": true,
	"jej": true, "ich": true, "który": true, "która": true, "które": true,
	"on": true, "ona": true, "ono": true, "oni": true, "one": true, "ja": true,
	"ty": true, "my": true, "wy": true,
}

var verbSuffixes = []string{
	"ować", "ywać", "iwać", "niał", "niała", "niały", "ował", "owała",
	"owali", "owały", "uje", "ują", "iła", "ili", "ały", "ła", "li", "ło",
	"ć", "my", "cie", "ę",
}

var adjSuffixes = []string{
	"owy", "owa", "owe", "owi", "owych", "owym", "owymi",
	"ski", "ska", "skie", "scy",
	"cki", "cka", "ckie",
	"ny", "na", "ne", "ni", "nego", "nej", "nych", "nym", "nymi",
	"alny", "alna", "alne",
}

// lemmaSuffixes is an ordered longest-first table of Polish inflectional
// endings stripped by lemmatize. This is the flectional-collapse
// approximation spec §9 calls for in place of a morphological analyser.
var lemmaSuffixes = []string{
	"iami", "yami", "ami", "ach", "ów", "owi", "iem", "em",
	"ego", "emu", "ymi", "imi", "ych", "ich", "ej", "ą", "ę",
	"y", "i", "a", "e", "u", "o",
}

// Asset is the deterministic rule-based Polish lang.Asset implementation.
type Asset struct{}

// New constructs a Polish Asset. Construction is cheap and side-effect
// free; callers almost always want the process-wide singleton in
// pkg/lang.Default instead of calling New directly.
func New() *Asset {
	return &Asset{}
}

func isUpperInitial(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func tokenizeWithOffsets(text string) []lang.Token {
	matches := wordRe.FindAllStringIndex(text, -1)
	tokens := make([]lang.Token, 0, len(matches))
	for _, m := range matches {
		surface := text[m[0]:m[1]]
		isAlpha := true
		for _, r := range surface {
			if !unicode.IsLetter(r) {
				isAlpha = false
				break
			}
		}
		tokens = append(tokens, lang.Token{
			Text:    surface,
			Lemma:   lemmatize(strings.ToLower(surface)),
			IsAlpha: isAlpha,
			Start:   m[0],
			End:     m[1],
		})
	}
	return tokens
}

func lemmatize(lower string) string {
	runeLen := len([]rune(lower))
	if runeLen <= 4 {
		return lower
	}
	for _, suf := range lemmaSuffixes {
		if strings.HasSuffix(lower, suf) && runeLen-len([]rune(suf)) >= 3 {
			return strings.TrimSuffix(lower, suf)
		}
	}
	return lower
}

func classifyPOS(token lang.Token, sentenceInitial bool) string {
	lower := strings.ToLower(token.Text)
	switch {
	case !token.IsAlpha && isDigitString(token.Text):
		return "NUM"
	case !token.IsAlpha:
		return "PUNCT"
	case adpositions[lower]:
		return "ADP"
	case conjunctions[lower]:
		return "CONJ"
	case pronouns[lower]:
		return "PRON"
	}

	for _, suf := range verbSuffixes {
		if strings.HasSuffix(lower, suf) {
			return "VERB"
		}
	}
	for _, suf := range adjSuffixes {
		if strings.HasSuffix(lower, suf) {
			return "ADJ"
		}
	}
	if !sentenceInitial && isUpperInitial(token.Text) {
		return "PROPN"
	}
	return "NOUN"
}

func isDigitString(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// Sentences splits text into sentences and annotates every token with POS,
// lemma, and a shallow dependency role.
func (a *Asset) Sentences(text string) []lang.Sentence {
	var sentences []lang.Sentence
	offset := 0
	parts := sentenceSplitRe.Split(text, -1)
	seps := sentenceSplitRe.FindAllString(text, -1)

	for i, part := range parts {
		start := offset
		offset += len(part)
		if i < len(seps) {
			offset += len(seps[i])
		}
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		leading := len(part) - len(strings.TrimLeft(part, " \t\n"))
		sentStart := start + leading

		tokens := tokenizeWithOffsets(part)
		for ti := range tokens {
			tokens[ti].Start += start
			tokens[ti].End += start
			tokens[ti].POS = classifyPOS(tokens[ti], ti == 0)
		}
		annotateDependencies(tokens)

		sentences = append(sentences, lang.Sentence{
			Text:   trimmed,
			Tokens: tokens,
			Start:  sentStart,
		})
	}
	return sentences
}

// annotateDependencies assigns a single shallow SVO structure per sentence:
// the first VERB becomes root, the nearest preceding NOUN/PROPN becomes its
// nsubj, the nearest following NOUN/PROPN becomes its obj. This stands in
// for a real dependency parser (spec §4.I primary path; §9 notes a
// reimplementation may substitute a morphological analyser).
func annotateDependencies(tokens []lang.Token) {
	verbIdx := -1
	for i, t := range tokens {
		if t.POS == "VERB" {
			verbIdx = i
			tokens[i].DepRel = "root"
			tokens[i].HeadIndex = -1
			break
		}
	}
	if verbIdx == -1 {
		return
	}
	for i := verbIdx - 1; i >= 0; i-- {
		if tokens[i].POS == "NOUN" || tokens[i].POS == "PROPN" {
			tokens[i].DepRel = "nsubj"
			tokens[i].HeadIndex = verbIdx
			break
		}
	}
	for i := verbIdx + 1; i < len(tokens); i++ {
		if tokens[i].POS == "NOUN" || tokens[i].POS == "PROPN" {
			tokens[i].DepRel = "obj"
			tokens[i].HeadIndex = verbIdx
			break
		}
	}
}

// Tokens is a flat view over Sentences.
func (a *Asset) Tokens(text string) []lang.Token {
	var all []lang.Token
	for _, s := range a.Sentences(text) {
		all = append(all, s.Tokens...)
	}
	return all
}

var monthNames = []string{
	"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca",
	"lipca", "sierpnia", "września", "października", "listopada", "grudnia",
}

var dateRe = regexp.MustCompile(`\b\d{1,2}\s+(?:` + strings.Join(monthNames, "|") + `)\s+\d{4}\b|\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}\.\d{1,2}\.\d{4}\b`)
var moneyRe = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\s*(?:zł|PLN|USD|EUR|\$|€)`)
var percentRe = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\s*%`)
var orgSuffixRe = regexp.MustCompile(`\b([\p{Lu}][\p{L}.]*(?:\s+[\p{Lu}][\p{L}.]*){0,4})\s+(?:Sp\.\s*z\s*o\.?o\.?|S\.A\.|sp\.\s*k\.)`)
var capSeqRe = regexp.MustCompile(`\b[\p{Lu}][\p{Ll}'-]+(?:\s+[\p{Lu}][\p{Ll}'-]+){1,3}\b`)
var capSingleRe = regexp.MustCompile(`\b[\p{Lu}][\p{Ll}'-]{2,}\b`)

var knownCities = map[string]bool{
	"Warszawa": true, "Warszawie": true, "Kraków": true, "Krakowie": true,
	"Wrocław": true, "Wrocławiu": true, "Poznań": true, "Poznaniu": true,
	"Gdańsk": true, "Gdańsku": true, "Łódź": true, "Łodzi": true,
	"Katowice": true, "Katowicach": true, "Szczecin": true, "Szczecinie": true,
	"Polska": true, "Polsce": true,
}

// NER returns named-entity spans using a small set of closed-vocabulary and
// regex heuristics (dates, money, percentages, organization-suffix runs,
// city gazetteer, capitalized-sequence fallback).
func (a *Asset) NER(text string) []lang.EntitySpan {
	var spans []lang.EntitySpan
	claimed := make([]bool, len(text)+1)

	addSpan := func(loc []int, entType string) {
		if claimed[loc[0]] {
			return
		}
		spans = append(spans, lang.EntitySpan{Text: text[loc[0]:loc[1]], Type: entType, Start: loc[0], End: loc[1]})
		for i := loc[0]; i < loc[1] && i < len(claimed); i++ {
			claimed[i] = true
		}
	}

	for _, loc := range dateRe.FindAllStringIndex(text, -1) {
		addSpan(loc, "DATE")
	}
	for _, loc := range moneyRe.FindAllStringIndex(text, -1) {
		addSpan(loc, "MONEY")
	}
	for _, loc := range percentRe.FindAllStringIndex(text, -1) {
		addSpan(loc, "PERCENT")
	}
	for _, m := range orgSuffixRe.FindAllStringSubmatchIndex(text, -1) {
		addSpan([]int{m[2], m[1]}, "ORGANIZATION")
	}
	for _, loc := range capSeqRe.FindAllStringIndex(text, -1) {
		addSpan(loc, "PERSON")
	}
	for _, loc := range capSingleRe.FindAllStringIndex(text, -1) {
		word := text[loc[0]:loc[1]]
		if knownCities[word] {
			addSpan(loc, "LOCATION")
		} else {
			addSpan(loc, "LOCATION")
		}
	}
	return spans
}

// IsStopWord reports whether lemma is a Polish stop word.
func (a *Asset) IsStopWord(lemma string) bool {
	return StopWords[strings.ToLower(lemma)]
}

// Stem applies the spec §9 / §4.L flectional-collapse heuristic: drop the
// last 3 characters when the word is longer than 6, used for fuzzy H1/H2
// stem matching.
func (a *Asset) Stem(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) > 6 {
		return string(runes[:len(runes)-3])
	}
	return string(runes)
}

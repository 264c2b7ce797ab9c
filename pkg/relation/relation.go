// Package relation extracts subject-verb-object triples (spec §4.I): a
// dependency-parse pass over the rule-based Polish parser's SVO heuristic
// primary, and a closed-vocabulary regex fallback when no verb carries both
// a subject and an object/oblique.
package relation

import (
	"regexp"
	"sort"
	"strings"

	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/lang"
)

// verbLemmaToType maps a verb lemma to one of the closed relation types
// (spec §3 Relation.RelationType: offers, requires, affects, regulates,
// supports, protects, improves, contains, reduces, causes, treats, costs,
// duration, relates_to).
var verbLemmaToType = map[string]string{
	"kosztować": "costs",
	"wymagać":   "requires",
	"powodować": "causes",
	"zawierać":  "contains",
	"trwać":     "duration",
	"wpływać":   "affects",
	"pomagać":   "supports",
	"prowadzić": "causes",
}

const defaultRelationType = "relates_to"

var fallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\S+)\s+kosztuje\s+(\S+)`),
	regexp.MustCompile(`(?i)(\S+)\s+wymaga\s+(\S+)`),
	regexp.MustCompile(`(?i)(\S+)\s+powoduje\s+(\S+)`),
	regexp.MustCompile(`(?i)(\S+)\s+trwa\s+(\S+)`),
	regexp.MustCompile(`(?i)(\S+)\s+wpływa\s+na\s+(\S+)`),
}

func relationTypeFor(verbLemma string) string {
	if t, ok := verbLemmaToType[strings.ToLower(verbLemma)]; ok {
		return t
	}
	return defaultRelationType
}

// Extract finds S-V-O triples across sentences from the dependency-tagged
// token stream, falling back to regex patterns over the concatenated
// corpus when the primary path yields nothing.
func Extract(asset lang.Asset, sources []brief.Source, concepts []string) []brief.Relation {
	type key struct{ subj, verb, obj string }
	seen := map[key]int{}
	var order []key

	for _, src := range sources {
		for _, sent := range asset.Sentences(src.Text) {
			for _, tok := range sent.Tokens {
				if tok.POS != "VERB" {
					continue
				}
				subj, obj := findArgs(sent.Tokens, tok)
				if subj == "" || obj == "" {
					continue
				}
				k := key{strings.ToLower(subj), strings.ToLower(tok.Lemma), strings.ToLower(obj)}
				if _, ok := seen[k]; !ok {
					order = append(order, k)
				}
				seen[k]++
			}
		}
	}

	if len(order) == 0 {
		return extractFallback(sources, concepts)
	}

	results := make([]brief.Relation, 0, len(order))
	for _, k := range order {
		results = append(results, brief.Relation{
			Subject:      k.subj,
			Verb:         k.verb,
			Object:       k.obj,
			RelationType: relationTypeFor(k.verb),
			Freq:         seen[k],
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Freq > results[j].Freq })
	if len(results) > 20 {
		results = results[:20]
	}
	return results
}

// findArgs locates the nearest nsubj before and nearest obj/iobj/obl after
// a verb token within its own sentence.
func findArgs(tokens []lang.Token, verb lang.Token) (subject, object string) {
	verbIdx := -1
	for i, t := range tokens {
		if t.Start == verb.Start && t.End == verb.End {
			verbIdx = i
			break
		}
	}
	if verbIdx < 0 {
		return "", ""
	}
	for i := verbIdx - 1; i >= 0; i-- {
		if tokens[i].DepRel == "nsubj" || tokens[i].DepRel == "nsubj:pass" {
			subject = tokens[i].Text
			break
		}
	}
	for i := verbIdx + 1; i < len(tokens); i++ {
		if tokens[i].DepRel == "obj" || tokens[i].DepRel == "iobj" || tokens[i].DepRel == "obl" {
			object = tokens[i].Text
			break
		}
	}
	return subject, object
}

func extractFallback(sources []brief.Source, concepts []string) []brief.Relation {
	var corpus strings.Builder
	for _, s := range sources {
		corpus.WriteString(s.Text)
		corpus.WriteString(" ")
	}
	text := corpus.String()

	vocab := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		vocab[strings.ToLower(c)] = true
	}

	type key struct{ subj, obj string }
	counts := map[key]int{}
	var order []key

	for _, pattern := range fallbackPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			subj := strings.ToLower(strings.TrimSpace(m[1]))
			obj := strings.ToLower(strings.TrimSpace(m[2]))
			if !vocab[subj] && !vocab[obj] && len(vocab) > 0 {
				continue
			}
			k := key{subj, obj}
			if _, ok := counts[k]; !ok {
				order = append(order, k)
			}
			counts[k]++
		}
	}

	results := make([]brief.Relation, 0, len(order))
	for _, k := range order {
		results = append(results, brief.Relation{
			Subject:      k.subj,
			Object:       k.obj,
			RelationType: defaultRelationType,
			Freq:         counts[k],
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Freq > results[j].Freq })
	if len(results) > 20 {
		results = results[:20]
	}
	return results
}

// Package headings ranks heading text by raw frequency (spec §6
// top-5-headings endpoint): the 5 most repeated H2/H3 strings across a
// scraped source set, a cheap duplicate-boilerplate detector.
package headings

import "strings"

// Ranked is one heading and its occurrence count.
type Ranked struct {
	Heading string `json:"heading"`
	Count   int    `json:"count"`
}

// Top5 returns the 5 most frequent non-empty, trimmed headings, ties broken
// by first-seen order.
func Top5(raw []string) []Ranked {
	counts := make(map[string]int)
	order := make([]string, 0, len(raw))
	for _, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, seen := counts[h]; !seen {
			order = append(order, h)
		}
		counts[h]++
	}

	ranked := make([]Ranked, 0, len(order))
	for _, h := range order {
		ranked = append(ranked, Ranked{Heading: h, Count: counts[h]})
	}

	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Count > ranked[j-1].Count; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	return ranked
}

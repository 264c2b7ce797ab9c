// Package garbage classifies short strings as CSS/JS/HTML/CMS artefacts so
// they can be excluded from the entity and n-gram pipelines (spec §4.B).
package garbage

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	cssProperties = []string{
		"color", "background", "border", "margin", "padding", "display",
		"position", "width", "height", "font-size", "font-weight", "font-family",
		"text-align", "line-height", "opacity", "z-index", "overflow", "cursor",
		"float", "clear", "box-shadow", "border-radius", "transition", "transform",
		"flex", "grid", "align-items", "justify-content", "text-decoration",
	}
	cssValues = []string{
		"absolute", "relative", "fixed", "static", "sticky", "block", "inline",
		"inline-block", "flex", "grid", "none", "hidden", "visible", "auto",
		"solid", "dashed", "dotted", "bold", "italic", "normal", "uppercase",
		"lowercase", "capitalize", "center", "left", "right", "justify",
	}
	cssPseudo = []string{
		"hover", "active", "focus", "visited", "before", "after", "first-child",
		"last-child", "nth-child", "not", "disabled", "checked", "placeholder",
	}
	cssFunctions = []string{"var", "calc", "rgba", "rgb", "hsl", "url", "linear-gradient", "translate", "scale", "rotate"}
	cssUnits     = []string{"px", "em", "rem", "vh", "vw", "pt", "pc", "deg", "fr"}

	htmlTags       = []string{"div", "span", "section", "article", "header", "footer", "nav", "aside", "main", "a", "p", "ul", "li", "ol", "table", "tr", "td", "th", "form", "input", "button", "label", "img", "script", "style", "link", "meta", "svg", "path", "iframe"}
	htmlAttributes = []string{"class", "id", "href", "src", "alt", "data", "aria", "role", "style", "rel", "target", "type", "name", "value", "placeholder"}

	jsKeywords = []string{
		"function", "const", "let", "var", "return", "if", "else", "for", "while",
		"document", "window", "undefined", "null", "this", "typeof", "new",
		"async", "await", "export", "import", "class", "extends", "addEventListener",
	}
	jsDomAPIs = []string{"getElementById", "querySelector", "addEventListener", "classList", "innerHTML", "createElement", "appendChild"}

	cmsPatterns = []string{
		"wp-content", "wp-includes", "wp-block", "wp-admin", "elementor",
		"astra", "divi", "et_pb", "avada", "vc_row", "vc_column",
	}

	utilityClasses = []string{
		"container", "row", "col", "btn", "navbar", "d-flex", "text-center",
		"justify-content-center", "align-items-center", "grid-cols", "space-y",
		"flex-row", "flex-col", "p-4", "m-4", "w-full", "h-full",
	}

	platformInternals = []string{
		"youtube", "ytp", "google", "gstatic", "doubleclick", "facebook",
		"fbcdn", "fb-root", "recaptcha", "adsbygoogle",
	}

	fontNames = []string{
		"arial", "helvetica", "menlo", "verdana", "georgia", "tahoma",
		"calibri", "segoe", "roboto", "courier", "consolas", "monaco",
		"times", "garamond", "impact",
	}
)

var blacklist = map[string]bool{}

func addWithSegments(entry string) {
	lower := strings.ToLower(entry)
	blacklist[lower] = true
	for _, sep := range []string{"-", "_"} {
		for _, seg := range strings.Split(lower, sep) {
			if len(seg) >= 3 {
				blacklist[seg] = true
			}
		}
	}
}

func init() {
	for _, group := range [][]string{
		cssProperties, cssValues, cssPseudo, cssFunctions, cssUnits,
		htmlTags, htmlAttributes, jsKeywords, jsDomAPIs, cmsPatterns,
		utilityClasses, platformInternals,
	} {
		for _, entry := range group {
			addWithSegments(entry)
		}
	}
}

var (
	cssSignatureRe = regexp.MustCompile(`(?i)^-(webkit|moz|ms|o)-|var\(|calc\(|\d+(px|em|rem|vh|vw|pt|%)$|^[a-z]+(-[a-z]+){1,4}$|^data-|^aria-|^#[0-9a-f]{3,8}$|^https?://|^[a-z0-9]{16,}$|&(amp|nbsp|lt|gt|quot);`)
	mojibakeRe     = regexp.MustCompile(`Ã.|Å.|â€.`)
	hexStringRe    = regexp.MustCompile(`^[0-9a-fA-F]{3,8}$`)
	truncatedRe    = regexp.MustCompile(`^[a-ząćęłńóśźż]{1,3}", $`)
	camelRe        = regexp.MustCompile(`[a-ząćęłńóśźż][A-ZĄĆĘŁŃÓŚŹŻ]`)
)

func specialCharRatio(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	special := 0
	total := 0
	for _, r := range s {
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			special++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(special) / float64(total)
}

// IsGarbage classifies s as a CSS/JS/HTML/CMS artefact. The first matching
// rule in the spec §4.B cascade wins.
func IsGarbage(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)

	// 1. exact blacklist match
	if blacklist[lower] {
		return true
	}

	// 2. CSS/JS/HTML signature regex
	if cssSignatureRe.MatchString(lower) {
		return true
	}

	// 3. special-character ratio
	runeLen := len([]rune(trimmed))
	ratio := specialCharRatio(trimmed)
	if runeLen < 20 && ratio > 0.08 {
		return true
	}
	if runeLen >= 20 && ratio > 0.12 {
		return true
	}

	// 4. segment split
	segments := regexp.MustCompile(`[-_.;{}()\[\]\s]+`).Split(lower, -1)
	var nonEmpty []string
	for _, seg := range segments {
		if seg != "" {
			nonEmpty = append(nonEmpty, seg)
		}
	}
	if len(nonEmpty) > 0 {
		blacklisted := 0
		for _, seg := range nonEmpty {
			if blacklist[seg] {
				blacklisted++
			}
		}
		if len(nonEmpty) <= 3 && blacklisted > 0 {
			return true
		}
		if len(nonEmpty) > 3 && float64(blacklisted)/float64(len(nonEmpty)) >= 0.4 {
			return true
		}
	}

	// 5. zero alpha chars, or digits dominate alphanumerics
	alpha, digit, alnum := 0, 0, 0
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			alpha++
			alnum++
		} else if unicode.IsDigit(r) {
			digit++
			alnum++
		}
	}
	if alpha == 0 {
		return true
	}
	if alnum > 0 && float64(digit)/float64(alnum) >= 0.5 {
		return true
	}

	// 6. CamelCase transitions
	if len(camelRe.FindAllString(trimmed, -1)) >= 2 {
		return true
	}

	// 7. font names
	for _, f := range fontNames {
		if strings.Contains(lower, f) {
			return true
		}
	}

	// 8. mojibake
	if mojibakeRe.MatchString(trimmed) {
		return true
	}

	// 9. pure hex string length 3-8
	if hexStringRe.MatchString(trimmed) {
		return true
	}

	// 10. truncated-sentence fragment
	if truncatedRe.MatchString(trimmed) {
		return true
	}

	return false
}

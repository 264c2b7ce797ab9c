// Package scrape fetches and sanitizes competitor pages into clean body
// text plus an H2 list (spec §4.C): charset fallback ladder, a main-content
// extraction pass over golang.org/x/net/html with a regex-stripping
// fallback, a hard per-page byte cap and a minimum text length.
package scrape

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/brajen/contentbrief/pkg/brief"
	sharedhttp "github.com/brajen/contentbrief/pkg/shared/http"
)

const (
	maxPerPageBytes = 30 * 1024
	minTextChars    = 500
	maxH2Entries    = 15
	maxH2Chars      = 200
)

var blockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbip\.`),
	regexp.MustCompile(`(?i)/(upload|pliki)/.*\.(pdf|docx?|xlsx?)$`),
	regexp.MustCompile(`(?i)\.(pdf|docx?|xlsx?)$`),
}

func blocked(url string) bool {
	for _, p := range blockPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}

// Fetcher scrapes a single URL over the scraper HTTP client. PoolScrape
// takes a FetchFunc rather than a Fetcher, so tests pass a plain function.
type Fetcher struct {
	client *http.Client
}

// NewFetcher builds a Fetcher with the standard scraper HTTP client
// configuration (8-second timeout per spec §4.C).
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: sharedhttp.NewClient(sharedhttp.ScraperClientConfig(timeout))}
}

// Fetch retrieves url and returns a cleaned Source, or nil if the page was
// skipped, failed, or yielded too little text (spec §4.C failures are
// non-fatal per URL).
func (f *Fetcher) Fetch(ctx context.Context, url, title string) *brief.Source {
	if blocked(url) {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4*maxPerPageBytes))
	if err != nil || len(raw) == 0 {
		return nil
	}

	decoded := decodeBody(raw, resp.Header.Get("Content-Type"))

	h2s := extractH2(decoded)

	if len(decoded) > 2*maxPerPageBytes {
		decoded = stripNoise(decoded)
		if len(decoded) > 3*maxPerPageBytes {
			decoded = decoded[:3*maxPerPageBytes]
		}
	}

	text := extractBody(decoded)
	text = collapseWhitespace(text)
	if len(text) > maxPerPageBytes {
		text = text[:maxPerPageBytes]
	}
	if len([]rune(text)) < minTextChars {
		return nil
	}

	return &brief.Source{
		URL:       url,
		Title:     title,
		Text:      text,
		H2:        h2s,
		WordCount: len(strings.Fields(text)),
	}
}

// decodeBody resolves the page's character encoding: declared charset
// first, then UTF-8, then Windows-1250, finally UTF-8-with-replacement.
func decodeBody(raw []byte, contentType string) string {
	if _, name, ok := charset.DetermineEncoding(raw, contentType); ok && name != "" {
		if reader, err := charset.NewReaderLabel(name, bytes.NewReader(raw)); err == nil {
			if decoded, err := io.ReadAll(reader); err == nil {
				return string(decoded)
			}
		}
	}

	if utf8.Valid(raw) {
		return string(raw)
	}
	if out, err := decodeWith(charmap.Windows1250.NewDecoder(), raw); err == nil {
		return out
	}
	out, _ := decodeWith(unicode.UTF8.NewDecoder(), raw)
	return out
}

func decodeWith(dec transform.Transformer, raw []byte) (string, error) {
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

var cssSignatureRe = regexp.MustCompile(`(?i)-(webkit|moz|ms)-|var\(|calc\(|[{};]`)

func extractH2(rawHTML string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	var h2s []string
	inH2 := false
	var buf strings.Builder

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := tokenizer.Token()
		switch tt {
		case html.StartTagToken:
			if tok.Data == "h2" {
				inH2 = true
				buf.Reset()
			}
		case html.EndTagToken:
			if tok.Data == "h2" && inH2 {
				inH2 = false
				text := strings.TrimSpace(buf.String())
				if text != "" && len(text) <= maxH2Chars && !cssSignatureRe.MatchString(text) {
					h2s = append(h2s, text)
				}
				if len(h2s) >= maxH2Entries {
					return h2s
				}
			}
		case html.TextToken:
			if inH2 {
				buf.WriteString(tok.Data)
			}
		}
	}
	return h2s
}

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style|nav|footer|header|aside|noscript|svg)[^>]*>.*?</\s*\1\s*>`)
	commentRe     = regexp.MustCompile(`(?s)<!--.*?-->`)
	inlineCSSRe   = regexp.MustCompile(`\{[^{}]*\}`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

func stripNoise(rawHTML string) string {
	rawHTML = scriptStyleRe.ReplaceAllString(rawHTML, "")
	rawHTML = commentRe.ReplaceAllString(rawHTML, "")
	return rawHTML
}

// extractBody attempts a DOM-based main-content extraction; on parse
// failure it falls back to a regex-stripping pass.
func extractBody(rawHTML string) string {
	node, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return fallbackExtract(rawHTML)
	}
	var buf strings.Builder
	var walk func(*html.Node)
	skip := map[string]bool{"script": true, "style": true, "nav": true, "footer": true, "header": true, "aside": true, "noscript": true, "svg": true}
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skip[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	text := buf.String()
	if strings.TrimSpace(text) == "" {
		return fallbackExtract(rawHTML)
	}
	return text
}

func fallbackExtract(rawHTML string) string {
	s := stripNoise(rawHTML)
	s = inlineCSSRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, " ")
	return s
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

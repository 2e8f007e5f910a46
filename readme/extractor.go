// Package readme extracts structured project information from raw
// repository documentation markup.
package readme

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Paragraphs at or below this length are typically badge rows or link
// clusters rather than descriptive prose.
const minDescriptionLength = 30

const hostingDomain = "github.com"

// Summary is the structured result of parsing one document. Slices are
// always non-nil: Tags in particular is an explicit empty-list contract
// reserved for future heuristic extraction, not an omission.
type Summary struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Categories   []string `json:"categories"`
	Tags         []string `json:"tags"`
	RelatedLinks []string `json:"related_links"`
}

func emptySummary() Summary {
	return Summary{
		Categories:   []string{},
		Tags:         []string{},
		RelatedLinks: []string{},
	}
}

// Extract parses documentation markup into a Summary. It is a pure function
// over the text: no network, no storage, and it never fails. Content that
// does not parse into anything useful yields empty fields.
//
// Heuristics:
//   - Title is the first top-level heading.
//   - Description is the first paragraph longer than 30 characters.
//   - Every second-level heading becomes a category, in document order,
//     duplicates preserved (dedup belongs to the store).
//   - Links whose target contains the hosting domain become related links.
func Extract(content string) Summary {
	summary := emptySummary()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return summary
	}

	summary.Title = strings.TrimSpace(doc.Find("h1").First().Text())

	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if utf8.RuneCountInString(text) > minDescriptionLength {
			summary.Description = text
			return false
		}
		return true
	})

	doc.Find("h2").Each(func(_ int, sel *goquery.Selection) {
		summary.Categories = append(summary.Categories, strings.TrimSpace(sel.Text()))
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		if strings.Contains(href, hostingDomain) {
			summary.RelatedLinks = append(summary.RelatedLinks, href)
		}
	})

	return summary
}

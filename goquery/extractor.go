// Package goquery provides HTML content and link extraction built on
// PuerkitoBio/goquery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/quietriver/sitesage"
)

// Ensure Extractor implements sitesage.Extractor at compile time.
var _ sitesage.Extractor = (*Extractor)(nil)

// contentSelectors are candidate main-content selectors, tried in
// priority order: the semantic main region first, then common content
// container class/id names, then the generic article element. The page
// body is the fallback when none yields text.
var contentSelectors = []string{
	"main",
	".main-content",
	".content",
	"#content",
	".page-content",
	"article",
	".article-content",
}

// boilerplateSelectors are stripped from the document before text
// extraction.
const boilerplateSelectors = "script, style, nav, footer, header"

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)

	// disallowedChars matches characters outside the allow-list of word
	// characters, whitespace and basic punctuation.
	disallowedChars = regexp.MustCompile(`[^\w\s.,!?:;\-()]`)
)

// Extractor extracts the page title and main content text from raw HTML
// using an ordered list of candidate content-area selectors.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses HTML and returns the cleaned title and main content
// text. Boilerplate subtrees are removed before any text is read, so
// navigation and chrome never leak into the content of a matched area or
// the body fallback.
func (e *Extractor) Extract(html string) (*sitesage.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitesage.Errorf(sitesage.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &sitesage.ExtractResult{
		Title: cleanText(doc.Find("title").First().Text()),
	}

	doc.Find(boilerplateSelectors).Remove()

	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if text := cleanText(sel.Text()); text != "" {
			result.Text = text
			return result, nil
		}
	}

	// No content area matched; fall back to the page body.
	result.Text = cleanText(doc.Find("body").First().Text())
	return result, nil
}

// cleanText collapses whitespace runs to single spaces and strips
// characters outside the allow-list.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = whitespaceRuns.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.TrimSpace(disallowedChars.ReplaceAllString(text, ""))
}

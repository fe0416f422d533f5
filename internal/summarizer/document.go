package summarizer

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// blockSelector lists the elements whose text forms one run of sentences.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, blockquote, pre, figcaption"

// noiseSelector is stripped from the raw page before the fallback walk.
const noiseSelector = "script, style, noscript, template, nav, header, footer, aside, form, iframe, svg"

// document is the sentence view of a fetched page.
type document struct {
	Title     string
	Sentences []Sentence
}

// parseDocument extracts the main content of an HTML page. Readability picks
// the article body; when that yields nothing the whole page body is walked.
func parseDocument(raw []byte, pageURL *url.URL) (*document, error) {
	doc := &document{}

	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err == nil {
		doc.Title = strings.TrimSpace(article.Title)
		if content, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content)); err == nil {
			doc.Sentences = blockSentences(content.Selection)
		}
	}
	if len(doc.Sentences) > 0 {
		return doc, nil
	}

	page, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSpace(page.Find("title").First().Text())
	}
	body := page.Find("body")
	body.Find(noiseSelector).Remove()
	doc.Sentences = blockSentences(body)

	return doc, nil
}

// blockSentences collects sentences from the outermost block elements under
// root, in document order. If root has no block elements its text is split on
// line breaks instead.
func blockSentences(root *goquery.Selection) []Sentence {
	var out []Sentence

	// Text() joins text nodes with no separator
	root.Find("br").ReplaceWithHtml("\n")

	blocks := root.Find(blockSelector)
	blocks.Each(func(_ int, s *goquery.Selection) {
		// nested blocks (li > p) are covered by their outermost ancestor
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		out = append(out, splitSentences(s.Text())...)
	})
	if blocks.Length() > 0 {
		return out
	}

	for _, line := range strings.Split(root.Text(), "\n") {
		out = append(out, splitSentences(line)...)
	}
	return out
}

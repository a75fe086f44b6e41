package page

import (
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/muntasir-islam/seo-audit-tool/internal/fetch"
	apperrors "github.com/muntasir-islam/seo-audit-tool/internal/shared/errors"
)

// Document is the parsed, queryable form of a fetched page. It is built once
// per audit and read-only afterward; every check receives the same instance.
type Document struct {
	doc     *goquery.Document
	base    *url.URL
	rawHTML string

	fullText    string
	visibleText string
}

// Parse turns a fetch snapshot into a Document. An empty body or a document
// tree that cannot be built yields a *errors.ParseError for the target.
func Parse(snap *fetch.Snapshot) (*Document, error) {
	html := string(snap.Body)
	if strings.TrimSpace(html) == "" {
		return nil, &apperrors.ParseError{URL: snap.URL, Err: errors.New("empty document")}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &apperrors.ParseError{URL: snap.URL, Err: err}
	}

	base, err := url.Parse(snap.URL)
	if err != nil {
		return nil, &apperrors.ParseError{URL: snap.URL, Err: err}
	}

	d := &Document{
		doc:     doc,
		base:    base,
		rawHTML: html,
	}
	d.fullText = doc.Text()
	d.visibleText = extractVisibleText(html)
	return d, nil
}

// extractVisibleText drops markup the reader never sees as prose before
// taking the text, matching how the content checks define "content".
func extractVisibleText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, nav, footer, header, aside").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	return doc.Text()
}

// Find runs a CSS selector against the document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// HTML returns the decoded page markup.
func (d *Document) HTML() string { return d.rawHTML }

// FullText returns every text node in the document, including navigation
// and boilerplate.
func (d *Document) FullText() string { return d.fullText }

// VisibleText returns the page text with script, style, and structural
// chrome (nav, header, footer, aside) removed.
func (d *Document) VisibleText() string { return d.visibleText }

// Title returns the trimmed <title> text, empty when the tag is absent.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// MetaName returns the content of <meta name="..."> or "" when absent.
func (d *Document) MetaName(name string) string {
	return strings.TrimSpace(d.doc.Find("meta[name='" + name + "']").First().AttrOr("content", ""))
}

// MetaProperty returns the content of <meta property="..."> (Open Graph
// style) or "" when absent.
func (d *Document) MetaProperty(property string) string {
	return strings.TrimSpace(d.doc.Find("meta[property='" + property + "']").First().AttrOr("content", ""))
}

// Host returns the audited URL's host, used to split internal from external
// references.
func (d *Document) Host() string { return d.base.Host }

// URL returns the normalized URL the document was fetched for.
func (d *Document) URL() *url.URL { return d.base }

// ResolveURL resolves an href against the page URL, mirroring how a browser
// would. Unparseable hrefs resolve to the empty string.
func (d *Document) ResolveURL(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return d.base.ResolveReference(ref).String()
}

package check

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/muntasir-islam/seo-audit-tool/internal/fetch"
	"github.com/muntasir-islam/seo-audit-tool/internal/page"
	apperrors "github.com/muntasir-islam/seo-audit-tool/internal/shared/errors"
)

// inputFor builds check input from an HTML fixture served from the given
// URL. Header values can be layered on by mutating the returned snapshot
// before the first check runs.
func inputFor(t *testing.T, html, rawurl, keyword string) *Input {
	t.Helper()
	snap := &fetch.Snapshot{
		URL:        rawurl,
		FinalURL:   rawurl,
		StatusCode: http.StatusOK,
		Headers:    http.Header{},
		Body:       []byte(html),
		RawSize:    len(html),
		Elapsed:    200 * time.Millisecond,
	}
	doc, err := page.Parse(snap)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return NewInput(doc, snap, keyword)
}

func inputFromHTML(t *testing.T, html string) *Input {
	t.Helper()
	return inputFor(t, html, "https://example.com/", "")
}

func findSpec(t *testing.T, name string) Spec {
	t.Helper()
	for _, spec := range Registry() {
		if spec.Name == name {
			return spec
		}
	}
	t.Fatalf("check %q not registered", name)
	return Spec{}
}

func runCheck(t *testing.T, name string, in *Input) Result {
	t.Helper()
	return findSpec(t, name).Eval(in)
}

const richFixture = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Complete SEO Guide for Online Stores in 2026</title>
<meta name="description" content="Discover the complete guide to search engine optimization for online stores. Learn proven strategies to get more organic traffic today.">
<link rel="canonical" href="https://example.com/">
<link rel="icon" href="/favicon.ico">
<meta property="og:title" content="Complete SEO Guide">
<meta property="og:description" content="The complete guide.">
<meta property="og:image" content="https://example.com/cover.webp">
<meta property="og:url" content="https://example.com/">
<meta property="og:type" content="article">
<meta name="twitter:card" content="summary_large_image">
<meta name="twitter:title" content="Complete SEO Guide">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"FAQPage","mainEntity":[{"@type":"Question","name":"What is SEO?"},{"@type":"Question","name":"Why audit?"}]}</script>
</head>
<body>
<header><nav class="breadcrumb"><li><a href="/">Home</a></li><li>Guide</li></nav></header>
<main>
<h1>Complete SEO Guide for Online Stores</h1>
<h2>Why search traffic matters</h2>
<p>Search traffic converts well and keeps working long after you publish. This guide walks through every audit step.</p>
<img src="/img/storefront-hero.webp" alt="Storefront hero" width="800" height="400" loading="lazy">
<a href="/pricing">Pricing</a>
<a href="/features">Features</a>
<a href="/blog/seo-basics">SEO basics</a>
<a href="/contact">Contact us</a>
<a href="/privacy">Privacy policy</a>
<a href="https://twitter.com/example">Follow us</a>
<ul><li>Crawlability</li><li>Content</li></ul>
</main>
<footer><p>Published by the example team.</p></footer>
</body>
</html>`

func TestRegistryCoversAdvertisedSurface(t *testing.T) {
	specs := Registry()
	if len(specs) < 200 {
		t.Fatalf("registry has %d checks, want at least 200", len(specs))
	}

	perCategory := make(map[Category]int)
	scoredPerCategory := make(map[Category]float64)
	for _, spec := range specs {
		perCategory[spec.Category]++
		scoredPerCategory[spec.Category] += spec.Points
	}
	for _, cat := range Categories() {
		if perCategory[cat] == 0 {
			t.Errorf("category %q has no checks", cat)
		}
		if scoredPerCategory[cat] <= 0 {
			t.Errorf("category %q has no scored checks", cat)
		}
	}
}

func TestRegistryValidates(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestRegistryReturnsCopy(t *testing.T) {
	first := Registry()
	first[0].Name = "mutated"
	if Registry()[0].Name == "mutated" {
		t.Fatal("mutating the returned slice leaked into the registry")
	}
}

func TestEvaluateAllRunsEveryCheck(t *testing.T) {
	in := inputFromHTML(t, richFixture)
	evals, err := EvaluateAll(in)
	if err != nil {
		t.Fatalf("EvaluateAll: %v", err)
	}
	if len(evals) != len(Registry()) {
		t.Fatalf("got %d evaluations, want %d", len(evals), len(Registry()))
	}
	for _, ev := range evals {
		if ev.Result.Credit < 0 || ev.Result.Credit > 1 {
			t.Errorf("check %q returned credit %v outside [0,1]", ev.Spec.Name, ev.Result.Credit)
		}
	}
}

func TestEvaluateAllWrapsPanics(t *testing.T) {
	in := inputFromHTML(t, "<html><head><title>ok</title></head><body></body></html>")
	spec := Spec{
		Name:     "exploding",
		Category: CategoryMeta,
		Severity: SeverityWarning,
		Points:   1,
		Eval:     func(*Input) Result { panic("boom") },
	}
	_, err := safeEval(spec, in)
	if err == nil {
		t.Fatal("expected an error from a panicking check")
	}
	var checkErr *apperrors.CheckError
	if !errors.As(err, &checkErr) {
		t.Fatalf("error type = %T, want *CheckError", err)
	}
	if checkErr.Check != "exploding" {
		t.Errorf("CheckError.Check = %q, want %q", checkErr.Check, "exploding")
	}
	if !strings.Contains(checkErr.Error(), "boom") {
		t.Errorf("CheckError message %q does not carry the panic value", checkErr.Error())
	}
}

func TestResultSeverityFollowsIssue(t *testing.T) {
	ev := Evaluation{
		Spec:   Spec{Name: "x", Severity: SeverityCritical},
		Result: Result{Credit: 1},
	}
	if got := ev.ResultSeverity(); got != SeverityOK {
		t.Errorf("clean check severity = %q, want %q", got, SeverityOK)
	}
	ev.Result.Issue = "broken"
	if got := ev.ResultSeverity(); got != SeverityCritical {
		t.Errorf("failing check severity = %q, want %q", got, SeverityCritical)
	}
}

func TestKeywordChecksSkipWithoutKeyword(t *testing.T) {
	in := inputFromHTML(t, richFixture)
	for _, name := range []string{
		"keyword_in_title", "keyword_in_meta_description", "keyword_in_h1",
		"keyword_density", "keyword_usage",
	} {
		res := runCheck(t, name, in)
		if !res.Skipped {
			t.Errorf("%s: expected skip when no keyword is set", name)
		}
	}
}

func TestRichFixtureScoresWell(t *testing.T) {
	in := inputFromHTML(t, richFixture)

	passing := []string{
		"title_present", "meta_description_present", "canonical_present",
		"h1_present", "viewport_present", "uses_https", "page_indexable",
		"charset_declared", "doctype_present", "html_lang_present",
		"favicon_present", "internal_links_sufficient", "faq_schema",
	}
	for _, name := range passing {
		res := runCheck(t, name, in)
		if res.Skipped {
			t.Errorf("%s: unexpectedly skipped", name)
			continue
		}
		if res.Credit != 1 {
			t.Errorf("%s: credit = %v, want 1 (issue %q)", name, res.Credit, res.Issue)
		}
		if res.Issue != "" {
			t.Errorf("%s: unexpected issue %q", name, res.Issue)
		}
	}
}

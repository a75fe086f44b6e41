package check

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// KeywordCount is one entry of a frequency tally, ordered by count.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TextStats is the tokenized view of the page text the content checks read.
type TextStats struct {
	VisibleText string
	LowerFull   string

	Words          []string
	WordCount      int
	FullWordCount  int
	CharCount      int
	SentenceCount  int
	ParagraphCount int

	AvgSentenceLength float64
	AvgWordLength     float64

	FleschReadingEase  float64
	FleschKincaidGrade float64

	UniqueWords    int
	LexicalDensity float64
	TextHTMLRatio  float64

	TopKeywords []KeywordCount

	FirstParagraph string
}

func buildTextStats(in *Input) *TextStats {
	visible := in.Page.VisibleText()
	full := in.Page.FullText()

	words := extractWords(visible)
	fullWords := extractWords(full)
	sentences := countSentences(visible)

	stats := &TextStats{
		VisibleText:    visible,
		LowerFull:      strings.ToLower(full),
		Words:          words,
		WordCount:      len(words),
		FullWordCount:  len(fullWords),
		CharCount:      len([]rune(visible)),
		SentenceCount:  sentences,
		ParagraphCount: in.Page.Find("p").Length(),
		FirstParagraph: strings.ToLower(strings.TrimSpace(in.Page.Find("p").First().Text())),
	}

	if len(words) > 0 {
		letters := 0
		syllables := 0
		for _, w := range words {
			letters += len(w)
			syllables += countSyllables(w)
		}
		sentenceDiv := sentences
		if sentenceDiv < 1 {
			sentenceDiv = 1
		}
		asl := float64(len(words)) / float64(sentenceDiv)
		asw := float64(syllables) / float64(len(words))

		stats.AvgSentenceLength = asl
		stats.AvgWordLength = float64(letters) / float64(len(words))
		stats.FleschReadingEase = 206.835 - 1.015*asl - 84.6*asw
		stats.FleschKincaidGrade = 0.39*asl + 11.8*asw - 15.59

		unique := make(map[string]bool, len(words))
		for _, w := range words {
			unique[w] = true
		}
		stats.UniqueWords = len(unique)
		stats.LexicalDensity = float64(len(unique)) / float64(len(words)) * 100
	}

	if html := in.Page.HTML(); len(html) > 0 {
		stats.TextHTMLRatio = float64(len(visible)) / float64(len(html)) * 100
	}

	stats.TopKeywords = topKeywords(words, 10)
	return stats
}

// LinkStats tallies every anchor on the page once.
type LinkStats struct {
	Total    int
	Internal int
	External int

	UniqueInternal int
	UniqueExternal int

	Nofollow  int
	Dofollow  int
	Sponsored int
	UGC       int

	WithTitle    int
	WithoutTitle int

	TargetBlank     int
	WithNoopener    int
	WithoutNoopener int

	EmptyAnchor int
	ImageLinks  int
	TextLinks   int

	JavaScript int
	Hash       int
	Mailto     int
	Tel        int

	TopAnchors []KeywordCount
}

func buildLinkStats(in *Input) *LinkStats {
	stats := &LinkStats{}
	host := in.Page.Host()
	seenInternal := make(map[string]bool)
	seenExternal := make(map[string]bool)
	anchors := make(map[string]int)

	in.Page.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		stats.Total++

		text := strings.TrimSpace(s.Text())
		hasImage := s.Find("img").Length() > 0
		if hasImage {
			stats.ImageLinks++
		} else {
			stats.TextLinks++
		}
		if text == "" && !hasImage {
			stats.EmptyAnchor++
		}
		if text != "" {
			anchors[strings.ToLower(text)]++
		}

		lower := strings.ToLower(href)
		switch {
		case strings.HasPrefix(lower, "javascript:"):
			stats.JavaScript++
			return
		case strings.HasPrefix(href, "#"):
			stats.Hash++
			return
		case strings.HasPrefix(lower, "mailto:"):
			stats.Mailto++
			return
		case strings.HasPrefix(lower, "tel:"):
			stats.Tel++
			return
		}

		rel := strings.ToLower(s.AttrOr("rel", ""))
		if strings.Contains(rel, "nofollow") {
			stats.Nofollow++
		} else {
			stats.Dofollow++
		}
		if strings.Contains(rel, "sponsored") {
			stats.Sponsored++
		}
		if strings.Contains(rel, "ugc") {
			stats.UGC++
		}
		if s.AttrOr("title", "") != "" {
			stats.WithTitle++
		} else {
			stats.WithoutTitle++
		}
		if strings.EqualFold(s.AttrOr("target", ""), "_blank") {
			stats.TargetBlank++
			if strings.Contains(rel, "noopener") || strings.Contains(rel, "noreferrer") {
				stats.WithNoopener++
			} else {
				stats.WithoutNoopener++
			}
		}

		resolved := in.Page.ResolveURL(href)
		if resolved == "" {
			return
		}
		u, err := url.Parse(resolved)
		if err != nil {
			return
		}
		if u.Host == "" || u.Host == host {
			stats.Internal++
			seenInternal[resolved] = true
		} else {
			stats.External++
			seenExternal[resolved] = true
		}
	})

	stats.UniqueInternal = len(seenInternal)
	stats.UniqueExternal = len(seenExternal)
	stats.TopAnchors = sortTally(anchors, 10)
	return stats
}

// ImageStats tallies every <img> on the page once.
type ImageStats struct {
	Total       int
	WithoutAlt  int
	EmptyAlt    int
	WithTitle   int
	WithoutSrc  int
	Lazy        int
	WithSrcset  int
	WithSizes   int
	WebP        int
	SVG         int
	PNG         int
	JPG         int
	GIF         int
	Internal    int
	External    int
	Descriptive int
	Decorative  int
	Figures     int
	Pictures    int

	AvgAltLength float64
}

var genericImageNames = []string{"image", "img", "photo", "pic", "picture", "untitled", "dsc", "screenshot"}

func buildImageStats(in *Input) *ImageStats {
	stats := &ImageStats{}
	host := in.Page.Host()
	altLengths := []int{}

	in.Page.Find("img").Each(func(_ int, s *goquery.Selection) {
		stats.Total++
		src := s.AttrOr("src", "")

		alt, hasAlt := s.Attr("alt")
		switch {
		case !hasAlt:
			stats.WithoutAlt++
		case strings.TrimSpace(alt) == "":
			stats.EmptyAlt++
			stats.Decorative++
		default:
			altLengths = append(altLengths, len([]rune(alt)))
		}

		if s.AttrOr("title", "") != "" {
			stats.WithTitle++
		}
		if src == "" {
			stats.WithoutSrc++
		}
		if s.AttrOr("loading", "") == "lazy" || strings.Contains(strings.ToLower(s.AttrOr("class", "")), "lazy") {
			stats.Lazy++
		}
		if s.AttrOr("srcset", "") != "" {
			stats.WithSrcset++
		}
		if s.AttrOr("sizes", "") != "" {
			stats.WithSizes++
		}

		lower := strings.ToLower(src)
		switch {
		case strings.Contains(lower, ".webp"):
			stats.WebP++
		case strings.Contains(lower, ".svg"):
			stats.SVG++
		case strings.Contains(lower, ".png"):
			stats.PNG++
		case strings.Contains(lower, ".jpg"), strings.Contains(lower, ".jpeg"):
			stats.JPG++
		case strings.Contains(lower, ".gif"):
			stats.GIF++
		}

		if strings.HasPrefix(lower, "http") {
			if u, err := url.Parse(src); err == nil && u.Host != host {
				stats.External++
			} else {
				stats.Internal++
			}
		} else {
			stats.Internal++
		}

		if src != "" {
			name := lower
			if i := strings.LastIndex(name, "/"); i >= 0 {
				name = name[i+1:]
			}
			if i := strings.Index(name, "?"); i >= 0 {
				name = name[:i]
			}
			generic := false
			for _, g := range genericImageNames {
				if strings.Contains(name, g) {
					generic = true
					break
				}
			}
			if !generic && len(name) > 5 {
				stats.Descriptive++
			}
		}
	})

	stats.Figures = in.Page.Find("figure").Length()
	stats.Pictures = in.Page.Find("picture").Length()

	if len(altLengths) > 0 {
		sum := 0
		for _, l := range altLengths {
			sum += l
		}
		stats.AvgAltLength = float64(sum) / float64(len(altLengths))
	}
	return stats
}

// HeadingStats tallies the heading structure once.
type HeadingStats struct {
	Counts     [7]int // indexed by heading level, 1-6
	Total      int
	H1Texts    []string
	H1AvgLen   float64
	Empty      int
	Duplicates int
	Long       int
	Valid      bool
}

func buildHeadingStats(in *Input) *HeadingStats {
	stats := &HeadingStats{}
	seen := make(map[string]int)

	for level := 1; level <= 6; level++ {
		in.Page.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			stats.Counts[level]++
			stats.Total++

			if text == "" {
				stats.Empty++
				return
			}
			if level == 1 {
				stats.H1Texts = append(stats.H1Texts, text)
			}
			if len([]rune(text)) > 70 {
				stats.Long++
			}
			key := strings.ToLower(text)
			seen[key]++
			if seen[key] > 1 {
				stats.Duplicates++
			}
		})
	}

	if len(stats.H1Texts) > 0 {
		sum := 0
		for _, t := range stats.H1Texts {
			sum += len([]rune(t))
		}
		stats.H1AvgLen = float64(sum) / float64(len(stats.H1Texts))
	}

	h1 := stats.Counts[1]
	h2 := stats.Counts[2]
	h3 := stats.Counts[3]
	h4 := stats.Counts[4]
	stats.Valid = h1 > 0 && !(h2 == 0 && (h3 > 0 || h4 > 0))
	return stats
}

// SchemaStats holds the parsed JSON-LD and other structured-data findings.
type SchemaStats struct {
	Types  []string
	Blocks int

	HasProduct       bool
	HasBreadcrumb    bool
	HasFAQ           bool
	HasLocalBusiness bool
	HasReview        bool

	FAQCount int

	ProductName         string
	ProductPrice        string
	ProductCurrency     string
	ProductAvailability string
	ProductRating       string
	ProductReviewCount  string

	Microdata int
	RDFa      int

	BreadcrumbNav    bool
	BreadcrumbLevels int
}

func buildSchemaStats(in *Input) *SchemaStats {
	stats := &SchemaStats{}
	typeSet := make(map[string]bool)

	in.Page.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		var parsed any
		if err := json.Unmarshal([]byte(s.Text()), &parsed); err != nil {
			return
		}
		stats.Blocks++
		for _, node := range schemaNodes(parsed) {
			for _, t := range nodeTypes(node) {
				if !typeSet[t] {
					typeSet[t] = true
					stats.Types = append(stats.Types, t)
				}
				switch {
				case t == "Product":
					stats.HasProduct = true
					stats.readProduct(node)
				case t == "BreadcrumbList":
					stats.HasBreadcrumb = true
				case t == "FAQPage":
					stats.HasFAQ = true
					if entities, ok := node["mainEntity"].([]any); ok {
						stats.FAQCount += len(entities)
					}
				case strings.Contains(t, "LocalBusiness") || t == "Organization":
					stats.HasLocalBusiness = true
				case t == "Review" || t == "AggregateRating":
					stats.HasReview = true
				}
			}
		}
	})

	sort.Strings(stats.Types)

	stats.Microdata = in.Page.Find("[itemtype]").Length()
	stats.RDFa = in.Page.Find("[typeof]").Length()

	in.Page.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(s.AttrOr("class", "")), "breadcrumb") {
			return true
		}
		stats.BreadcrumbNav = true
		stats.BreadcrumbLevels = s.Find("li").Length()
		if stats.BreadcrumbLevels == 0 {
			stats.BreadcrumbLevels = s.Find("a").Length()
		}
		return false
	})

	return stats
}

func (st *SchemaStats) readProduct(node map[string]any) {
	if st.ProductName == "" {
		st.ProductName = stringField(node, "name")
	}

	offers := node["offers"]
	if list, ok := offers.([]any); ok && len(list) > 0 {
		offers = list[0]
	}
	if offer, ok := offers.(map[string]any); ok {
		if st.ProductPrice == "" {
			st.ProductPrice = stringField(offer, "price")
		}
		if st.ProductCurrency == "" {
			st.ProductCurrency = stringField(offer, "priceCurrency")
		}
		if st.ProductAvailability == "" {
			st.ProductAvailability = stringField(offer, "availability")
		}
	}
	if rating, ok := node["aggregateRating"].(map[string]any); ok {
		if st.ProductRating == "" {
			st.ProductRating = stringField(rating, "ratingValue")
		}
		if st.ProductReviewCount == "" {
			st.ProductReviewCount = stringField(rating, "reviewCount")
		}
	}
}

// schemaNodes flattens a JSON-LD payload: a bare object, an array of
// objects, or an object carrying an @graph all become a node list.
func schemaNodes(parsed any) []map[string]any {
	var nodes []map[string]any
	switch v := parsed.(type) {
	case map[string]any:
		nodes = append(nodes, v)
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				if node, ok := item.(map[string]any); ok {
					nodes = append(nodes, node)
				}
			}
		}
	case []any:
		for _, item := range v {
			if node, ok := item.(map[string]any); ok {
				nodes = append(nodes, node)
			}
		}
	}
	return nodes
}

func nodeTypes(node map[string]any) []string {
	switch t := node["@type"].(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func stringField(node map[string]any, key string) string {
	switch v := node[key].(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	}
	return ""
}

func sortTally(tally map[string]int, limit int) []KeywordCount {
	out := make([]KeywordCount, 0, len(tally))
	for word, count := range tally {
		out = append(out, KeywordCount{Word: word, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

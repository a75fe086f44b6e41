package check

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	hiddenStyleFragments = []string{"display:none", "visibility:hidden", "font-size:0", "color:white"}
	popupClassFragments  = []string{"modal", "popup", "overlay", "interstitial", "lightbox"}
	adClassPatterns      = []string{"advertisement", "ad-slot", "ad-container", "adsense", "ad-banner"}
	semanticTags         = []string{"header", "nav", "main", "article", "section", "aside", "footer"}
	ctaPhrases           = []string{
		"buy now", "sign up", "get started", "learn more", "contact us",
		"subscribe", "download", "shop now", "order now", "add to cart",
	}
)

func contentChecks() []Spec {
	specs := []Spec{
		{
			Name:     "word_count",
			Category: CategoryContent,
			Severity: SeverityWarning,
			Points:   25,
			Eval: func(in *Input) Result {
				words := in.Text().WordCount
				switch {
				case words < 300:
					return fail(words, fmt.Sprintf("Thin content (%d words). Aim for at least 300 words.", words))
				case words < 1000:
					return Result{Value: words, Credit: 0.8}
				}
				return passNote(words, fmt.Sprintf("Comprehensive content (%d words)", words))
			},
		},
		{
			Name:     "flesch_reading_ease",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				text := in.Text()
				if text.WordCount == 0 {
					return skip(0)
				}
				score := text.FleschReadingEase
				switch {
				case score >= 60:
					return passNote(score, "Content is easy to read")
				case score >= 30:
					return partial(score, 0.5, "Content is fairly difficult to read. Consider simplifying.")
				}
				return fail(score, "Content is very difficult to read. Simplify your writing.")
			},
		},
		{
			Name:     "text_html_ratio",
			Category: CategoryContent,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				ratio := in.Text().TextHTMLRatio
				if ratio < 10 {
					return fail(ratio, fmt.Sprintf("Low text-to-HTML ratio (%.1f%%)", ratio))
				}
				return pass(ratio)
			},
		},
		{
			Name:     "content_lists",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				lists := in.Page.Find("ul, ol").Length()
				if lists == 0 {
					return fail(lists, "Use lists to structure content for readability and featured snippets")
				}
				return pass(lists)
			},
		},
		{
			Name:     "hidden_text",
			Category: CategoryContent,
			Severity: SeverityCritical,
			Points:   20,
			Eval: func(in *Input) Result {
				hidden := hiddenTextCount(in)
				if hidden > 0 {
					return fail(hidden, "Hidden text detected - this is against Google guidelines")
				}
				return pass(hidden)
			},
		},
		{
			Name:     "content_in_iframes",
			Category: CategoryContent,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				iframes := nonEmbedIframeCount(in)
				if iframes > 0 {
					return fail(iframes, "Key content may be hidden in iframes - search engines may not index it")
				}
				return pass(iframes)
			},
		},
		{
			Name:     "intrusive_interstitials",
			Category: CategoryContent,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(classFragmentCount(in, popupClassFragments) > 0)
			},
		},
		{
			Name:     "ad_density",
			Category: CategoryContent,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				patterns := adPatternCount(in)
				if patterns > 2 {
					return fail(patterns, "Heavy ad presence detected - may hurt user experience")
				}
				return pass(patterns)
			},
		},
		{
			Name:     "semantic_html",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				present := 0
				for _, tag := range semanticTags {
					if in.Page.Find(tag).Length() > 0 {
						present++
					}
				}
				if present < 3 {
					return fail(present, "Use semantic HTML5 tags for better structure")
				}
				return pass(present)
			},
		},
		{
			Name:     "eeat_signals",
			Category: CategoryContent,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(eeatSignalCount(in))
			},
		},
		{
			Name:     "privacy_policy_link",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   3,
			Eval: func(in *Input) Result {
				if !anyLinkMentions(in, "privacy") {
					return fail(false, "Add a privacy policy link (trust signal)")
				}
				return pass(true)
			},
		},
		{
			Name:     "contact_page_link",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   3,
			Eval: func(in *Input) Result {
				if !anyLinkMentions(in, "contact") {
					return fail(false, "Add a contact page link (trust signal)")
				}
				return pass(true)
			},
		},
		{
			Name:     "about_page_link",
			Category: CategoryContent,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(anyLinkMentions(in, "about"))
			},
		},
		{
			Name:     "author_info",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				if hasAuthorInfo(in) {
					return passNote(true, "Author information is present (E-E-A-T signal)")
				}
				return fail(false, "Add author information for better E-E-A-T signals")
			},
		},
		{
			Name:     "publication_date",
			Category: CategoryContent,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(hasPublicationDate(in))
			},
		},
		{
			Name:     "modified_date",
			Category: CategoryContent,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaProperty("article:modified_time") != "")
			},
		},
		{
			Name:     "clear_cta",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				lower := strings.ToLower(in.Text().VisibleText)
				for _, phrase := range ctaPhrases {
					if strings.Contains(lower, phrase) {
						return pass(true)
					}
				}
				return fail(false, "Add a clear call-to-action")
			},
		},
		{
			Name:     "readability_status",
			Category: CategoryContent,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				text := in.Text()
				if text.WordCount == 0 {
					return info("")
				}
				switch {
				case text.FleschReadingEase >= 60:
					return info("Easy to read")
				case text.FleschReadingEase >= 30:
					return info("Difficult to read")
				}
				return info("Very difficult to read")
			},
		},
		{
			Name:     "top_keywords",
			Category: CategoryContent,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				parts := make([]string, 0, len(in.Text().TopKeywords))
				for _, kw := range in.Text().TopKeywords {
					parts = append(parts, fmt.Sprintf("%s (%d)", kw.Word, kw.Count))
				}
				return info(strings.Join(parts, ", "))
			},
		},
	}

	textStats := []struct {
		name string
		read func(*TextStats) any
	}{
		{"character_count", func(s *TextStats) any { return s.CharCount }},
		{"sentence_count", func(s *TextStats) any { return s.SentenceCount }},
		{"paragraph_count", func(s *TextStats) any { return s.ParagraphCount }},
		{"avg_sentence_length", func(s *TextStats) any { return s.AvgSentenceLength }},
		{"avg_word_length", func(s *TextStats) any { return s.AvgWordLength }},
		{"flesch_kincaid_grade", func(s *TextStats) any { return s.FleschKincaidGrade }},
		{"unique_words", func(s *TextStats) any { return s.UniqueWords }},
		{"lexical_density", func(s *TextStats) any { return s.LexicalDensity }},
	}
	for _, t := range textStats {
		read := t.read
		specs = append(specs, Spec{
			Name:     t.name,
			Category: CategoryContent,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(read(in.Text()))
			},
		})
	}

	elementCounts := []struct {
		name     string
		selector string
	}{
		{"table_count", "table"},
		{"blockquote_count", "blockquote"},
		{"code_blocks", "pre, code"},
		{"bold_text_count", "b, strong"},
		{"italic_text_count", "i, em"},
		{"video_count", "video"},
		{"audio_count", "audio"},
		{"iframe_count", "iframe"},
		{"embed_count", "embed, object"},
	}
	for _, e := range elementCounts {
		selector := e.selector
		specs = append(specs, Spec{
			Name:     e.name,
			Category: CategoryContent,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.Find(selector).Length())
			},
		})
	}

	specs = append(specs, keywordChecks()...)
	return specs
}

// keywordChecks are only applicable when the audit was given a target
// keyword; without one every check here is skipped.
func keywordChecks() []Spec {
	return []Spec{
		{
			Name:     "keyword_in_title",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				if in.Keyword == "" {
					return skip(false)
				}
				if strings.Contains(strings.ToLower(in.Page.Title()), in.Keyword) {
					return passNote(true, "Keyword appears in the title")
				}
				return fail(false, "Include your target keyword in the title")
			},
		},
		{
			Name:     "keyword_early_in_title",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				if in.Keyword == "" {
					return skip(false)
				}
				idx := strings.Index(strings.ToLower(in.Page.Title()), in.Keyword)
				if idx < 0 {
					return skip(false)
				}
				if idx > 20 {
					return fail(idx, "Move the keyword closer to the beginning of the title")
				}
				return pass(idx)
			},
		},
		{
			Name:     "keyword_in_meta_description",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   8,
			Eval: func(in *Input) Result {
				desc := in.Page.MetaName("description")
				if in.Keyword == "" || desc == "" {
					return skip(false)
				}
				if strings.Contains(strings.ToLower(desc), in.Keyword) {
					return pass(true)
				}
				return fail(false, "Include your target keyword in the meta description")
			},
		},
		{
			Name:     "keyword_in_h1",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				h1s := in.Headings().H1Texts
				if in.Keyword == "" || len(h1s) == 0 {
					return skip(false)
				}
				for _, h1 := range h1s {
					if strings.Contains(strings.ToLower(h1), in.Keyword) {
						return pass(true)
					}
				}
				return fail(false, "Include your target keyword in the H1")
			},
		},
		{
			Name:     "keyword_in_h2",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				h2s := in.Page.Find("h2")
				if in.Keyword == "" || h2s.Length() == 0 {
					return skip(false)
				}
				found := false
				h2s.EachWithBreak(func(_ int, s *goquery.Selection) bool {
					if strings.Contains(strings.ToLower(s.Text()), in.Keyword) {
						found = true
						return false
					}
					return true
				})
				if !found {
					return fail(false, "Use the keyword in at least one H2 subheading")
				}
				return pass(true)
			},
		},
		{
			Name:     "keyword_in_first_paragraph",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   8,
			Eval: func(in *Input) Result {
				first := in.Text().FirstParagraph
				if in.Keyword == "" || first == "" {
					return skip(false)
				}
				if strings.Contains(first, in.Keyword) {
					return pass(true)
				}
				return fail(false, "Include your keyword in the first paragraph")
			},
		},
		{
			Name:     "keyword_density",
			Category: CategoryContent,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				density, ok := keywordDensity(in)
				if !ok {
					return skip(0)
				}
				if density > 3.0 {
					return fail(density, fmt.Sprintf("Keyword density too high (%.1f%%). Risk of keyword stuffing.", density))
				}
				return pass(density)
			},
		},
		{
			Name:     "keyword_usage",
			Category: CategoryContent,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				density, ok := keywordDensity(in)
				if !ok {
					return skip(0)
				}
				switch {
				case density >= 0.5 && density <= 2.5:
					return passNote(density, fmt.Sprintf("Keyword density is optimal (%.1f%%)", density))
				case density < 0.5:
					return fail(density, fmt.Sprintf("Keyword density is low (%.1f%%). Use the keyword more naturally.", density))
				}
				return pass(density)
			},
		},
		{
			Name:     "keyword_count_in_body",
			Category: CategoryContent,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				if in.Keyword == "" {
					return skip(0)
				}
				return info(strings.Count(in.Text().LowerFull, in.Keyword))
			},
		},
	}
}

func keywordDensity(in *Input) (float64, bool) {
	if in.Keyword == "" {
		return 0, false
	}
	text := in.Text()
	if text.FullWordCount == 0 {
		return 0, false
	}
	count := strings.Count(text.LowerFull, in.Keyword)
	return float64(count) / float64(text.FullWordCount) * 100, true
}

func hiddenTextCount(in *Input) int {
	count := 0
	in.Page.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style := strings.ToLower(strings.ReplaceAll(s.AttrOr("style", ""), " ", ""))
		for _, frag := range hiddenStyleFragments {
			if strings.Contains(style, frag) {
				if strings.TrimSpace(s.Text()) != "" {
					count++
				}
				break
			}
		}
	})
	return count
}

// nonEmbedIframeCount counts iframes excluding the video and map embeds
// that are a normal part of content pages.
func nonEmbedIframeCount(in *Input) int {
	count := 0
	in.Page.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		src := strings.ToLower(s.AttrOr("src", ""))
		if strings.Contains(src, "youtube") || strings.Contains(src, "youtu.be") {
			return
		}
		if strings.Contains(src, "google") && strings.Contains(src, "map") {
			return
		}
		count++
	})
	return count
}

func classFragmentCount(in *Input, fragments []string) int {
	count := 0
	in.Page.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		class := strings.ToLower(s.AttrOr("class", ""))
		for _, frag := range fragments {
			if strings.Contains(class, frag) {
				count++
				break
			}
		}
	})
	return count
}

// adPatternCount reports how many distinct ad class patterns appear on the
// page, not how many ad elements there are.
func adPatternCount(in *Input) int {
	var classes strings.Builder
	in.Page.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		classes.WriteString(strings.ToLower(s.AttrOr("class", "")))
		classes.WriteString(" ")
	})
	all := classes.String()
	found := 0
	for _, pattern := range adClassPatterns {
		if strings.Contains(all, pattern) {
			found++
		}
	}
	return found
}

func anyLinkMentions(in *Input, substring string) bool {
	found := false
	in.Page.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.AttrOr("href", "")), substring) ||
			strings.Contains(strings.ToLower(s.Text()), substring) {
			found = true
			return false
		}
		return true
	})
	return found
}

func hasAuthorInfo(in *Input) bool {
	if in.Page.MetaName("author") != "" {
		return true
	}
	if in.Page.Find("[rel='author']").Length() > 0 {
		return true
	}
	found := false
	in.Page.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.AttrOr("class", "")), "author") {
			found = true
			return false
		}
		return true
	})
	return found
}

func hasPublicationDate(in *Input) bool {
	if in.Page.Find("time[datetime]").Length() > 0 {
		return true
	}
	return in.Page.MetaProperty("article:published_time") != ""
}

func eeatSignalCount(in *Input) int {
	signals := 0
	if hasAuthorInfo(in) {
		signals++
	}
	if anyLinkMentions(in, "about") {
		signals++
	}
	if anyLinkMentions(in, "contact") {
		signals++
	}
	if hasPublicationDate(in) {
		signals++
	}
	if in.Page.MetaName("author") != "" {
		signals++
	}
	return signals
}

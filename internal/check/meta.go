package check

import (
	"fmt"
	"regexp"
	"strings"
)

var digitPattern = regexp.MustCompile(`\d`)

func metaChecks() []Spec {
	return []Spec{
		{
			Name:     "title_present",
			Category: CategoryMeta,
			Severity: SeverityCritical,
			Points:   15,
			Eval: func(in *Input) Result {
				if in.Page.Title() == "" {
					return fail(false, "Missing page title - Critical for SEO")
				}
				return passNote(true, "Page title is present")
			},
		},
		{
			Name:     "title_length",
			Category: CategoryMeta,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				title := in.Page.Title()
				if title == "" {
					return skip(0)
				}
				length := len([]rune(title))
				switch {
				case length < 30:
					return fail(length, fmt.Sprintf("Title too short (%d chars). Aim for 50-60 characters.", length))
				case length > 60:
					return fail(length, fmt.Sprintf("Title too long (%d chars). May be truncated in SERPs.", length))
				}
				return passNote(length, fmt.Sprintf("Title length is good (%d characters)", length))
			},
		},
		{
			Name:     "title_pixel_width",
			Category: CategoryMeta,
			Severity: SeverityWarning,
			Points:   5,
			Eval: func(in *Input) Result {
				title := in.Page.Title()
				if title == "" {
					return skip(0)
				}
				width := float64(len([]rune(title))) * 6.5
				if width > 600 {
					return fail(width, fmt.Sprintf("Title likely truncated in SERPs (~%.0fpx, max ~600px)", width))
				}
				return pass(width)
			},
		},
		{
			Name:     "title_has_keyword",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				if in.Keyword == "" || in.Page.Title() == "" {
					return skip(false)
				}
				return info(strings.Contains(strings.ToLower(in.Page.Title()), in.Keyword))
			},
		},
		{
			Name:     "title_has_numbers",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(digitPattern.MatchString(in.Page.Title()))
			},
		},
		{
			Name:     "title_has_power_words",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(containsAnyWord(strings.ToLower(in.Page.Title()), powerWords))
			},
		},
		{
			Name:     "meta_description_present",
			Category: CategoryMeta,
			Severity: SeverityCritical,
			Points:   15,
			Eval: func(in *Input) Result {
				if in.Page.MetaName("description") == "" {
					return fail(false, "Missing meta description - Important for click-through rate")
				}
				return passNote(true, "Meta description is present")
			},
		},
		{
			Name:     "meta_description_length",
			Category: CategoryMeta,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				desc := in.Page.MetaName("description")
				if desc == "" {
					return skip(0)
				}
				length := len([]rune(desc))
				switch {
				case length < 120:
					return fail(length, fmt.Sprintf("Meta description too short (%d chars). Aim for 120-160 characters.", length))
				case length > 160:
					return fail(length, fmt.Sprintf("Meta description too long (%d chars). May be truncated in SERPs.", length))
				}
				return passNote(length, fmt.Sprintf("Meta description length is good (%d characters)", length))
			},
		},
		{
			Name:     "meta_description_has_cta",
			Category: CategoryMeta,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				desc := in.Page.MetaName("description")
				if desc == "" {
					return skip(false)
				}
				if containsAnyWord(strings.ToLower(desc), ctaWords) {
					return passNote(true, "Meta description contains a call-to-action")
				}
				return fail(false, "Add a call-to-action to your meta description")
			},
		},
		{
			Name:     "meta_description_has_keyword",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				desc := in.Page.MetaName("description")
				if in.Keyword == "" || desc == "" {
					return skip(false)
				}
				return info(strings.Contains(strings.ToLower(desc), in.Keyword))
			},
		},
		{
			Name:     "meta_keywords_present",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaName("keywords") != "")
			},
		},
		{
			Name:     "meta_keywords_count",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				raw := in.Page.MetaName("keywords")
				if raw == "" {
					return info(0)
				}
				count := 0
				for _, part := range strings.Split(raw, ",") {
					if strings.TrimSpace(part) != "" {
						count++
					}
				}
				return info(count)
			},
		},
		{
			Name:     "canonical_present",
			Category: CategoryMeta,
			Severity: SeverityWarning,
			Points:   8,
			Eval: func(in *Input) Result {
				href := in.Page.Find("link[rel='canonical']").First().AttrOr("href", "")
				if strings.TrimSpace(href) == "" {
					return fail(false, "Add canonical URL to prevent duplicate content issues")
				}
				return passNote(true, "Canonical URL is set")
			},
		},
		{
			Name:     "canonical_is_self",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				href := strings.TrimSpace(in.Page.Find("link[rel='canonical']").First().AttrOr("href", ""))
				if href == "" {
					return skip(false)
				}
				canonical := strings.TrimRight(in.Page.ResolveURL(href), "/")
				current := strings.TrimRight(in.Snapshot.FinalURL, "/")
				return info(canonical == current)
			},
		},
		{
			Name:     "robots_meta_present",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaName("robots"))
			},
		},
		{
			Name:     "robots_index",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				robots := strings.ToLower(in.Page.MetaName("robots"))
				return info(!strings.Contains(robots, "noindex"))
			},
		},
		{
			Name:     "robots_follow",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				robots := strings.ToLower(in.Page.MetaName("robots"))
				return info(!strings.Contains(robots, "nofollow"))
			},
		},
		{
			Name:     "meta_author",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaName("author") != "")
			},
		},
		{
			Name:     "meta_publisher",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaName("publisher") != "")
			},
		},
		{
			Name:     "meta_copyright",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaName("copyright") != "")
			},
		},
		{
			Name:     "meta_language",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaName("language"))
			},
		},
		{
			Name:     "meta_revisit",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaName("revisit-after"))
			},
		},
		{
			Name:     "meta_rating",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaName("rating"))
			},
		},
		{
			Name:     "meta_referrer",
			Category: CategoryMeta,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaName("referrer"))
			},
		},
		{
			Name:     "title_matches_h1",
			Category: CategoryMeta,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				title := in.Page.Title()
				h1s := in.Headings().H1Texts
				if title == "" || len(h1s) == 0 {
					return skip(false)
				}
				if sharedSignificantWords(title, h1s[0]) >= 2 {
					return passNote(true, "Title and H1 are aligned")
				}
				return fail(false, "Title and H1 don't match - consider aligning them for consistency")
			},
		},
		{
			Name:     "meta_description_unique",
			Category: CategoryMeta,
			Severity: SeverityWarning,
			Points:   5,
			Eval: func(in *Input) Result {
				desc := in.Page.MetaName("description")
				if desc == "" {
					return skip(false)
				}
				if strings.EqualFold(strings.TrimSpace(desc), strings.TrimSpace(in.Page.Title())) {
					return fail(false, "Meta description duplicates the title - write unique copy")
				}
				return pass(true)
			},
		},
		{
			Name:     "meta_description_compelling",
			Category: CategoryMeta,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				desc := in.Page.MetaName("description")
				if desc == "" {
					return skip(false)
				}
				if containsAnyWord(strings.ToLower(desc), compellingWords) {
					return passNote(true, "Meta description uses compelling language")
				}
				return fail(false, "Make the meta description more compelling to improve click-through rate")
			},
		},
	}
}

package check

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	fontSizePattern        = regexp.MustCompile(`font-size:\s*(\d+)`)
	lowContrastStyleFrags  = []string{"color:#fff", "color:white", "color:#ccc", "color:#ddd"}
	hamburgerClassPatterns = []string{"hamburger", "mobile-menu", "menu-toggle", "nav-toggle"}
)

func mobileChecks() []Spec {
	return []Spec{
		{
			Name:     "theme_color",
			Category: CategoryMobile,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				if in.Page.MetaName("theme-color") == "" {
					return fail(false, "Add a theme-color meta tag for branded mobile browser UI")
				}
				return pass(true)
			},
		},
		{
			Name:     "touch_icon",
			Category: CategoryMobile,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				found := false
				in.Page.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
					if strings.Contains(strings.ToLower(s.AttrOr("rel", "")), "apple-touch-icon") {
						found = true
						return false
					}
					return true
				})
				if !found {
					return fail(false, "Add an apple-touch-icon for iOS home screens")
				}
				return pass(true)
			},
		},
		{
			Name:     "amp_version",
			Category: CategoryMobile,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.Find("link[rel='amphtml']").Length() > 0)
			},
		},
		{
			Name:     "smart_app_banners",
			Category: CategoryMobile,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaName("apple-itunes-app") != "")
			},
		},
		{
			Name:     "mobile_page_weight",
			Category: CategoryMobile,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				kb := float64(in.Snapshot.RawSize) / 1024
				if kb > 1500 {
					return fail(kb, fmt.Sprintf("Page too heavy for mobile (%.0fKB)", kb))
				}
				return pass(kb)
			},
		},
		{
			Name:     "responsive_images",
			Category: CategoryMobile,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				img := in.Images()
				if img.Total <= 3 {
					return skip(0)
				}
				ratio := float64(img.WithSrcset) / float64(img.Total)
				if ratio <= 0.5 {
					return fail(ratio, "Use responsive images with srcset")
				}
				return pass(ratio)
			},
		},
		{
			Name:     "font_sizes_readable",
			Category: CategoryMobile,
			Severity: SeverityWarning,
			Points:   8,
			Eval: func(in *Input) Result {
				small := smallFontCount(in)
				if small > 0 {
					return fail(small, "Small font sizes detected - hard to read on mobile")
				}
				return passNote(small, "Font sizes appear readable")
			},
		},
		{
			Name:     "small_font_elements",
			Category: CategoryMobile,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(smallFontCount(in))
			},
		},
		{
			Name:     "tap_targets",
			Category: CategoryMobile,
			Severity: SeverityWarning,
			Points:   8,
			Eval: func(in *Input) Result {
				tiny := tinyTapTargetCount(in)
				if tiny >= 5 {
					return fail(tiny, fmt.Sprintf("Tap targets may be too small (%d tiny links)", tiny))
				}
				return pass(tiny)
			},
		},
		{
			Name:     "nav_landmark",
			Category: CategoryMobile,
			Severity: SeverityRecommendation,
			Points:   8,
			Eval: func(in *Input) Result {
				if in.Page.Find("nav").Length() > 0 || in.Page.Find("[role='navigation']").Length() > 0 {
					return pass(true)
				}
				return fail(false, "Add a <nav> element for navigation structure")
			},
		},
		{
			Name:     "mobile_menu_present",
			Category: CategoryMobile,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				found := false
				in.Page.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
					class := strings.ToLower(s.AttrOr("class", ""))
					for _, pattern := range hamburgerClassPatterns {
						if strings.Contains(class, pattern) {
							found = true
							return false
						}
					}
					return true
				})
				return info(found)
			},
		},
		{
			Name:     "has_skip_link",
			Category: CategoryMobile,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				found := false
				in.Page.Find("a[href^='#']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
					if strings.Contains(strings.ToLower(s.Text()), "skip") {
						found = true
						return false
					}
					return true
				})
				return info(found)
			},
		},
		{
			Name:     "main_landmark",
			Category: CategoryMobile,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				if in.Page.Find("main").Length() > 0 ||
					in.Page.Find("[role='main']").Length() > 0 ||
					in.Page.Find("article").Length() > 0 {
					return passNote(true, "Primary content is clearly marked with semantic HTML")
				}
				return fail(false, "Use <main> or <article> tags to clearly mark primary content")
			},
		},
		{
			Name:     "footer_landmark",
			Category: CategoryMobile,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.Find("footer").Length() > 0)
			},
		},
		{
			Name:     "supplementary_content",
			Category: CategoryMobile,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.Find("aside").Length() > 0)
			},
		},
		{
			Name:     "unlabeled_form_fields",
			Category: CategoryMobile,
			Severity: SeverityWarning,
			Points:   12,
			Eval: func(in *Input) Result {
				fields, unlabeled := formFieldLabels(in)
				if fields == 0 {
					return skip(0)
				}
				if unlabeled > 0 {
					return fail(unlabeled, fmt.Sprintf("%d form input(s) missing labels", unlabeled))
				}
				return pass(unlabeled)
			},
		},
		{
			Name:     "text_contrast",
			Category: CategoryMobile,
			Severity: SeverityWarning,
			Points:   5,
			Eval: func(in *Input) Result {
				low := lowContrastCount(in)
				if low >= 3 {
					return fail(low, "Possible low text contrast detected")
				}
				return pass(low)
			},
		},
		{
			Name:     "aria_attributes",
			Category: CategoryMobile,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				count := 0
				in.Page.Find("*").Each(func(_ int, s *goquery.Selection) {
					for _, attr := range s.Nodes[0].Attr {
						if strings.HasPrefix(attr.Key, "aria-") {
							count++
							break
						}
					}
				})
				return info(count)
			},
		},
		{
			Name:     "role_attributes",
			Category: CategoryMobile,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.Find("[role]").Length())
			},
		},
		{
			Name:     "tabindex_usage",
			Category: CategoryMobile,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.Find("[tabindex]").Length())
			},
		},
	}
}

func smallFontCount(in *Input) int {
	count := 0
	for _, match := range fontSizePattern.FindAllStringSubmatch(in.Page.HTML(), -1) {
		if size, err := strconv.Atoi(match[1]); err == nil && size < 12 {
			count++
		}
	}
	return count
}

// tinyTapTargetCount counts links whose anchor is under three characters
// with no image inside, a proxy for tap targets that are hard to hit.
func tinyTapTargetCount(in *Input) int {
	count := 0
	in.Page.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len([]rune(text)) < 3 && s.Find("img").Length() == 0 {
			count++
		}
	})
	return count
}

func formFieldLabels(in *Input) (fields, unlabeled int) {
	labelFor := make(map[string]bool)
	in.Page.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		labelFor[s.AttrOr("for", "")] = true
	})

	in.Page.Find("input, textarea, select").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "input" {
			switch strings.ToLower(s.AttrOr("type", "")) {
			case "hidden", "submit", "button", "reset":
				return
			}
		}
		fields++
		if s.AttrOr("aria-label", "") != "" || s.AttrOr("aria-labelledby", "") != "" {
			return
		}
		if id := s.AttrOr("id", ""); id != "" && labelFor[id] {
			return
		}
		if s.ParentsFiltered("label").Length() > 0 {
			return
		}
		unlabeled++
	})
	return fields, unlabeled
}

func lowContrastCount(in *Input) int {
	count := 0
	in.Page.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style := strings.ToLower(strings.ReplaceAll(s.AttrOr("style", ""), " ", ""))
		for _, frag := range lowContrastStyleFrags {
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

package check

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// requiredOpenGraph are the Open Graph properties every shareable page
// should carry.
var requiredOpenGraph = []string{"og:title", "og:description", "og:image", "og:url", "og:type"}

// requiredTwitterCard are the Twitter Card tags needed for a rich preview.
var requiredTwitterCard = []string{"twitter:card", "twitter:title", "twitter:description", "twitter:image"}

var socialPlatforms = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"facebook", regexp.MustCompile(`facebook\.com|fb\.com`)},
	{"twitter", regexp.MustCompile(`twitter\.com|x\.com`)},
	{"linkedin", regexp.MustCompile(`linkedin\.com`)},
	{"instagram", regexp.MustCompile(`instagram\.com`)},
	{"youtube", regexp.MustCompile(`youtube\.com|youtu\.be`)},
	{"pinterest", regexp.MustCompile(`pinterest\.com`)},
	{"tiktok", regexp.MustCompile(`tiktok\.com`)},
	{"github", regexp.MustCompile(`github\.com`)},
	{"reddit", regexp.MustCompile(`reddit\.com`)},
}

var shareWidgetClassFragments = []string{"share", "social-share", "sharing", "addthis", "sharethis"}

var socialProofClassFragments = []string{"review", "testimonial", "rating", "stars"}

func socialChecks() []Spec {
	specs := []Spec{
		{
			Name:     "open_graph_complete",
			Category: CategorySocial,
			Severity: SeverityWarning,
			Points:   15,
			Eval: func(in *Input) Result {
				var missing []string
				present := 0
				for _, prop := range requiredOpenGraph {
					if in.Page.MetaProperty(prop) != "" {
						present++
					} else {
						missing = append(missing, prop)
					}
				}
				credit := float64(present) / float64(len(requiredOpenGraph))
				switch {
				case present == 0:
					return fail(present, "Add Open Graph tags for better social media sharing")
				case credit < 0.6:
					return partial(present, credit, fmt.Sprintf("Missing Open Graph tags: %s", strings.Join(missing, ", ")))
				case present == len(requiredOpenGraph):
					return passNote(present, "All essential Open Graph tags present")
				}
				return Result{Value: present, Credit: credit}
			},
		},
		{
			Name:     "twitter_cards_complete",
			Category: CategorySocial,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				var missing []string
				present := 0
				for _, name := range requiredTwitterCard {
					if in.Page.MetaName(name) != "" {
						present++
					} else {
						missing = append(missing, name)
					}
				}
				credit := float64(present) / float64(len(requiredTwitterCard))
				switch {
				case present == 0:
					return fail(present, "Add Twitter Card tags for better sharing on X")
				case present < len(requiredTwitterCard):
					return partial(present, credit, fmt.Sprintf("Missing Twitter Card tags: %s", strings.Join(missing, ", ")))
				}
				return passNote(present, "All essential Twitter Card tags present")
			},
		},
		{
			Name:     "social_profile_links",
			Category: CategorySocial,
			Severity: SeverityRecommendation,
			Points:   15,
			Eval: func(in *Input) Result {
				platforms := collectSocialPlatforms(in)
				if len(platforms) == 0 {
					return fail(0, "Add links to your social media profiles")
				}
				return passNote(len(platforms), fmt.Sprintf("Links to %d social platform(s)", len(platforms)))
			},
		},
		{
			Name:     "social_platforms",
			Category: CategorySocial,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(strings.Join(collectSocialPlatforms(in), ", "))
			},
		},
		{
			Name:     "social_share_buttons",
			Category: CategorySocial,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				widgets := classFragmentCount(in, shareWidgetClassFragments)
				if widgets == 0 {
					return fail(widgets, "Add social sharing buttons to increase content reach")
				}
				return pass(widgets)
			},
		},
		{
			Name:     "social_proof",
			Category: CategorySocial,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(classFragmentCount(in, socialProofClassFragments) > 0)
			},
		},
	}

	ogProps := []string{
		"og:title", "og:description", "og:image", "og:image:width",
		"og:image:height", "og:url", "og:type", "og:site_name", "og:locale",
		"og:video", "og:audio",
	}
	for _, prop := range ogProps {
		prop := prop
		specs = append(specs, Spec{
			Name:     propToCheckName(prop),
			Category: CategorySocial,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaProperty(prop) != "")
			},
		})
	}

	twitterNames := []string{
		"twitter:card", "twitter:title", "twitter:description", "twitter:image",
		"twitter:site", "twitter:creator", "twitter:player",
		"twitter:app:id:iphone", "twitter:app:id:googleplay",
	}
	for _, name := range twitterNames {
		name := name
		specs = append(specs, Spec{
			Name:     propToCheckName(name),
			Category: CategorySocial,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.MetaName(name) != "")
			},
		})
	}
	return specs
}

// propToCheckName turns a meta property like og:image:width into the
// registry name og_image_width.
func propToCheckName(prop string) string {
	name := strings.ReplaceAll(prop, ":", "_")
	name = strings.ReplaceAll(name, "id_iphone", "iphone")
	name = strings.ReplaceAll(name, "id_googleplay", "android")
	return name
}

func collectSocialPlatforms(in *Input) []string {
	var hrefs strings.Builder
	in.Page.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		hrefs.WriteString(strings.ToLower(s.AttrOr("href", "")))
		hrefs.WriteString("\n")
	})
	all := hrefs.String()

	var found []string
	for _, platform := range socialPlatforms {
		if platform.pattern.MatchString(all) {
			found = append(found, platform.name)
		}
	}
	return found
}

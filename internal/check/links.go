package check

import "fmt"

func linkChecks() []Spec {
	specs := []Spec{
		{
			Name:     "internal_links_sufficient",
			Category: CategoryLinks,
			Severity: SeverityRecommendation,
			Points:   15,
			Eval: func(in *Input) Result {
				internal := in.Links().Internal
				if internal < 3 {
					return fail(internal, fmt.Sprintf("Add more internal links (found %d). Internal linking helps SEO.", internal))
				}
				return passNote(internal, fmt.Sprintf("Good internal linking (%d links)", internal))
			},
		},
		{
			Name:     "links_noopener_safety",
			Category: CategoryLinks,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				links := in.Links()
				if links.TargetBlank == 0 {
					return skip(0)
				}
				if links.WithoutNoopener > 0 {
					return fail(links.WithoutNoopener, fmt.Sprintf("%d links with target=\"_blank\" missing rel=\"noopener\"", links.WithoutNoopener))
				}
				return pass(0)
			},
		},
		{
			Name:     "empty_anchor_links",
			Category: CategoryLinks,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				links := in.Links()
				if links.Total == 0 {
					return skip(0)
				}
				if links.EmptyAnchor == 0 {
					return pass(0)
				}
				msg := fmt.Sprintf("%d links with no anchor text", links.EmptyAnchor)
				if float64(links.EmptyAnchor)/float64(links.Total) <= 0.2 {
					return partial(links.EmptyAnchor, 1, msg)
				}
				return fail(links.EmptyAnchor, msg)
			},
		},
		{
			Name:     "anchor_text_top",
			Category: CategoryLinks,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				top := in.Links().TopAnchors
				if len(top) == 0 {
					return info("")
				}
				return info(top[0].Word)
			},
		},
	}

	counters := []struct {
		name string
		read func(*LinkStats) int
	}{
		{"total_links", func(s *LinkStats) int { return s.Total }},
		{"internal_links", func(s *LinkStats) int { return s.Internal }},
		{"external_links", func(s *LinkStats) int { return s.External }},
		{"unique_internal_links", func(s *LinkStats) int { return s.UniqueInternal }},
		{"unique_external_links", func(s *LinkStats) int { return s.UniqueExternal }},
		{"nofollow_links", func(s *LinkStats) int { return s.Nofollow }},
		{"dofollow_links", func(s *LinkStats) int { return s.Dofollow }},
		{"sponsored_links", func(s *LinkStats) int { return s.Sponsored }},
		{"ugc_links", func(s *LinkStats) int { return s.UGC }},
		{"links_with_title", func(s *LinkStats) int { return s.WithTitle }},
		{"links_with_target_blank", func(s *LinkStats) int { return s.TargetBlank }},
		{"image_links", func(s *LinkStats) int { return s.ImageLinks }},
		{"text_links", func(s *LinkStats) int { return s.TextLinks }},
		{"javascript_links", func(s *LinkStats) int { return s.JavaScript }},
		{"hash_links", func(s *LinkStats) int { return s.Hash }},
		{"mailto_links", func(s *LinkStats) int { return s.Mailto }},
		{"tel_links", func(s *LinkStats) int { return s.Tel }},
	}
	for _, c := range counters {
		read := c.read
		specs = append(specs, Spec{
			Name:     c.name,
			Category: CategoryLinks,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(read(in.Links()))
			},
		})
	}
	return specs
}

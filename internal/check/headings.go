package check

import (
	"fmt"
	"strings"
)

func headingChecks() []Spec {
	specs := []Spec{
		{
			Name:     "h1_present",
			Category: CategoryHeadings,
			Severity: SeverityCritical,
			Points:   25,
			Eval: func(in *Input) Result {
				if in.Headings().Counts[1] == 0 {
					return fail(false, "Missing H1 tag - Important for SEO")
				}
				return passNote(true, "H1 tag is present")
			},
		},
		{
			Name:     "h1_single",
			Category: CategoryHeadings,
			Severity: SeverityWarning,
			Points:   15,
			Eval: func(in *Input) Result {
				count := in.Headings().Counts[1]
				if count == 0 {
					return skip(0)
				}
				if count > 1 {
					return fail(count, fmt.Sprintf("Multiple H1 tags found (%d). Use only one H1 per page.", count))
				}
				return passNote(count, "Exactly one H1 tag")
			},
		},
		{
			Name:     "heading_hierarchy_valid",
			Category: CategoryHeadings,
			Severity: SeverityWarning,
			Points:   20,
			Eval: func(in *Input) Result {
				if in.Headings().Valid {
					return pass(true)
				}
				return fail(false, "Improper heading hierarchy - don't skip heading levels")
			},
		},
		{
			Name:     "empty_headings",
			Category: CategoryHeadings,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				empty := in.Headings().Empty
				if empty > 0 {
					return fail(empty, fmt.Sprintf("%d empty heading(s) found - remove or fill them", empty))
				}
				return pass(empty)
			},
		},
		{
			Name:     "duplicate_headings",
			Category: CategoryHeadings,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				dups := in.Headings().Duplicates
				if dups > 0 {
					return fail(dups, "Duplicate headings found - diversify your headings")
				}
				return pass(dups)
			},
		},
		{
			Name:     "long_headings",
			Category: CategoryHeadings,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				long := in.Headings().Long
				if long > 0 {
					return fail(long, fmt.Sprintf("%d heading(s) longer than 70 characters", long))
				}
				return pass(long)
			},
		},
		{
			Name:     "h1_length_avg",
			Category: CategoryHeadings,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Headings().H1AvgLen)
			},
		},
		{
			Name:     "h1_has_keyword",
			Category: CategoryHeadings,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				h1s := in.Headings().H1Texts
				if in.Keyword == "" || len(h1s) == 0 {
					return skip(false)
				}
				return info(strings.Contains(strings.ToLower(h1s[0]), in.Keyword))
			},
		},
		{
			Name:     "h1_text",
			Category: CategoryHeadings,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				h1s := in.Headings().H1Texts
				if len(h1s) == 0 {
					return info("")
				}
				return info(h1s[0])
			},
		},
		{
			Name:     "headings_to_content_ratio",
			Category: CategoryHeadings,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				words := in.Text().WordCount
				if words == 0 {
					return info(0.0)
				}
				return info(float64(in.Headings().Total) / float64(words) * 100)
			},
		},
		{
			Name:     "total_headings",
			Category: CategoryHeadings,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Headings().Total)
			},
		},
	}

	for level := 1; level <= 6; level++ {
		level := level
		specs = append(specs, Spec{
			Name:     fmt.Sprintf("h%d_count", level),
			Category: CategoryHeadings,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Headings().Counts[level])
			},
		})
	}
	return specs
}

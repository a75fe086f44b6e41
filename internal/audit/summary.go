package audit

import (
	"math"
	"sort"
)

// CategoryAverage is one category's mean score across a batch.
type CategoryAverage struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
}

// IssueCount is one issue message and how many audited pages raised it.
type IssueCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Summary condenses a batch of audits for reports.
type Summary struct {
	Targets          int               `json:"targets"`
	Succeeded        int               `json:"succeeded"`
	Failed           int               `json:"failed"`
	AverageScore     float64           `json:"average_score"`
	MedianScore      float64           `json:"median_score"`
	HighestScore     int               `json:"highest_score"`
	HighestURL       string            `json:"highest_url,omitempty"`
	LowestScore      int               `json:"lowest_score"`
	LowestURL        string            `json:"lowest_url,omitempty"`
	GradeCounts      map[string]int    `json:"grade_counts"`
	CategoryAverages []CategoryAverage `json:"category_averages"`
	CommonIssues     []IssueCount      `json:"common_issues,omitempty"`
}

// maxCommonIssues caps the shared-issue list in batch summaries.
const maxCommonIssues = 20

// Summarize folds batch results into aggregate statistics. Failed targets
// count toward Failed but stay out of every score statistic.
func Summarize(results []TargetResult) Summary {
	summary := Summary{
		Targets:     len(results),
		GradeCounts: make(map[string]int),
	}

	var scores []int
	issueTally := make(map[string]int)
	catTotals := make(map[string]float64)
	var catOrder []string

	for _, tr := range results {
		if tr.Error != nil || tr.Result == nil {
			summary.Failed++
			continue
		}
		res := tr.Result
		summary.Succeeded++
		scores = append(scores, res.OverallScore)
		summary.GradeCounts[res.Grade]++

		if summary.HighestURL == "" || res.OverallScore > summary.HighestScore {
			summary.HighestScore = res.OverallScore
			summary.HighestURL = res.URL
		}
		if summary.LowestURL == "" || res.OverallScore < summary.LowestScore {
			summary.LowestScore = res.OverallScore
			summary.LowestURL = res.URL
		}

		for _, cat := range res.Categories {
			if _, seen := catTotals[cat.Name]; !seen {
				catOrder = append(catOrder, cat.Name)
			}
			catTotals[cat.Name] += cat.Score
		}
		for _, msg := range res.Issues.Critical {
			issueTally[msg]++
		}
		for _, msg := range res.Issues.Warnings {
			issueTally[msg]++
		}
		for _, msg := range res.Issues.Recommendations {
			issueTally[msg]++
		}
	}

	if len(scores) > 0 {
		sum := 0
		for _, s := range scores {
			sum += s
		}
		summary.AverageScore = round1(float64(sum) / float64(len(scores)))
		summary.MedianScore = round1(median(scores))

		for _, name := range catOrder {
			summary.CategoryAverages = append(summary.CategoryAverages, CategoryAverage{
				Name:    name,
				Average: round1(catTotals[name] / float64(len(scores))),
			})
		}
	}

	summary.CommonIssues = topIssues(issueTally, maxCommonIssues)
	return summary
}

func median(scores []int) float64 {
	sorted := make([]int, len(scores))
	copy(sorted, scores)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

func topIssues(tally map[string]int, limit int) []IssueCount {
	out := make([]IssueCount, 0, len(tally))
	for msg, count := range tally {
		out = append(out, IssueCount{Message: msg, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Message < out[j].Message
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

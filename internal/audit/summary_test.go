package audit

import (
	"fmt"
	"testing"

	"github.com/muntasir-islam/seo-audit-tool/internal/score"
)

func scoredTarget(url string, overall int, grade string, issues Issues, cats ...score.CategoryScore) TargetResult {
	return TargetResult{
		Target: Target{URL: url},
		Result: &Result{
			URL:          url,
			OverallScore: overall,
			Grade:        grade,
			Categories:   cats,
			Issues:       issues,
		},
	}
}

func failedTarget(url, errType string) TargetResult {
	return TargetResult{
		Target: Target{URL: url},
		Error:  &TargetError{Type: errType, Message: "went wrong"},
	}
}

func TestSummarizeBasicStats(t *testing.T) {
	results := []TargetResult{
		scoredTarget("https://a.example", 90, "A", Issues{}),
		scoredTarget("https://b.example", 70, "C", Issues{}),
		scoredTarget("https://c.example", 80, "B", Issues{}),
		failedTarget("https://d.example", "fetch"),
	}

	s := Summarize(results)
	if s.Targets != 4 || s.Succeeded != 3 || s.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 4/3/1", s.Targets, s.Succeeded, s.Failed)
	}
	if s.AverageScore != 80.0 {
		t.Errorf("average = %v, want 80.0", s.AverageScore)
	}
	if s.MedianScore != 80.0 {
		t.Errorf("median = %v, want 80.0", s.MedianScore)
	}
	if s.HighestScore != 90 || s.HighestURL != "https://a.example" {
		t.Errorf("highest = %d %s", s.HighestScore, s.HighestURL)
	}
	if s.LowestScore != 70 || s.LowestURL != "https://b.example" {
		t.Errorf("lowest = %d %s", s.LowestScore, s.LowestURL)
	}
	if s.GradeCounts["A"] != 1 || s.GradeCounts["B"] != 1 || s.GradeCounts["C"] != 1 {
		t.Errorf("grade counts = %v", s.GradeCounts)
	}
}

func TestSummarizeMedianEvenCount(t *testing.T) {
	results := []TargetResult{
		scoredTarget("https://a.example", 60, "D", Issues{}),
		scoredTarget("https://b.example", 91, "A", Issues{}),
	}

	s := Summarize(results)
	if s.MedianScore != 75.5 {
		t.Errorf("median = %v, want 75.5", s.MedianScore)
	}
	if s.AverageScore != 75.5 {
		t.Errorf("average = %v, want 75.5", s.AverageScore)
	}
}

func TestSummarizeAverageRounding(t *testing.T) {
	results := []TargetResult{
		scoredTarget("https://a.example", 70, "C", Issues{}),
		scoredTarget("https://b.example", 71, "C", Issues{}),
		scoredTarget("https://c.example", 71, "C", Issues{}),
	}

	s := Summarize(results)
	// 212 / 3 = 70.666..., rounded to one decimal
	if s.AverageScore != 70.7 {
		t.Errorf("average = %v, want 70.7", s.AverageScore)
	}
}

func TestSummarizeCategoryAverages(t *testing.T) {
	results := []TargetResult{
		scoredTarget("https://a.example", 80, "B", Issues{},
			score.CategoryScore{Name: "Meta Tags", Score: 90},
			score.CategoryScore{Name: "Content", Score: 60},
		),
		scoredTarget("https://b.example", 80, "B", Issues{},
			score.CategoryScore{Name: "Meta Tags", Score: 70},
			score.CategoryScore{Name: "Content", Score: 80},
		),
	}

	s := Summarize(results)
	if len(s.CategoryAverages) != 2 {
		t.Fatalf("category averages = %d, want 2", len(s.CategoryAverages))
	}
	if s.CategoryAverages[0].Name != "Meta Tags" || s.CategoryAverages[0].Average != 80.0 {
		t.Errorf("first category = %+v", s.CategoryAverages[0])
	}
	if s.CategoryAverages[1].Name != "Content" || s.CategoryAverages[1].Average != 70.0 {
		t.Errorf("second category = %+v", s.CategoryAverages[1])
	}
}

func TestSummarizeCommonIssues(t *testing.T) {
	shared := "Missing meta description - Important for click-through rate"
	results := []TargetResult{
		scoredTarget("https://a.example", 50, "F", Issues{
			Critical: []string{shared},
			Warnings: []string{"zeta warning"},
		}),
		scoredTarget("https://b.example", 55, "F", Issues{
			Critical:        []string{shared},
			Recommendations: []string{"alpha recommendation"},
		}),
	}

	s := Summarize(results)
	if len(s.CommonIssues) != 3 {
		t.Fatalf("common issues = %d, want 3", len(s.CommonIssues))
	}
	if s.CommonIssues[0].Message != shared || s.CommonIssues[0].Count != 2 {
		t.Errorf("top issue = %+v", s.CommonIssues[0])
	}
	// ties broken alphabetically
	if s.CommonIssues[1].Message != "alpha recommendation" {
		t.Errorf("second issue = %q", s.CommonIssues[1].Message)
	}
	if s.CommonIssues[2].Message != "zeta warning" {
		t.Errorf("third issue = %q", s.CommonIssues[2].Message)
	}
}

func TestSummarizeCapsCommonIssues(t *testing.T) {
	var warnings []string
	for i := 0; i < maxCommonIssues+7; i++ {
		warnings = append(warnings, fmt.Sprintf("warning %02d", i))
	}
	results := []TargetResult{
		scoredTarget("https://a.example", 40, "F", Issues{Warnings: warnings}),
	}

	s := Summarize(results)
	if len(s.CommonIssues) != maxCommonIssues {
		t.Errorf("common issues = %d, want %d", len(s.CommonIssues), maxCommonIssues)
	}
}

func TestSummarizeAllFailed(t *testing.T) {
	results := []TargetResult{
		failedTarget("https://a.example", "fetch"),
		failedTarget("https://b.example", "parse"),
	}

	s := Summarize(results)
	if s.Succeeded != 0 || s.Failed != 2 {
		t.Errorf("counts = %d/%d, want 0/2", s.Succeeded, s.Failed)
	}
	if s.AverageScore != 0 || s.MedianScore != 0 {
		t.Errorf("scores should stay zero: %v / %v", s.AverageScore, s.MedianScore)
	}
	if s.HighestURL != "" || s.LowestURL != "" {
		t.Errorf("extreme URLs should stay empty: %q / %q", s.HighestURL, s.LowestURL)
	}
	if len(s.CategoryAverages) != 0 {
		t.Errorf("category averages = %v", s.CategoryAverages)
	}
}

func TestNewRunIDUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Error("run IDs should differ")
	}
	if len(a) != 36 {
		t.Errorf("run ID %q is not a UUID", a)
	}
}

// Package score turns raw check evaluations into weighted category scores,
// the 0-100 overall score, and the letter grade.
package score

import (
	"fmt"
	"math"

	"github.com/muntasir-islam/seo-audit-tool/internal/check"
	apperrors "github.com/muntasir-islam/seo-audit-tool/internal/shared/errors"
)

// weightPercents assigns each category its share of the overall score.
// Integer percents make the sum-to-100 validation exact.
var weightPercents = map[check.Category]int{
	check.CategoryMeta:      15,
	check.CategoryHeadings:  10,
	check.CategoryImages:    10,
	check.CategoryLinks:     10,
	check.CategoryTechnical: 20,
	check.CategoryContent:   15,
	check.CategoryMobile:    10,
	check.CategorySocial:    5,
	check.CategorySchema:    5,
}

// CheckOutcome is one check's row in a report: the measured value and the
// severity the result carries. Outcome keeps the value's type (bool, number,
// or string) so JSON consumers see typed outcomes. Absence measures as
// zero/false, so a skipped check still reports a determinate value.
type CheckOutcome struct {
	Name     string `json:"name"`
	Outcome  any    `json:"outcome"`
	Severity string `json:"severity"`
}

// CategoryScore is one scored category. Weight is the category's fraction
// of the overall score.
type CategoryScore struct {
	Name    string         `json:"name"`
	Score   float64        `json:"score"`
	Weight  float64        `json:"weight"`
	Checks  []CheckOutcome `json:"checks"`
	Earned  float64        `json:"-"`
	Maximum float64        `json:"-"`
}

// Summary is the scored view of one audit.
type Summary struct {
	Categories []CategoryScore
	Overall    int
	Grade      string
}

// WeightPercent reports a category's weight as an integer percent.
func WeightPercent(cat check.Category) int { return weightPercents[cat] }

// ValidateConfig checks the scoring table at startup: every category must
// carry a positive weight and the weights must sum to exactly 100.
func ValidateConfig() error {
	sum := 0
	for _, cat := range check.Categories() {
		w, ok := weightPercents[cat]
		if !ok {
			return &apperrors.ConfigError{Reason: fmt.Sprintf("category %q has no weight", cat)}
		}
		if w <= 0 {
			return &apperrors.ConfigError{Reason: fmt.Sprintf("category %q has non-positive weight %d", cat, w)}
		}
		sum += w
	}
	if len(weightPercents) != len(check.Categories()) {
		return &apperrors.ConfigError{Reason: "weight table references unknown categories"}
	}
	if sum != 100 {
		return &apperrors.ConfigError{Reason: fmt.Sprintf("category weights sum to %d, want 100", sum)}
	}
	return nil
}

// Aggregate folds check evaluations into category scores and the weighted
// overall. A category score is the credit-weighted share of its applicable
// points; skipped checks and zero-point informational checks stay out of the
// denominator. A category where nothing applied (an image category on a page
// with no images) scores 100 rather than penalizing the page.
func Aggregate(evals []check.Evaluation) Summary {
	type bucket struct {
		earned     float64
		applicable float64
		checks     []CheckOutcome
	}
	buckets := make(map[check.Category]*bucket, len(check.Categories()))
	for _, cat := range check.Categories() {
		buckets[cat] = &bucket{}
	}

	for _, ev := range evals {
		b := buckets[ev.Spec.Category]
		if b == nil {
			// unknown categories are rejected by check.Validate at startup
			continue
		}
		b.checks = append(b.checks, outcomeOf(ev))
		if ev.Result.Skipped || ev.Spec.Points == 0 {
			continue
		}
		credit := ev.Result.Credit
		if credit < 0 {
			credit = 0
		} else if credit > 1 {
			credit = 1
		}
		b.applicable += ev.Spec.Points
		b.earned += credit * ev.Spec.Points
	}

	summary := Summary{Categories: make([]CategoryScore, 0, len(check.Categories()))}
	overall := 0.0
	for _, cat := range check.Categories() {
		b := buckets[cat]
		catScore := 100.0
		if b.applicable > 0 {
			catScore = b.earned / b.applicable * 100
		}
		if catScore < 0 {
			catScore = 0
		} else if catScore > 100 {
			catScore = 100
		}
		catScore = math.Round(catScore*10) / 10

		weight := weightPercents[cat]
		summary.Categories = append(summary.Categories, CategoryScore{
			Name:    string(cat),
			Score:   catScore,
			Weight:  float64(weight) / 100,
			Checks:  b.checks,
			Earned:  b.earned,
			Maximum: b.applicable,
		})
		overall += catScore * float64(weight) / 100
	}

	summary.Overall = int(math.Round(overall))
	summary.Grade = Grade(float64(summary.Overall))
	return summary
}

// Grade maps a 0-100 score to its letter grade.
func Grade(score float64) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	}
	return "F"
}

func outcomeOf(ev check.Evaluation) CheckOutcome {
	return CheckOutcome{
		Name:     ev.Spec.Name,
		Outcome:  roundValue(ev.Result.Value),
		Severity: string(ev.ResultSeverity()),
	}
}

// roundValue normalizes a measured value for the payload. Floats are rounded
// to two decimals so repeated audits of identical input stay byte-identical.
func roundValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return math.Round(t*100) / 100
	}
	return v
}

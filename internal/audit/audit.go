// Package audit wires the pipeline together: fetch a page, parse it, run
// every registered check, and fold the evaluations into a scored result.
package audit

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/muntasir-islam/seo-audit-tool/internal/check"
	"github.com/muntasir-islam/seo-audit-tool/internal/fetch"
	"github.com/muntasir-islam/seo-audit-tool/internal/page"
	"github.com/muntasir-islam/seo-audit-tool/internal/score"
	apperrors "github.com/muntasir-islam/seo-audit-tool/internal/shared/errors"
)

// Target is one page to audit, with an optional keyword the content checks
// focus on.
type Target struct {
	URL     string `json:"url"`
	Keyword string `json:"keyword,omitempty"`
}

// Issues groups every raised message by severity, plus the positive notes.
// All slices are non-nil so the JSON always carries the three keys.
type Issues struct {
	Critical        []string `json:"critical"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
	Passed          []string `json:"passed,omitempty"`
}

// Result is one completed audit.
type Result struct {
	URL          string                `json:"url"`
	FinalURL     string                `json:"final_url,omitempty"`
	Timestamp    time.Time             `json:"timestamp"`
	OverallScore int                   `json:"overall_score"`
	Grade        string                `json:"grade"`
	Categories   []score.CategoryScore `json:"categories"`
	Issues       Issues                `json:"issues"`

	StatusCode   int           `json:"status_code,omitempty"`
	ResponseTime time.Duration `json:"response_time,omitempty"`
	PageBytes    int           `json:"page_bytes,omitempty"`
	Redirects    int           `json:"redirects,omitempty"`
	ChecksRun    int           `json:"checks_run"`
}

// Auditor runs single-page audits. It is safe for concurrent use.
type Auditor struct {
	client *fetch.Client
	log    *zap.SugaredLogger

	// OnSnapshot, when set, receives every fetched page before the checks
	// run. Capture hooks must be safe for concurrent use when the auditor
	// is shared across workers.
	OnSnapshot func(*fetch.Snapshot)
}

// New builds an Auditor on top of a fetch client.
func New(client *fetch.Client, log *zap.SugaredLogger) *Auditor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Auditor{client: client, log: log}
}

// Run audits one target. Fetch and parse failures abort the audit with a
// typed error; a check that cannot evaluate is a registry bug and also
// aborts rather than producing a partial score.
func (a *Auditor) Run(ctx context.Context, target Target) (*Result, error) {
	started := time.Now()

	snap, err := a.client.Fetch(ctx, target.URL)
	if err != nil {
		a.log.Debugw("fetch failed", "url", target.URL, "error", err)
		return nil, err
	}
	if a.OnSnapshot != nil {
		a.OnSnapshot(snap)
	}

	doc, err := page.Parse(snap)
	if err != nil {
		a.log.Debugw("parse failed", "url", snap.URL, "error", err)
		return nil, err
	}

	evals, err := check.EvaluateAll(check.NewInput(doc, snap, target.Keyword))
	if err != nil {
		return nil, err
	}

	summary := score.Aggregate(evals)
	result := &Result{
		URL:          snap.URL,
		FinalURL:     snap.FinalURL,
		Timestamp:    started.UTC(),
		OverallScore: summary.Overall,
		Grade:        summary.Grade,
		Categories:   summary.Categories,
		Issues:       collectIssues(evals),
		StatusCode:   snap.StatusCode,
		ResponseTime: snap.Elapsed,
		PageBytes:    snap.RawSize,
		Redirects:    snap.Redirects,
		ChecksRun:    len(evals),
	}

	a.log.Infow("audit complete",
		"url", result.URL,
		"score", result.OverallScore,
		"grade", result.Grade,
		"critical", len(result.Issues.Critical),
		"warnings", len(result.Issues.Warnings),
	)
	return result, nil
}

// collectIssues splits raised messages by severity and gathers the positive
// notes, in check registry order.
func collectIssues(evals []check.Evaluation) Issues {
	issues := Issues{
		Critical:        []string{},
		Warnings:        []string{},
		Recommendations: []string{},
		Passed:          []string{},
	}
	for _, ev := range evals {
		if ev.Result.Good != "" {
			issues.Passed = append(issues.Passed, ev.Result.Good)
		}
		if ev.Result.Issue == "" {
			continue
		}
		switch ev.ResultSeverity() {
		case check.SeverityCritical:
			issues.Critical = append(issues.Critical, ev.Result.Issue)
		case check.SeverityWarning:
			issues.Warnings = append(issues.Warnings, ev.Result.Issue)
		case check.SeverityRecommendation:
			issues.Recommendations = append(issues.Recommendations, ev.Result.Issue)
		}
	}
	return issues
}

// TargetError is the serializable form of a failed audit, typed so batch
// reports can group failures.
type TargetError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *TargetError) Error() string { return e.Message }

// Classify maps pipeline errors onto the stable error taxonomy.
func Classify(err error) *TargetError {
	var fetchErr *apperrors.FetchError
	var parseErr *apperrors.ParseError
	var checkErr *apperrors.CheckError
	switch {
	case errors.As(err, &fetchErr):
		return &TargetError{Type: "fetch", Message: err.Error()}
	case errors.As(err, &parseErr):
		return &TargetError{Type: "parse", Message: err.Error()}
	case errors.As(err, &checkErr):
		return &TargetError{Type: "check", Message: err.Error()}
	case errors.Is(err, apperrors.ErrEmptyTargetURL):
		return &TargetError{Type: "input", Message: err.Error()}
	}
	return &TargetError{Type: "internal", Message: err.Error()}
}

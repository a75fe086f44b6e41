package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestBuildTemplateData(t *testing.T) {
	started := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	run := sampleRun("run-tpl", started)

	trends := []telemetryRecord{
		{Timestamp: started, Command: "batch", AverageScore: 80, DurationSeconds: 2},
		{Timestamp: started.Add(time.Hour), Command: "audit", AverageScore: 90, DurationSeconds: 4},
	}

	data := buildTemplateData(run, trends)

	if data.Run != run {
		t.Fatal("expected template data to carry the run")
	}
	if data.StartedAt != "2026-04-02T10:00:00Z" {
		t.Errorf("unexpected StartedAt: %s", data.StartedAt)
	}
	if data.Duration != "2s" {
		t.Errorf("expected duration 2s, got %s", data.Duration)
	}
	if data.Status != "Completed with issues" {
		t.Errorf("unexpected status: %s", data.Status)
	}
	if data.SuccessRate != "50.0" {
		t.Errorf("expected success rate 50.0, got %s", data.SuccessRate)
	}
	if len(data.TrendHistory) != 2 {
		t.Fatalf("expected 2 trend records, got %d", len(data.TrendHistory))
	}
	if data.TrendSummary.AverageScore != 85 {
		t.Errorf("expected trend average 85, got %f", data.TrendSummary.AverageScore)
	}
	if data.TrendSummary.AverageDuration != 3 {
		t.Errorf("expected trend duration 3, got %f", data.TrendSummary.AverageDuration)
	}
}

func TestBuildTemplateData_NegativeDurationClamped(t *testing.T) {
	run := sampleRun("run-clock-skew", time.Now())
	run.CompletedAt = run.StartedAt.Add(-time.Minute)

	data := buildTemplateData(run, nil)
	if data.Duration != "0s" {
		t.Errorf("expected clamped duration 0s, got %s", data.Duration)
	}
}

func TestDeriveRunStatus(t *testing.T) {
	tests := []struct {
		name  string
		ok    int
		errs  int
		total int
		want  string
	}{
		{name: "no targets", ok: 0, errs: 0, total: 0, want: "No targets"},
		{name: "all ok", ok: 3, errs: 0, total: 3, want: "Completed"},
		{name: "all failed", ok: 0, errs: 3, total: 3, want: "Failed"},
		{name: "mixed", ok: 2, errs: 1, total: 3, want: "Completed with issues"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveRunStatus(tt.ok, tt.errs, tt.total); got != tt.want {
				t.Fatalf("deriveRunStatus(%d, %d, %d) = %q, want %q", tt.ok, tt.errs, tt.total, got, tt.want)
			}
		})
	}
}

func TestSummarizeTrendHistory_Empty(t *testing.T) {
	summary := summarizeTrendHistory(nil)
	if summary.AverageScore != 0 || summary.AverageDuration != 0 {
		t.Fatalf("expected zero summary for empty history, got %+v", summary)
	}
}

func TestGradeBadgeClass(t *testing.T) {
	tests := []struct {
		grade string
		want  string
	}{
		{"A+", "badge-a"},
		{"A", "badge-a"},
		{"a", "badge-a"},
		{" B ", "badge-b"},
		{"C", "badge-c"},
		{"D", "badge-d"},
		{"F", "badge-f"},
		{"", "badge-f"},
	}
	for _, tt := range tests {
		if got := gradeBadgeClass(tt.grade); got != tt.want {
			t.Errorf("gradeBadgeClass(%q) = %q, want %q", tt.grade, got, tt.want)
		}
	}
}

func TestScoreBarWidth(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{-5, 0},
		{0, 0},
		{49.6, 50},
		{100, 100},
		{150, 100},
	}
	for _, tt := range tests {
		if got := scoreBarWidth(tt.score); got != tt.want {
			t.Errorf("scoreBarWidth(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestFormatDurationLabel(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0s"},
		{-1, "0s"},
		{5.3, "5.3s"},
		{59.9, "59.9s"},
		{60, "1.0 min"},
		{90, "1.5 min"},
	}
	for _, tt := range tests {
		if got := formatDurationLabel(tt.seconds); got != tt.want {
			t.Errorf("formatDurationLabel(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatPercentLabel(t *testing.T) {
	if got := formatPercentLabel(0.5); got != "50%" {
		t.Errorf("formatPercentLabel(0.5) = %q, want 50%%", got)
	}
	if got := formatPercentLabel(1); got != "100%" {
		t.Errorf("formatPercentLabel(1) = %q, want 100%%", got)
	}
}

func TestFormatShortTimestamp(t *testing.T) {
	if got := formatShortTimestamp(time.Time{}); got != "" {
		t.Errorf("expected empty string for zero time, got %q", got)
	}
	ts := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	if got := formatShortTimestamp(ts); got != "Jan 02 15:04" {
		t.Errorf("unexpected short timestamp: %q", got)
	}
}

func TestSummarizeReportStats(t *testing.T) {
	run := sampleRun("run-stats", time.Now())
	summary := summarizeReportStats(run)

	if summary.RunID != "run-stats" {
		t.Errorf("unexpected run ID: %s", summary.RunID)
	}
	if summary.Total != 2 || summary.Success != 1 || summary.Fail != 1 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	if len(summary.Results) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(summary.Results))
	}

	ok := summary.Results[0]
	if ok.Status != "ok" || ok.Score != 85 || ok.Grade != "B" {
		t.Errorf("unexpected ok entry: %+v", ok)
	}
	if ok.Critical != 1 || ok.Warnings != 1 {
		t.Errorf("unexpected issue counts: %+v", ok)
	}

	failed := summary.Results[1]
	if failed.Status != "fetch" {
		t.Errorf("expected typed failure status, got %s", failed.Status)
	}
	if failed.Error != "connection refused" {
		t.Errorf("expected error message, got %s", failed.Error)
	}
}

func TestPrintStatsText(t *testing.T) {
	disableColor(t)

	run := sampleRun("run-print", time.Now())
	summary := summarizeReportStats(run)

	output := captureStdout(t, func() {
		printStatsText(summary)
	})

	if !strings.Contains(output, "Summary") || !strings.Contains(output, "Targets: 2") {
		t.Fatalf("expected summary output, got %q", output)
	}
	if !strings.Contains(output, "OK: 1") || !strings.Contains(output, "Fail: 1") {
		t.Fatalf("expected counts in summary output, got %q", output)
	}
	if !strings.Contains(output, "B:1") {
		t.Fatalf("expected grade counts in output, got %q", output)
	}
}

func TestPrintStatsTable(t *testing.T) {
	disableColor(t)

	run := sampleRun("run-table", time.Now())
	summary := summarizeReportStats(run)

	output := captureStdout(t, func() {
		printStatsTable(summary)
	})

	if !strings.Contains(output, "URL") || !strings.Contains(output, "STATUS") {
		t.Fatalf("expected table header, got %q", output)
	}
	if !strings.Contains(output, "https://example.com") {
		t.Fatalf("expected target rows, got %q", output)
	}
	if !strings.Contains(output, "connection refused") {
		t.Fatalf("expected error column for failed target, got %q", output)
	}
}

func TestPrintStatsTable_Empty(t *testing.T) {
	disableColor(t)

	output := captureStdout(t, func() {
		printStatsTable(reportStatsSummary{})
	})

	if !strings.Contains(output, "No targets found in run.") {
		t.Fatalf("expected empty notice, got %q", output)
	}
}

func TestPrintTelemetryASCII(t *testing.T) {
	disableColor(t)

	records := []telemetryRecord{
		{
			Timestamp:    time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
			Command:      "batch",
			AverageScore: 50,
			TargetCount:  3,
		},
	}

	output := captureStdout(t, func() {
		printTelemetryASCII(records)
	})

	if !strings.Contains(output, "Average Score Trend") {
		t.Fatalf("expected trend header, got %q", output)
	}
	if !strings.Contains(output, "50.00") {
		t.Fatalf("expected score value, got %q", output)
	}
	if !strings.Contains(output, strings.Repeat("#", 20)) {
		t.Fatalf("expected a 20-character bar for a 50 score, got %q", output)
	}
	if !strings.Contains(output, "batch (3 targets)") {
		t.Fatalf("expected command label, got %q", output)
	}
}

func TestExecuteReportTemplates(t *testing.T) {
	run := sampleRun("run-templates", time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	trends := []telemetryRecord{
		{Timestamp: time.Date(2026, 5, 30, 9, 0, 0, 0, time.UTC), Command: "audit", AverageScore: 75, DurationSeconds: 1.5, TargetCount: 1},
	}
	data := buildTemplateData(run, trends)

	html, err := executeReportTemplate(htmlReportTemplate, data)
	if err != nil {
		t.Fatalf("html template failed: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "run-templates", "https://example.com", "badge"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected html report to contain %q", want)
		}
	}

	md, err := executeReportTemplate(markdownReportTemplate, data)
	if err != nil {
		t.Fatalf("markdown template failed: %v", err)
	}
	for _, want := range []string{"# SEO Audit Report", "run-templates", "https://example.com"} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown report to contain %q", want)
		}
	}
}

func TestGenerateHTMLReportBytes(t *testing.T) {
	run := sampleRun("run-html", time.Now())

	b, err := generateHTMLReportBytes(run)
	if err != nil {
		t.Fatalf("generateHTMLReportBytes failed: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("expected non-empty html output")
	}
	if !strings.Contains(string(b), "https://example.com") {
		t.Error("expected html output to list the audited target")
	}
}

func TestGeneratePDFReportBytes(t *testing.T) {
	run := sampleRun("run-pdf", time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC))
	trends := []telemetryRecord{
		{Timestamp: time.Date(2026, 6, 28, 12, 0, 0, 0, time.UTC), Command: "batch", AverageScore: 66, DurationSeconds: 3, TargetCount: 2},
	}
	data := buildTemplateData(run, trends)

	b, err := generatePDFReportBytes(data)
	if err != nil {
		t.Fatalf("generatePDFReportBytes failed: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("expected PDF magic prefix, got %q", b[:min(len(b), 8)])
	}
}

func TestAddInts(t *testing.T) {
	if got := addInts(2, 3); got != 5 {
		t.Fatalf("addInts(2, 3) = %d", got)
	}
}

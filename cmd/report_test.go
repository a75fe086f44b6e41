package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muntasir-islam/seo-audit-tool/internal/audit"
)

func TestReportGenerateCommand_Formats(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, reportGenerateCmd)
	disableColor(t)

	run := sampleRun("run-report-gen", time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))
	if _, err := saveRun(run); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	cases := []struct {
		format   string
		filename string
		probe    func(t *testing.T, data []byte)
	}{
		{"json", "report.json", func(t *testing.T, data []byte) {
			var decoded audit.Run
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("report.json is not valid JSON: %v", err)
			}
			if decoded.ID != "run-report-gen" {
				t.Errorf("report run ID = %q, want run-report-gen", decoded.ID)
			}
		}},
		{"md", "report.md", func(t *testing.T, data []byte) {
			if !strings.Contains(string(data), "# SEO Audit Report") {
				t.Error("report.md is missing its title heading")
			}
			if !strings.Contains(string(data), "https://example.com") {
				t.Error("report.md is missing the audited URL")
			}
		}},
		{"html", "report.html", func(t *testing.T, data []byte) {
			if !strings.Contains(string(data), "<!DOCTYPE html>") {
				t.Error("report.html is missing the doctype")
			}
			if !strings.Contains(string(data), "run-report-gen") {
				t.Error("report.html is missing the run ID")
			}
		}},
		{"pdf", "report.pdf", func(t *testing.T, data []byte) {
			if !bytes.HasPrefix(data, []byte("%PDF")) {
				t.Errorf("report.pdf does not start with %%PDF, got %q", data[:min(len(data), 8)])
			}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			setFlag(t, reportGenerateCmd, "id", "run-report-gen")
			setFlag(t, reportGenerateCmd, "format", tc.format)

			var runErr error
			output := captureStdout(t, func() {
				runErr = reportGenerateCmd.RunE(reportGenerateCmd, nil)
			})
			if runErr != nil {
				t.Fatalf("report generate failed: %v", runErr)
			}
			if !strings.Contains(output, "Report generated:") {
				t.Errorf("output missing confirmation:\n%s", output)
			}
			if !strings.Contains(output, "Format: "+tc.format) {
				t.Errorf("output missing format line:\n%s", output)
			}

			data, err := os.ReadFile(filepath.Join(resultsDir, "run-report-gen", tc.filename))
			if err != nil {
				t.Fatalf("failed to read %s: %v", tc.filename, err)
			}
			tc.probe(t, data)
		})
	}
}

func TestReportGenerateCommand_InvalidFormat(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, reportGenerateCmd)
	disableColor(t)

	setFlag(t, reportGenerateCmd, "id", "some-run")
	setFlag(t, reportGenerateCmd, "format", "docx")

	err := reportGenerateCmd.RunE(reportGenerateCmd, nil)
	if err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
	var formatErr *ReportFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("error type = %T, want *ReportFormatError", err)
	}
	if formatErr.Format != "docx" {
		t.Errorf("error format = %q, want docx", formatErr.Format)
	}
}

func TestReportGenerateCommand_MissingID(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, reportGenerateCmd)
	disableColor(t)

	err := reportGenerateCmd.RunE(reportGenerateCmd, nil)
	if err == nil {
		t.Fatal("expected an error when --id is missing")
	}
	if !strings.Contains(err.Error(), "--id is required") {
		t.Errorf("error = %q, want --id is required", err)
	}
}

func TestReportGenerateCommand_RunNotFound(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, reportGenerateCmd)
	disableColor(t)

	setFlag(t, reportGenerateCmd, "id", "ghost-run")
	setFlag(t, reportGenerateCmd, "format", "md")

	err := reportGenerateCmd.RunE(reportGenerateCmd, nil)
	if err == nil {
		t.Fatal("expected an error for a missing run")
	}
	var notFound *RunNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error type = %T, want *RunNotFoundError", err)
	}
}

func TestReportStatsCommand_JSON(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, reportStatsCmd)
	disableColor(t)

	run := sampleRun("run-stats-cmd", time.Date(2026, 5, 11, 14, 0, 0, 0, time.UTC))
	if _, err := saveRun(run); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	setFlag(t, reportStatsCmd, "id", "run-stats-cmd")
	setFlag(t, reportStatsCmd, "format", "json")

	var runErr error
	output := captureStdout(t, func() {
		runErr = reportStatsCmd.RunE(reportStatsCmd, nil)
	})
	if runErr != nil {
		t.Fatalf("report stats failed: %v", runErr)
	}

	var summary reportStatsSummary
	if err := json.Unmarshal([]byte(output), &summary); err != nil {
		t.Fatalf("stats output is not valid JSON: %v\n%s", err, output)
	}
	if summary.RunID != "run-stats-cmd" {
		t.Errorf("run ID = %q, want run-stats-cmd", summary.RunID)
	}
	if summary.Total != 2 || summary.Success != 1 || summary.Fail != 1 {
		t.Errorf("counts = %d/%d/%d, want 2 targets, 1 ok, 1 failed",
			summary.Total, summary.Success, summary.Fail)
	}
	if len(summary.Results) != 2 {
		t.Errorf("expected 2 result entries, got %d", len(summary.Results))
	}
}

func TestReportStatsCommand_UnsupportedFormat(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, reportStatsCmd)
	disableColor(t)

	run := sampleRun("run-stats-bad", time.Now().UTC())
	if _, err := saveRun(run); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	setFlag(t, reportStatsCmd, "id", "run-stats-bad")
	setFlag(t, reportStatsCmd, "format", "yaml")

	err := reportStatsCmd.RunE(reportStatsCmd, nil)
	if err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error = %q, want unsupported format message", err)
	}
}

func TestReportTelemetryCommand_NoRecords(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, reportTelemetryCmd)
	disableColor(t)

	var runErr error
	output := captureStdout(t, func() {
		runErr = reportTelemetryCmd.RunE(reportTelemetryCmd, nil)
	})
	if runErr != nil {
		t.Fatalf("report telemetry failed: %v", runErr)
	}
	if !strings.Contains(output, "No telemetry records found") {
		t.Errorf("output = %q, want no-records notice", output)
	}
}

func TestReportTelemetryCommand_JSONFilteredByRun(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, reportTelemetryCmd)
	disableColor(t)

	resultsA := []audit.TargetResult{okTargetResult("https://a.example.com", 90, "A")}
	if err := recordTelemetry("audit", "run-a", resultsA, time.Second); err != nil {
		t.Fatalf("failed to record telemetry: %v", err)
	}
	resultsB := []audit.TargetResult{
		okTargetResult("https://b.example.com", 70, "C"),
		failedTargetResult("https://c.example.com", "fetch", "connection refused"),
	}
	if err := recordTelemetry("batch", "run-b", resultsB, 2*time.Second); err != nil {
		t.Fatalf("failed to record telemetry: %v", err)
	}

	setFlag(t, reportTelemetryCmd, "id", "run-a")
	setFlag(t, reportTelemetryCmd, "format", "json")

	var runErr error
	output := captureStdout(t, func() {
		runErr = reportTelemetryCmd.RunE(reportTelemetryCmd, nil)
	})
	if runErr != nil {
		t.Fatalf("report telemetry failed: %v", runErr)
	}

	var records []telemetryRecord
	if err := json.Unmarshal([]byte(output), &records); err != nil {
		t.Fatalf("telemetry output is not valid JSON: %v\n%s", err, output)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 filtered record, got %d", len(records))
	}
	if records[0].RunID != "run-a" || records[0].Command != "audit" {
		t.Errorf("record = %+v, want run-a audit", records[0])
	}
}

func TestReportTelemetryCommand_ASCII(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, reportTelemetryCmd)
	disableColor(t)

	results := []audit.TargetResult{okTargetResult("https://a.example.com", 80, "B")}
	if err := recordTelemetry("audit", "run-ascii", results, time.Second); err != nil {
		t.Fatalf("failed to record telemetry: %v", err)
	}

	var runErr error
	output := captureStdout(t, func() {
		runErr = reportTelemetryCmd.RunE(reportTelemetryCmd, nil)
	})
	if runErr != nil {
		t.Fatalf("report telemetry failed: %v", runErr)
	}
	if !strings.Contains(output, "Average Score Trend") {
		t.Errorf("output missing trend header:\n%s", output)
	}
	if !strings.Contains(output, "80.00") {
		t.Errorf("output missing average score:\n%s", output)
	}
}

package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBatchCommand_MixedTargets(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, batchCmd)
	disableColor(t)

	liveSrv := newPageServer(t)
	deadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := deadSrv.URL
	deadSrv.Close()

	var buf bytes.Buffer
	batchCmd.SetOut(&buf)
	batchCmd.SetErr(&buf)
	batchCmd.SetContext(context.Background())
	setFlag(t, batchCmd, "no-progress", "true")
	setFlag(t, batchCmd, "save", "true")

	// One unreachable target must not abort the batch: both targets are
	// reported and the run is saved, then the exit status says not clean.
	err := batchCmd.RunE(batchCmd, []string{liveSrv.URL, deadURL})
	if err == nil {
		t.Fatal("expected a non-nil error when a target failed")
	}
	if err.Error() != "1 of 2 targets failed" {
		t.Errorf("error = %q, want 1 of 2 targets failed", err)
	}

	output := buf.String()
	for _, want := range []string{
		"SEO Batch Audit",
		liveSrv.URL,
		deadURL,
		"fetch",
		"Targets:   2 (1 ok, 1 failed)",
		"Run saved:",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	runs, err := listRuns()
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 saved run, got %d", len(runs))
	}
	run := runs[0]
	if run.Summary.Targets != 2 || run.Summary.Succeeded != 1 || run.Summary.Failed != 1 {
		t.Errorf("run summary = %d/%d/%d, want 2 targets, 1 ok, 1 failed",
			run.Summary.Targets, run.Summary.Succeeded, run.Summary.Failed)
	}

	// Results keep the input order regardless of which worker finished first.
	if run.Results[0].Target.URL != liveSrv.URL {
		t.Errorf("results[0] = %q, want %q", run.Results[0].Target.URL, liveSrv.URL)
	}
	if run.Results[1].Target.URL != deadURL {
		t.Errorf("results[1] = %q, want %q", run.Results[1].Target.URL, deadURL)
	}
	if run.Results[1].Error == nil || run.Results[1].Error.Type != "fetch" {
		t.Errorf("results[1] error = %+v, want fetch", run.Results[1].Error)
	}

	if rows := readHistoryRows(t); len(rows) != 2 {
		t.Errorf("expected 2 history rows, got %d", len(rows))
	}

	records, err := loadTelemetryHistory(resultsDir, 0)
	if err != nil {
		t.Fatalf("failed to load telemetry: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 telemetry record, got %d", len(records))
	}
	if records[0].Command != "batch" {
		t.Errorf("telemetry command = %q, want batch", records[0].Command)
	}
	if records[0].SuccessCount != 1 || records[0].ErrorCount != 1 {
		t.Errorf("telemetry counts = %d ok / %d failed, want 1 / 1",
			records[0].SuccessCount, records[0].ErrorCount)
	}
}

func TestBatchCommand_NoTargets(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, batchCmd)
	disableColor(t)

	var buf bytes.Buffer
	batchCmd.SetOut(&buf)
	batchCmd.SetErr(&buf)
	batchCmd.SetContext(context.Background())

	err := batchCmd.RunE(batchCmd, nil)
	if err == nil {
		t.Fatal("expected an error when no targets are given")
	}
	if !strings.Contains(err.Error(), "no targets") {
		t.Errorf("error = %q, want no targets message", err)
	}
}

func TestBatchCommand_FileTargetsCSVOutput(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, batchCmd)
	disableColor(t)

	srv := newPageServer(t)

	tmp := t.TempDir()
	targetsPath := filepath.Join(tmp, "targets.txt")
	content := "# staging pages\n\n" + srv.URL + "\n"
	if err := os.WriteFile(targetsPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write targets file: %v", err)
	}
	outPath := filepath.Join(tmp, "batch.csv")

	var buf bytes.Buffer
	batchCmd.SetOut(&buf)
	batchCmd.SetErr(&buf)
	batchCmd.SetContext(context.Background())
	setFlag(t, batchCmd, "file", targetsPath)
	setFlag(t, batchCmd, "format", "csv")
	setFlag(t, batchCmd, "output", outPath)

	if err := batchCmd.RunE(batchCmd, nil); err != nil {
		t.Fatalf("batch command failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Report written: "+outPath) {
		t.Errorf("output missing written-report path:\n%s", buf.String())
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open CSV output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "url" || rows[0][1] != "status" {
		t.Errorf("unexpected CSV header: %v", rows[0])
	}
	if rows[1][0] != srv.URL {
		t.Errorf("CSV url = %q, want %q", rows[1][0], srv.URL)
	}
	if rows[1][1] != "ok" {
		t.Errorf("CSV status = %q, want ok", rows[1][1])
	}
}

func TestBatchCommand_URLFlagAndFormatsDir(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, batchCmd)
	disableColor(t)

	srv := newPageServer(t)
	outDir := filepath.Join(t.TempDir(), "reports")

	var buf bytes.Buffer
	batchCmd.SetOut(&buf)
	batchCmd.SetErr(&buf)
	batchCmd.SetContext(context.Background())
	setFlag(t, batchCmd, "url", srv.URL)
	setFlag(t, batchCmd, "no-progress", "true")
	setFlag(t, batchCmd, "formats", "json,html,md")
	setFlag(t, batchCmd, "output-dir", outDir)

	if err := batchCmd.RunE(batchCmd, nil); err != nil {
		t.Fatalf("batch command failed: %v", err)
	}

	// Every requested format lands in the output dir next to the normal
	// stdout report.
	for _, name := range []string{"audit-report.json", "audit-report.html", "audit-report.md"} {
		path := filepath.Join(outDir, name)
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("missing report file %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("report file %s is empty", name)
		}
		if !strings.Contains(buf.String(), "Report written: "+path) {
			t.Errorf("output missing written-report line for %s", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(outDir, "audit-report.md"))
	if err != nil {
		t.Fatalf("failed to read markdown report: %v", err)
	}
	if !strings.Contains(string(data), "# SEO Audit Report") {
		t.Error("markdown report is missing its title heading")
	}
}

func TestBatchCommand_MissingTargetsFile(t *testing.T) {
	defer setupTestEnv(t)()
	resetFlags(t, batchCmd)
	disableColor(t)

	var buf bytes.Buffer
	batchCmd.SetOut(&buf)
	batchCmd.SetErr(&buf)
	batchCmd.SetContext(context.Background())
	setFlag(t, batchCmd, "file", filepath.Join(t.TempDir(), "missing.txt"))

	err := batchCmd.RunE(batchCmd, nil)
	if err == nil {
		t.Fatal("expected an error for a missing targets file")
	}
	if !strings.Contains(err.Error(), "read targets file") {
		t.Errorf("error = %q, want read targets file message", err)
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/muntasir-islam/seo-audit-tool/internal/audit"
	"github.com/muntasir-islam/seo-audit-tool/internal/fetch"
	consts "github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
)

var batchCmd = &cobra.Command{
	Use:   "batch [urls...]",
	Short: "Audit many pages concurrently and summarize the results",
	Long: `Audit every URL given as an argument, passed with --url, or listed in
--file (one per line, # comments allowed). Audits run on a bounded worker
pool with a global rate limit (--workers 1 audits sequentially), and one
failing target never aborts the batch. The exit code is non-zero when any
target failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		urlFlags, _ := cmd.Flags().GetStringArray("url")
		keyword, _ := cmd.Flags().GetString("keyword")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		formats, _ := cmd.Flags().GetStringSlice("formats")
		outputDir, _ := cmd.Flags().GetString("output-dir")
		save, _ := cmd.Flags().GetBool("save")
		captureRaw, _ := cmd.Flags().GetBool("capture-raw")
		noProgress, _ := cmd.Flags().GetBool("no-progress")

		urls := append([]string{}, args...)
		urls = append(urls, urlFlags...)
		if file != "" {
			fromFile, err := targetList(file)
			if err != nil {
				return err
			}
			urls = append(urls, fromFile...)
		}
		if len(urls) == 0 {
			return errors.New("no targets: pass URLs as arguments, --url, or --file")
		}

		targets := make([]audit.Target, len(urls))
		for i, u := range urls {
			targets[i] = audit.Target{URL: u, Keyword: keyword}
		}

		auditor := newAuditor(cmd)
		runID := audit.NewRunID()

		if captureRaw {
			save = true
			auditor.OnSnapshot = func(snap *fetch.Snapshot) {
				if err := SavePageCapture(runID, snap.URL, snap.Headers, snap.Body); err != nil {
					logger.Warnw("raw capture failed", "url", snap.URL, "error", err)
				}
			}
		}

		workers := cliConfig.Audit.Workers
		if cmd.Flags().Changed("workers") {
			workers, _ = cmd.Flags().GetInt("workers")
		}
		rateLimit := cliConfig.Audit.RateLimit
		if cmd.Flags().Changed("rate-limit") {
			rateLimit, _ = cmd.Flags().GetInt("rate-limit")
		}
		timeoutSecs := cliConfig.Audit.TimeoutSecs
		if cmd.Flags().Changed("timeout") {
			timeoutSecs, _ = cmd.Flags().GetInt("timeout")
		}

		runner := &audit.Runner{
			Auditor:     auditor,
			Concurrency: workers,
			RateLimit:   rateLimit,
			Timeout:     time.Duration(timeoutSecs) * time.Second,
		}

		// An interrupt cancels pending targets; audits already finished
		// are still summarized and persisted below.
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		go func() {
			select {
			case sig := <-sigCh:
				fmt.Fprintf(cmd.ErrOrStderr(), "\n%s received %s, finishing started audits\n", colorWarn("!"), sig.String())
				cancel()
			case <-ctx.Done():
			}
		}()

		var progress *batchProgress
		if !noProgress && output == "" && format == formatText {
			progress = newBatchProgress(len(targets), "batch")
			runner.OnProgress = func(completed, total int, tr audit.TargetResult) {
				progress.Observe(tr)
			}
			progress.Start()
		}

		started := time.Now()
		results := runner.Run(ctx, targets)
		elapsed := time.Since(started)

		if progress != nil {
			progress.Stop()
		}

		for _, tr := range results {
			if histErr := AppendHistoryRow(runID, operator, tr); histErr != nil {
				logger.Warnw("history append failed", "error", histErr)
				break
			}
		}
		if telErr := recordTelemetry("batch", runID, results, elapsed); telErr != nil {
			logger.Warnw("telemetry record failed", "error", telErr)
		}

		run := &audit.Run{
			ID:          runID,
			Operator:    operator,
			Keyword:     keyword,
			StartedAt:   started.UTC(),
			CompletedAt: time.Now().UTC(),
			Targets:     targets,
			Results:     results,
			Summary:     audit.Summarize(results),
		}

		if err := emitRun(cmd, format, output, run); err != nil {
			return err
		}
		if len(formats) > 0 {
			if err := writeRunReports(cmd, run, formats, outputDir); err != nil {
				return err
			}
		}

		if save {
			path, err := saveRun(run)
			if err != nil {
				return fmt.Errorf("failed to save run: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nRun saved: %s (id=%s)\n", path, runID)
		}

		// Failures were reported as entries above; the exit code still has
		// to say the batch was not clean.
		if run.Summary.Failed > 0 {
			return fmt.Errorf("%d of %d targets failed", run.Summary.Failed, run.Summary.Targets)
		}
		return nil
	},
}

// emitRun renders a whole batch run in the requested format.
func emitRun(cmd *cobra.Command, format, output string, run *audit.Run) error {
	if format == formatPDF && output == "" {
		return errors.New("pdf format requires --output")
	}
	if output != "" {
		color.NoColor = true
	}

	b, err := renderRunBytes(run, format)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	if err := writeReportFile(output, b); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s\n", output)
	return nil
}

// writeRunReports renders the run once per requested format into dir, named
// audit-report with the format's extension.
func writeRunReports(cmd *cobra.Command, run *audit.Run, formats []string, dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	color.NoColor = true

	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "" {
			continue
		}
		b, err := renderRunBytes(run, format)
		if err != nil {
			return err
		}
		ext := format
		if format == formatText {
			ext = "txt"
		}
		path := filepath.Join(dir, "audit-report."+ext)
		if err := writeReportFile(path, b); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s\n", path)
	}
	return nil
}

func init() {
	batchCmd.Flags().String("file", "", "file with one target URL per line")
	batchCmd.Flags().StringArray("url", nil, "target URL (repeatable, adds to arguments)")
	batchCmd.Flags().StringP("keyword", "k", "", "target keyword applied to every URL")
	batchCmd.Flags().StringP("format", "f", formatText, "output format: text, json, html, md, csv, or pdf")
	batchCmd.Flags().String("output", "", "write the report to a file instead of stdout")
	batchCmd.Flags().StringSlice("formats", nil, "also write report files in these formats, comma separated")
	batchCmd.Flags().String("output-dir", "", "directory the --formats reports are written to (default current dir)")
	batchCmd.Flags().Bool("save", false, "persist the run under the results directory")
	batchCmd.Flags().Bool("capture-raw", false, "save clipped raw page captures with the run (implies --save)")
	batchCmd.Flags().Bool("no-progress", false, "disable the live progress line")
	batchCmd.Flags().IntP("workers", "w", consts.DefaultBatchWorkers, "maximum audits in flight")
	batchCmd.Flags().Int("rate-limit", consts.DefaultBatchRateLimit, "audits started per second")
	batchCmd.Flags().Int("timeout", int(consts.DefaultFetchTimeout.Seconds()), "per-target fetch timeout in seconds")
	batchCmd.Flags().String("user-agent", "", "override the request User-Agent header")
}

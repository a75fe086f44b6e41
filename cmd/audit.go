package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/muntasir-islam/seo-audit-tool/internal/audit"
	"github.com/muntasir-islam/seo-audit-tool/internal/fetch"
	consts "github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
)

var auditCmd = &cobra.Command{
	Use:   "audit <url>",
	Short: "Audit a single page and print the scored report",
	Long: `Fetch one URL, run every registered check against it, and print the
scored report. Scheme-less URLs default to https. Pass --keyword to focus
the content checks on a target phrase.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword, _ := cmd.Flags().GetString("keyword")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		save, _ := cmd.Flags().GetBool("save")
		captureRaw, _ := cmd.Flags().GetBool("capture-raw")

		auditor := newAuditor(cmd)
		runID := audit.NewRunID()

		if captureRaw {
			// captures live inside the run directory, so keep the envelope too
			save = true
			auditor.OnSnapshot = func(snap *fetch.Snapshot) {
				if err := SavePageCapture(runID, snap.URL, snap.Headers, snap.Body); err != nil {
					logger.Warnw("raw capture failed", "url", snap.URL, "error", err)
				}
			}
		}

		target := audit.Target{URL: args[0], Keyword: keyword}
		started := time.Now()
		res, err := auditor.Run(cmd.Context(), target)
		elapsed := time.Since(started)

		tr := audit.TargetResult{Target: target, Duration: elapsed}
		if err != nil {
			tr.Error = audit.Classify(err)
		} else {
			tr.Result = res
		}

		if histErr := AppendHistoryRow(runID, operator, tr); histErr != nil {
			logger.Warnw("history append failed", "error", histErr)
		}
		if telErr := recordTelemetry("audit", runID, []audit.TargetResult{tr}, elapsed); telErr != nil {
			logger.Warnw("telemetry record failed", "error", telErr)
		}

		if err != nil {
			return fmt.Errorf("audit failed: %w", err)
		}

		run := &audit.Run{
			ID:          runID,
			Operator:    operator,
			Keyword:     keyword,
			StartedAt:   started.UTC(),
			CompletedAt: time.Now().UTC(),
			Targets:     []audit.Target{target},
			Results:     []audit.TargetResult{tr},
			Summary:     audit.Summarize([]audit.TargetResult{tr}),
		}

		if err := emitResult(cmd, format, output, res, run); err != nil {
			return err
		}

		if save {
			path, err := saveRun(run)
			if err != nil {
				return fmt.Errorf("failed to save run: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nRun saved: %s (id=%s)\n", path, runID)
		}
		return nil
	},
}

// newAuditor builds the audit pipeline from merged config and flags.
func newAuditor(cmd *cobra.Command) *audit.Auditor {
	timeoutSecs := cliConfig.Audit.TimeoutSecs
	if cmd.Flags().Changed("timeout") {
		timeoutSecs, _ = cmd.Flags().GetInt("timeout")
	}
	userAgent := cliConfig.Audit.UserAgent
	if cmd.Flags().Changed("user-agent") {
		userAgent, _ = cmd.Flags().GetString("user-agent")
	}

	client := fetch.NewClient(fetch.Options{
		Timeout:      time.Duration(timeoutSecs) * time.Second,
		UserAgent:    userAgent,
		MaxRedirects: cliConfig.Audit.MaxRedirects,
	})
	return audit.New(client, logger)
}

// emitResult renders one audited page in the requested format, to stdout or
// to --output. Markdown, HTML, and PDF ride the run report template.
func emitResult(cmd *cobra.Command, format, output string, res *audit.Result, run *audit.Run) error {
	if format == formatPDF && output == "" {
		return errors.New("pdf format requires --output")
	}
	if output != "" {
		// rendered files never get ANSI escapes
		color.NoColor = true
	}

	b, err := renderResultBytes(res, run, format)
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

func init() {
	auditCmd.Flags().StringP("keyword", "k", "", "target keyword the content checks focus on")
	auditCmd.Flags().StringP("format", "f", formatText, "output format: text, json, html, md, csv, or pdf")
	auditCmd.Flags().String("output", "", "write the report to a file instead of stdout")
	auditCmd.Flags().Bool("save", false, "persist the run under the results directory")
	auditCmd.Flags().Bool("capture-raw", false, "save a clipped raw page capture with the run (implies --save)")
	auditCmd.Flags().Int("timeout", int(consts.DefaultFetchTimeout.Seconds()), "fetch timeout in seconds")
	auditCmd.Flags().String("user-agent", "", "override the request User-Agent header")
}

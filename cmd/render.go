package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/muntasir-islam/seo-audit-tool/internal/audit"
	"github.com/muntasir-islam/seo-audit-tool/internal/check"
	consts "github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
	"github.com/muntasir-islam/seo-audit-tool/internal/shared/security"
)

const (
	formatText     = "text"
	formatJSON     = "json"
	formatHTML     = "html"
	formatCSV      = "csv"
	formatMarkdown = "md"
	formatPDF      = "pdf"
)

const (
	jsonPrefix = ""
	jsonIndent = "  "
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// renderResultText writes the colored terminal report for one audited page.
func renderResultText(w io.Writer, res *audit.Result) error {
	fmt.Fprintln(w, colorBold("SEO Audit Report"))
	fmt.Fprintln(w, "================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "URL:     %s\n", res.URL)
	if res.FinalURL != "" && res.FinalURL != res.URL {
		fmt.Fprintf(w, "Final:   %s (%d redirects)\n", res.FinalURL, res.Redirects)
	}
	fmt.Fprintf(w, "Fetched: %s (status %d, %.2fs, %s)\n",
		res.Timestamp.UTC().Format("2006-01-02 15:04:05 MST"),
		res.StatusCode,
		res.ResponseTime.Seconds(),
		formatPageSize(res.PageBytes),
	)
	fmt.Fprintf(w, "Checks:  %d\n", res.ChecksRun)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Overall Score: %s/100 (%s)\n",
		formatScore(float64(res.OverallScore)), formatGrade(res.Grade))
	fmt.Fprintln(w)

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "CATEGORY\tSCORE\tWEIGHT")
	for _, cat := range res.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%.0f%%\n", cat.Name, formatScore(cat.Score), cat.Weight*100)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	printIssueSection(w, colorError, "Critical Issues", res.Issues.Critical)
	printIssueSection(w, colorWarn, "Warnings", res.Issues.Warnings)
	printIssueSection(w, colorInfo, "Recommendations", res.Issues.Recommendations)
	printIssueSection(w, colorSuccess, "Passed", res.Issues.Passed)
	return nil
}

func printIssueSection(w io.Writer, paint func(a ...interface{}) string, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s (%d)\n", paint(title), len(items))
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func formatPageSize(bytes int) string {
	if bytes <= 0 {
		return "0 KB"
	}
	return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
}

// renderRunText writes the batch summary: per-target table then aggregates.
func renderRunText(w io.Writer, run *audit.Run) error {
	fmt.Fprintln(w, colorBold("SEO Batch Audit"))
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "URL\tSTATUS\tSCORE\tGRADE\tCRIT\tWARN\tTIME")
	for _, tr := range run.Results {
		if tr.Result != nil {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\t%.2fs\n",
				tr.Target.URL,
				colorSuccess("ok"),
				tr.Result.OverallScore,
				formatGrade(tr.Result.Grade),
				len(tr.Result.Issues.Critical),
				len(tr.Result.Issues.Warnings),
				tr.Duration.Seconds(),
			)
			continue
		}
		reason := "failed"
		if tr.Error != nil {
			reason = tr.Error.Type
		}
		fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\t-\t%.2fs\n",
			tr.Target.URL, colorError(reason), tr.Duration.Seconds())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := run.Summary
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Targets:   %d (%d ok, %d failed)\n", s.Targets, s.Succeeded, s.Failed)
	if s.Succeeded > 0 {
		fmt.Fprintf(w, "Scores:    avg %s, median %s\n", formatScore(s.AverageScore), formatScore(s.MedianScore))
		fmt.Fprintf(w, "Best:      %d  %s\n", s.HighestScore, s.HighestURL)
		fmt.Fprintf(w, "Worst:     %d  %s\n", s.LowestScore, s.LowestURL)
	}

	if len(s.CategoryAverages) > 0 {
		fmt.Fprintln(w)
		ctw := newTabWriter(w)
		fmt.Fprintln(ctw, "CATEGORY\tAVERAGE")
		for _, ca := range s.CategoryAverages {
			fmt.Fprintf(ctw, "%s\t%s\n", ca.Name, formatScore(ca.Average))
		}
		if err := ctw.Flush(); err != nil {
			return err
		}
	}

	if len(s.CommonIssues) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s\n", colorWarn("Common Issues"))
		for _, issue := range s.CommonIssues {
			fmt.Fprintf(w, "  %dx %s\n", issue.Count, issue.Message)
		}
	}
	return nil
}

// csvHeader is the flat per-target export schema. Category columns follow
// registry order so every export lines up.
func csvHeader() []string {
	header := []string{"url", "status", "score", "grade"}
	for _, cat := range check.Categories() {
		header = append(header, csvColumnName(string(cat)))
	}
	header = append(header,
		"critical", "warnings", "recommendations",
		"response_ms", "page_kb", "error",
	)
	return header
}

func csvColumnName(category string) string {
	out := make([]rune, 0, len(category))
	for _, r := range category {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ':
			out = append(out, '_')
		}
	}
	return string(out)
}

// renderResultsCSV writes one row per audited target.
func renderResultsCSV(w io.Writer, results []audit.TargetResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}

	for _, tr := range results {
		row := []string{tr.Target.URL}
		if tr.Result != nil {
			res := tr.Result
			row = append(row, "ok", strconv.Itoa(res.OverallScore), res.Grade)
			scores := make(map[string]float64, len(res.Categories))
			for _, cat := range res.Categories {
				scores[cat.Name] = cat.Score
			}
			for _, cat := range check.Categories() {
				row = append(row, formatFloat(scores[string(cat)]))
			}
			row = append(row,
				strconv.Itoa(len(res.Issues.Critical)),
				strconv.Itoa(len(res.Issues.Warnings)),
				strconv.Itoa(len(res.Issues.Recommendations)),
				strconv.FormatInt(res.ResponseTime.Milliseconds(), 10),
				formatFloat(float64(res.PageBytes)/1024),
				"",
			)
		} else {
			status := "error"
			message := ""
			if tr.Error != nil {
				status = tr.Error.Type
				message = tr.Error.Message
			}
			row = append(row, status, "", "")
			for range check.Categories() {
				row = append(row, "")
			}
			row = append(row, "", "", "", "", "", message)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func renderJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, jsonPrefix, jsonIndent)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// renderResultBytes renders a single audited page in one format. The run
// envelope backs the formats that report on the whole run (csv, md, html,
// pdf); for a single audit it wraps just that page.
func renderResultBytes(res *audit.Result, run *audit.Run, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case formatText, "":
		if err := renderResultText(&buf, res); err != nil {
			return nil, err
		}
	case formatJSON:
		if err := renderJSON(&buf, res); err != nil {
			return nil, err
		}
	case formatCSV:
		if err := renderResultsCSV(&buf, run.Results); err != nil {
			return nil, err
		}
	case formatMarkdown:
		content, err := executeReportTemplate(markdownReportTemplate, buildTemplateData(run, nil))
		if err != nil {
			return nil, err
		}
		buf.WriteString(content)
	case formatHTML:
		b, err := generateHTMLReportBytes(run)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	case formatPDF:
		b, err := generatePDFReportBytes(buildTemplateData(run, nil))
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	default:
		return nil, fmt.Errorf("unsupported output format %q (expected text, json, html, md, csv, or pdf)", format)
	}
	return buf.Bytes(), nil
}

// renderRunBytes renders a whole batch run in one format.
func renderRunBytes(run *audit.Run, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case formatText, "":
		if err := renderRunText(&buf, run); err != nil {
			return nil, err
		}
	case formatJSON:
		if err := renderJSON(&buf, run); err != nil {
			return nil, err
		}
	case formatCSV:
		if err := renderResultsCSV(&buf, run.Results); err != nil {
			return nil, err
		}
	case formatMarkdown:
		content, err := executeReportTemplate(markdownReportTemplate, buildTemplateData(run, nil))
		if err != nil {
			return nil, err
		}
		buf.WriteString(content)
	case formatHTML:
		b, err := generateHTMLReportBytes(run)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	case formatPDF:
		b, err := generatePDFReportBytes(buildTemplateData(run, nil))
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	default:
		return nil, fmt.Errorf("unsupported output format %q (expected text, json, html, md, csv, or pdf)", format)
	}
	return buf.Bytes(), nil
}

// writeReportFile writes rendered report bytes to an operator-supplied path.
// Destinations that smell like path traversal are refused outright.
func writeReportFile(path string, data []byte) error {
	if !security.IsValidPath(path) {
		return fmt.Errorf("invalid output path %q", path)
	}
	if err := os.WriteFile(path, data, consts.DefaultFilePerm); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

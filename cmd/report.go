package cmd

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/cobra"

	"github.com/muntasir-islam/seo-audit-tool/internal/audit"
	consts "github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
)

const (
	htmlTemplatePath     = "templates/report.html"
	markdownTemplatePath = "templates/report.md"
)

//go:embed templates/report.html templates/report.md
var reportTemplateFS embed.FS

var (
	reportTemplateFuncs = template.FuncMap{
		"add":             addInts,
		"join":            strings.Join,
		"lower":           strings.ToLower,
		"formatTime":      formatShortTimestamp,
		"formatDuration":  formatDurationLabel,
		"formatScore":     formatScoreLabel,
		"formatPercent":   formatPercentLabel,
		"gradeBadgeClass": gradeBadgeClass,
		"scoreBarWidth":   scoreBarWidth,
	}

	htmlReportTemplate = template.Must(
		template.New("report.html").Funcs(reportTemplateFuncs).ParseFS(reportTemplateFS, htmlTemplatePath),
	)
	markdownReportTemplate = template.Must(
		template.New("report.md").Funcs(reportTemplateFuncs).ParseFS(reportTemplateFS, markdownTemplatePath),
	)
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate reports and analytics from saved runs",
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a report file for a saved run",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		format, _ := cmd.Flags().GetString("format")

		if id == "" {
			return fmt.Errorf("--id is required")
		}

		format = strings.ToLower(format)
		switch format {
		case "json", "md", "html", "pdf":
		default:
			return &ReportFormatError{Format: format}
		}

		run, err := loadRun(id)
		if err != nil {
			return err
		}

		trendHistory, histErr := loadTelemetryHistory(resultsDir, 8)
		if histErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load telemetry history: %v\n", histErr)
		}

		var reportBytes []byte
		var filename string

		switch format {
		case "json":
			b, err := json.MarshalIndent(run, jsonPrefix, jsonIndent)
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}
			reportBytes = b
			filename = "report.json"
		case "md":
			data := buildTemplateData(run, trendHistory)
			content, err := executeReportTemplate(markdownReportTemplate, data)
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}
			reportBytes = []byte(content)
			filename = "report.md"
		case "html":
			data := buildTemplateData(run, trendHistory)
			content, err := executeReportTemplate(htmlReportTemplate, data)
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}
			reportBytes = []byte(content)
			filename = "report.html"
		case "pdf":
			data := buildTemplateData(run, trendHistory)
			b, err := generatePDFReportBytes(data)
			if err != nil {
				return fmt.Errorf("failed to generate PDF report: %w", err)
			}
			reportBytes = b
			filename = "report.pdf"
		}

		reportPath, err := resolveRunPath(resultsDir, id, filename)
		if err != nil {
			return fmt.Errorf("resolve report path: %w", err)
		}
		if err := os.WriteFile(reportPath, reportBytes, consts.DefaultFilePerm); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		fmt.Printf("Report generated: %s\n", reportPath)
		fmt.Printf("Format: %s\n", format)
		fmt.Printf("Total targets: %d\n", run.Summary.Targets)

		return nil
	},
}

// TemplateData holds the data for HTML/PDF/Markdown template rendering
type TemplateData struct {
	Run          *audit.Run
	GeneratedAt  string
	StartedAt    string
	CompletedAt  string
	Duration     string
	Status       string
	SuccessRate  string
	FooterDate   string
	TrendHistory []telemetryRecord
	TrendSummary TrendSummary
}

type TrendSummary struct {
	AverageScore    float64
	AverageDuration float64
}

func buildTemplateData(run *audit.Run, trends []telemetryRecord) TemplateData {
	now := time.Now()
	duration := run.CompletedAt.Sub(run.StartedAt)
	if duration < 0 {
		duration = 0
	}

	successRate := 0.0
	if run.Summary.Targets > 0 {
		successRate = float64(run.Summary.Succeeded) / float64(run.Summary.Targets) * 100
	}

	return TemplateData{
		Run:          run,
		GeneratedAt:  now.Format(time.RFC3339),
		StartedAt:    run.StartedAt.Format(time.RFC3339),
		CompletedAt:  run.CompletedAt.Format(time.RFC3339),
		Duration:     duration.Round(time.Second).String(),
		Status:       deriveRunStatus(run.Summary.Succeeded, run.Summary.Failed, run.Summary.Targets),
		SuccessRate:  fmt.Sprintf("%.1f", successRate),
		FooterDate:   now.Format("2006-01-02 15:04:05"),
		TrendHistory: trends,
		TrendSummary: summarizeTrendHistory(trends),
	}
}

func deriveRunStatus(okCount, errorCount, total int) string {
	switch {
	case total == 0:
		return "No targets"
	case errorCount == 0:
		return "Completed"
	case okCount == 0:
		return "Failed"
	default:
		return "Completed with issues"
	}
}

func summarizeTrendHistory(trends []telemetryRecord) TrendSummary {
	if len(trends) == 0 {
		return TrendSummary{}
	}
	sumScore := 0.0
	sumDuration := 0.0
	for _, rec := range trends {
		sumScore += rec.AverageScore
		sumDuration += rec.DurationSeconds
	}
	count := float64(len(trends))
	return TrendSummary{
		AverageScore:    sumScore / count,
		AverageDuration: sumDuration / count,
	}
}

func executeReportTemplate(tmpl *template.Template, data TemplateData) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// generateHTMLReportBytes renders the standalone HTML report for a run. The
// audit and batch commands use it for --format html without touching disk.
func generateHTMLReportBytes(run *audit.Run) ([]byte, error) {
	content, err := executeReportTemplate(htmlReportTemplate, buildTemplateData(run, nil))
	if err != nil {
		return nil, err
	}
	return []byte(content), nil
}

func addInts(a, b int) int {
	return a + b
}

func formatShortTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 02 15:04")
}

func formatDurationLabel(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	min := seconds / 60
	return fmt.Sprintf("%.1f min", min)
}

func formatScoreLabel(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

func formatPercentLabel(fraction float64) string {
	return fmt.Sprintf("%.0f%%", fraction*100)
}

func gradeBadgeClass(grade string) string {
	switch strings.ToUpper(strings.TrimSpace(grade)) {
	case "A+", "A":
		return "badge-a"
	case "B":
		return "badge-b"
	case "C":
		return "badge-c"
	case "D":
		return "badge-d"
	default:
		return "badge-f"
	}
}

// scoreBarWidth clamps a 0-100 score into a CSS width percent.
func scoreBarWidth(score float64) int {
	w := int(math.Round(score))
	if w < 0 {
		return 0
	}
	if w > 100 {
		return 100
	}
	return w
}

func generatePDFReportBytes(data TemplateData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	run := data.Run

	// Title
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "SEO Audit Report", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Metadata section
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Run ID: %s", run.ID), "", 1, "", false, 0, "")
	if run.Operator != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Operator: %s", run.Operator), "", 1, "", false, 0, "")
	}
	if run.Keyword != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Keyword: %s", run.Keyword), "", 1, "", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Started: %s", data.StartedAt), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Completed: %s", data.CompletedAt), "", 1, "", false, 0, "")
	pdf.Ln(5)

	// Summary section
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Targets: %d | OK: %d | Failed: %d | Status: %s",
		run.Summary.Targets, run.Summary.Succeeded, run.Summary.Failed, data.Status), "", 1, "", false, 0, "")
	if run.Summary.Succeeded > 0 {
		pdf.CellFormat(0, 6, fmt.Sprintf("Average Score: %.1f | Median: %.1f",
			run.Summary.AverageScore, run.Summary.MedianScore), "", 1, "", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Best: %d (%s) | Worst: %d (%s)",
			run.Summary.HighestScore, run.Summary.HighestURL,
			run.Summary.LowestScore, run.Summary.LowestURL), "", 1, "", false, 0, "")
	}
	pdf.Ln(5)

	// Category averages
	if len(run.Summary.CategoryAverages) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Category Averages", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, ca := range run.Summary.CategoryAverages {
			pdf.CellFormat(0, 5, fmt.Sprintf("  %s: %.1f", ca.Name, ca.Average), "", 1, "", false, 0, "")
		}
		pdf.Ln(3)
	}

	// Common issues across the batch
	if len(run.Summary.CommonIssues) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Common Issues", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, issue := range run.Summary.CommonIssues {
			if pdf.GetY() > 270 {
				pdf.AddPage()
			}
			pdf.MultiCell(0, 5, fmt.Sprintf("%dx %s", issue.Count, issue.Message), "", "", false)
		}
		pdf.Ln(3)
	}

	// Trend Analysis section (if available)
	if len(data.TrendHistory) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Trend Analysis", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Average Score: %.1f", data.TrendSummary.AverageScore), "", 1, "", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Average Duration: %s", formatDurationLabel(data.TrendSummary.AverageDuration)), "", 1, "", false, 0, "")
		pdf.Ln(3)

		for _, rec := range data.TrendHistory {
			pdf.CellFormat(0, 6, fmt.Sprintf("  %s -> score %.1f, %d targets, %s",
				formatShortTimestamp(rec.Timestamp),
				rec.AverageScore,
				rec.TargetCount,
				formatDurationLabel(rec.DurationSeconds)), "", 1, "", false, 0, "")
		}
		pdf.Ln(5)
	}

	// Results section
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Audited Pages", "", 1, "", false, 0, "")
	pdf.Ln(2)

	maxResults := 50
	for i, tr := range run.Results {
		if i == maxResults {
			pdf.SetFont("Arial", "I", 9)
			pdf.CellFormat(0, 6, fmt.Sprintf("... %d additional targets omitted ...", len(run.Results)-maxResults), "", 1, "", false, 0, "")
			break
		}

		if pdf.GetY() > 250 {
			pdf.AddPage()
		}

		if tr.Result == nil {
			pdf.SetFont("Arial", "B", 11)
			pdf.SetFillColor(250, 230, 230)
			pdf.CellFormat(0, 7, fmt.Sprintf("%s - FAILED", tr.Target.URL), "", 1, "", true, 0, "")
			if tr.Error != nil {
				pdf.SetFont("Arial", "", 9)
				pdf.MultiCell(0, 5, fmt.Sprintf("  %s error: %s", tr.Error.Type, tr.Error.Message), "", "", false)
			}
			pdf.Ln(3)
			continue
		}

		res := tr.Result

		// Target header with score
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(0, 7, fmt.Sprintf("%s - %d/100 (%s)", tr.Target.URL, res.OverallScore, res.Grade), "", 1, "", true, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("HTTP %d | %.0f ms | %.1f KB | %d checks",
			res.StatusCode, float64(res.ResponseTime.Milliseconds()), float64(res.PageBytes)/1024, res.ChecksRun), "", 1, "", false, 0, "")

		categoryParts := make([]string, 0, len(res.Categories))
		for _, cat := range res.Categories {
			categoryParts = append(categoryParts, fmt.Sprintf("%s %.0f", cat.Name, cat.Score))
		}
		pdf.MultiCell(0, 5, "  "+strings.Join(categoryParts, " | "), "", "", false)

		writePDFIssueList(pdf, "Critical", res.Issues.Critical)
		writePDFIssueList(pdf, "Warnings", res.Issues.Warnings)

		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// writePDFIssueList prints up to eight issues of one severity under a target.
func writePDFIssueList(pdf *gofpdf.Fpdf, label string, issues []string) {
	if len(issues) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("%s (%d):", label, len(issues)), "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	const maxIssues = 8
	for i, issue := range issues {
		if i == maxIssues {
			pdf.SetFont("Arial", "I", 8)
			pdf.CellFormat(0, 4, fmt.Sprintf("  ... %d more ...", len(issues)-maxIssues), "", 1, "", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
		}
		pdf.MultiCell(0, 4, fmt.Sprintf("  - %s", issue), "", "", false)
	}
}

type reportStatsEntry struct {
	URL      string `json:"url"`
	Status   string `json:"status"`
	Score    int    `json:"score,omitempty"`
	Grade    string `json:"grade,omitempty"`
	Critical int    `json:"critical"`
	Warnings int    `json:"warnings"`
	Error    string `json:"error,omitempty"`
}

type reportStatsSummary struct {
	RunID        string             `json:"run_id"`
	Total        int                `json:"total"`
	Success      int                `json:"success"`
	Fail         int                `json:"fail"`
	AverageScore float64            `json:"average_score"`
	MedianScore  float64            `json:"median_score"`
	GradeCounts  map[string]int     `json:"grade_counts"`
	Results      []reportStatsEntry `json:"results"`
}

func summarizeReportStats(run *audit.Run) reportStatsSummary {
	summary := reportStatsSummary{
		RunID:        run.ID,
		Total:        run.Summary.Targets,
		Success:      run.Summary.Succeeded,
		Fail:         run.Summary.Failed,
		AverageScore: run.Summary.AverageScore,
		MedianScore:  run.Summary.MedianScore,
		GradeCounts:  run.Summary.GradeCounts,
		Results:      make([]reportStatsEntry, 0, len(run.Results)),
	}

	for _, tr := range run.Results {
		entry := reportStatsEntry{URL: tr.Target.URL}
		if tr.Result != nil {
			entry.Status = "ok"
			entry.Score = tr.Result.OverallScore
			entry.Grade = tr.Result.Grade
			entry.Critical = len(tr.Result.Issues.Critical)
			entry.Warnings = len(tr.Result.Issues.Warnings)
		} else {
			entry.Status = "error"
			if tr.Error != nil {
				entry.Status = tr.Error.Type
				entry.Error = tr.Error.Message
			}
		}
		summary.Results = append(summary.Results, entry)
	}

	return summary
}

func printStatsText(summary reportStatsSummary) {
	fmt.Println(colorInfo("Summary"))
	fmt.Printf("Targets: %d | OK: %s | Fail: %s | Avg: %s | Median: %s\n",
		summary.Total,
		colorSuccess(fmt.Sprintf("%d", summary.Success)),
		colorError(fmt.Sprintf("%d", summary.Fail)),
		formatScore(summary.AverageScore),
		formatScore(summary.MedianScore),
	)
	if len(summary.GradeCounts) > 0 {
		parts := make([]string, 0, len(summary.GradeCounts))
		for _, grade := range []string{"A+", "A", "B", "C", "D", "F"} {
			if n := summary.GradeCounts[grade]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s:%d", formatGrade(grade), n))
			}
		}
		fmt.Printf("Grades:  %s\n", strings.Join(parts, " "))
	}
}

func printStatsTable(summary reportStatsSummary) {
	if len(summary.Results) == 0 {
		fmt.Println(colorWarn("No targets found in run."))
		return
	}

	tw := newTabWriter(os.Stdout)
	fmt.Fprintln(tw, "URL\tSTATUS\tSCORE\tGRADE\tCRIT\tWARN\tERROR")
	for _, entry := range summary.Results {
		score := "-"
		grade := "-"
		if entry.Status == "ok" {
			score = fmt.Sprintf("%d", entry.Score)
			grade = formatGrade(entry.Grade)
		}
		errCol := entry.Error
		if errCol == "" {
			errCol = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			entry.URL, formatSeverityWithColor(entry.Status), score, grade,
			entry.Critical, entry.Warnings, errCol)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush stats table: %v\n", err)
	}
}

func printTelemetryASCII(records []telemetryRecord) {
	const barWidth = 40
	fmt.Println(colorInfo("Average Score Trend"))
	for _, rec := range records {
		barLen := int(math.Round((rec.AverageScore / 100.0) * barWidth))
		if barLen < 0 {
			barLen = 0
		}
		if barLen > barWidth {
			barLen = barWidth
		}
		if barLen == 0 && rec.AverageScore > 0 {
			barLen = 1
		}
		bar := strings.Repeat("#", barLen)
		fmt.Printf("%s | %6.2f | %-*s | %s (%d targets)\n",
			rec.Timestamp.Format("2006-01-02 15:04"),
			rec.AverageScore,
			barWidth,
			bar,
			rec.Command,
			rec.TargetCount,
		)
	}
}

var reportStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show analytics summary for a saved run",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		format, _ := cmd.Flags().GetString("format")
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "" {
			format = "text"
		}
		if id == "" {
			return fmt.Errorf("--id is required")
		}

		run, err := loadRun(id)
		if err != nil {
			return err
		}

		summary := summarizeReportStats(run)

		switch format {
		case "json":
			payload, err := json.MarshalIndent(summary, jsonPrefix, jsonIndent)
			if err != nil {
				return err
			}
			fmt.Println(string(payload))
		case "table":
			printStatsTable(summary)
		case "text":
			printStatsText(summary)
		default:
			return fmt.Errorf("unsupported format %q (use text|table|json)", format)
		}
		return nil
	},
}

var reportTelemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Graph the average score trend across recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		format, _ := cmd.Flags().GetString("format")
		limit, _ := cmd.Flags().GetInt("limit")

		history, err := loadTelemetryHistory(resultsDir, limit)
		if err != nil {
			return err
		}
		if id != "" {
			filtered := history[:0]
			for _, rec := range history {
				if rec.RunID == id {
					filtered = append(filtered, rec)
				}
			}
			history = filtered
		}
		if len(history) == 0 {
			fmt.Printf("%s telemetry records found\n", colorWarn("No"))
			return nil
		}

		switch strings.ToLower(format) {
		case "json":
			out, err := json.MarshalIndent(history, jsonPrefix, jsonIndent)
			if err != nil {
				return fmt.Errorf("marshal telemetry: %w", err)
			}
			fmt.Println(string(out))
		case "ascii":
			printTelemetryASCII(history)
		default:
			return fmt.Errorf("unsupported format %s (use ascii or json)", format)
		}

		return nil
	},
}

func init() {
	reportGenerateCmd.Flags().String("id", "", "Run ID")
	reportGenerateCmd.Flags().String("format", "md", "Output format: json|md|html|pdf")
	reportStatsCmd.Flags().String("id", "", "Run ID")
	reportStatsCmd.Flags().String("format", "text", "Output format: text|table|json")
	reportTelemetryCmd.Flags().String("id", "", "Only show records for this run ID")
	reportTelemetryCmd.Flags().String("format", "ascii", "Output format: ascii|json")
	reportTelemetryCmd.Flags().Int("limit", 10, "Number of recent runs to display")
	reportCmd.AddCommand(reportGenerateCmd)
	reportCmd.AddCommand(reportStatsCmd)
	reportCmd.AddCommand(reportTelemetryCmd)
}

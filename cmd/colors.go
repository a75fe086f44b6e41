package cmd

import (
	"strings"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorBold    = color.New(color.Bold).SprintFunc()
)

func formatGrade(grade string) string {
	switch grade {
	case "A+", "A":
		return colorSuccess(grade)
	case "B":
		return colorInfo(grade)
	case "C":
		return colorWarn(grade)
	default:
		return colorError(grade)
	}
}

func formatScore(score float64) string {
	switch {
	case score >= 90:
		return colorSuccess(formatFloat(score))
	case score >= 70:
		return colorInfo(formatFloat(score))
	case score >= 50:
		return colorWarn(formatFloat(score))
	default:
		return colorError(formatFloat(score))
	}
}

func formatSeverityWithColor(severity string) string {
	switch strings.ToLower(severity) {
	case "ok", "pass", "passed":
		return colorSuccess(severity)
	case "critical", "error", "fail", "failed":
		return colorError(severity)
	case "warning":
		return colorWarn(severity)
	case "recommendation":
		return colorInfo(severity)
	default:
		return severity
	}
}

package cmd

import "fmt"

// RunNotFoundError indicates a saved-run lookup failure.
type RunNotFoundError struct {
	ID string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run %s not found", e.ID)
}

// ReportFormatError signals an output format the report generator does not support.
type ReportFormatError struct {
	Format string
}

func (e *ReportFormatError) Error() string {
	if e.Format == "" {
		return "report format is required"
	}
	return fmt.Sprintf("unsupported report format %q (expected json, md, html, or pdf)", e.Format)
}

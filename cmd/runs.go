package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muntasir-islam/seo-audit-tool/internal/audit"
	consts "github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
)

// runFileName is the envelope filename inside each run directory. Captures
// and generated reports live alongside it.
const runFileName = "run.json"

// saveRun persists a run envelope under results/<runID>/run.json with a
// .sha256 companion and returns the envelope path.
func saveRun(run *audit.Run) (string, error) {
	dir, err := resolveRunPath(resultsDir, run.ID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}

	path := filepath.Join(dir, runFileName)
	b, err := json.MarshalIndent(run, jsonPrefix, jsonIndent)
	if err != nil {
		return "", fmt.Errorf("marshal run: %w", err)
	}
	if err := os.WriteFile(path, b, consts.DefaultFilePerm); err != nil {
		return "", fmt.Errorf("write run file: %w", err)
	}
	if _, err := HashFileSHA256(path); err != nil {
		return "", fmt.Errorf("hash run file: %w", err)
	}
	return path, nil
}

// loadRun reads one run envelope back from the results directory.
func loadRun(runID string) (*audit.Run, error) {
	path, err := resolveRunPath(resultsDir, runID, runFileName)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path) // #nosec G304 -- path resolved via resolveRunPath within the results dir.
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &RunNotFoundError{ID: runID}
		}
		return nil, fmt.Errorf("read run file: %w", err)
	}
	var run audit.Run
	if err := json.Unmarshal(b, &run); err != nil {
		return nil, fmt.Errorf("parse run file: %w", err)
	}
	return &run, nil
}

// listRuns scans the results directory for run envelopes, newest first.
func listRuns() ([]*audit.Run, error) {
	entries, err := os.ReadDir(resultsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read results directory: %w", err)
	}

	var runs []*audit.Run
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		run, err := loadRun(entry.Name())
		if err != nil {
			// directories without an envelope are not runs
			continue
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage saved audit runs (list/show/delete)",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := listRuns()
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			summaries := make([]runSummaryDTO, len(runs))
			for i, run := range runs {
				summaries[i] = runToSummaryDTO(run)
			}
			b, _ := json.MarshalIndent(summaries, jsonPrefix, jsonIndent)
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}

		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
			return nil
		}

		w := newTabWriter(cmd.OutOrStdout())
		fmt.Fprintln(w, "ID\tSTARTED\tTARGETS\tOK\tFAIL\tAVG SCORE")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.1f\n",
				run.ID,
				run.StartedAt.UTC().Format("2006-01-02 15:04:05"),
				run.Summary.Targets,
				run.Summary.Succeeded,
				run.Summary.Failed,
				run.Summary.AverageScore,
			)
		}
		return w.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"view"},
	Short:   "Show a single saved run as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		if id == "" {
			return fmt.Errorf("--id is required")
		}

		run, err := loadRun(id)
		if err != nil {
			var notFound *RunNotFoundError
			if errors.As(err, &notFound) {
				return err
			}
			return fmt.Errorf("failed to load run: %w", err)
		}

		b, _ := json.MarshalIndent(run, jsonPrefix, jsonIndent)
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a saved run and its reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		confirm, _ := cmd.Flags().GetBool("confirm")

		if id == "" {
			return fmt.Errorf("--id is required")
		}
		if !confirm {
			return errors.New("--confirm is required to delete the run")
		}

		dir, err := resolveRunPath(resultsDir, id)
		if err != nil {
			return err
		}
		if _, err := os.Stat(filepath.Join(dir, runFileName)); err != nil {
			if os.IsNotExist(err) {
				return &RunNotFoundError{ID: id}
			}
			return fmt.Errorf("stat run file: %w", err)
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s deleted run %s\n", colorSuccess("Success:"), id)
		return nil
	},
}

type runSummaryDTO struct {
	ID        string  `json:"id"`
	Operator  string  `json:"operator,omitempty"`
	StartedAt string  `json:"started_at"`
	Targets   int     `json:"targets"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	AvgScore  float64 `json:"average_score"`
}

func runToSummaryDTO(run *audit.Run) runSummaryDTO {
	return runSummaryDTO{
		ID:        run.ID,
		Operator:  run.Operator,
		StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
		Targets:   run.Summary.Targets,
		Succeeded: run.Summary.Succeeded,
		Failed:    run.Summary.Failed,
		AvgScore:  run.Summary.AverageScore,
	}
}

// targetList reads one URL per line, blank lines and #-comments skipped.
func targetList(path string) ([]string, error) {
	b, err := os.ReadFile(path) // #nosec G304 -- operator-supplied target list path.
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}
	var targets []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	return targets, nil
}

func init() {
	runsListCmd.Flags().Bool("json", false, "emit the run list as JSON")

	runsShowCmd.Flags().String("id", "", "run ID to show")

	runsDeleteCmd.Flags().String("id", "", "run ID to delete")
	runsDeleteCmd.Flags().Bool("confirm", false, "confirm deletion")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
}

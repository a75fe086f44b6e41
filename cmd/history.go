package cmd

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muntasir-islam/seo-audit-tool/internal/audit"
	consts "github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
)

// history header fields:
var historyHeader = []string{
	"timestamp",
	"run_id",
	"operator",
	"url",
	"status",
	"http_status",
	"score",
	"grade",
	"critical",
	"warnings",
	"recommendations",
	"error",
	"duration_seconds",
}

// AppendHistoryRow appends a single row to results/history.csv. The history
// file is the flat cross-run trail; full results live in the run envelopes.
func AppendHistoryRow(runID string, operatorName string, tr audit.TargetResult) error {
	if err := os.MkdirAll(resultsDir, consts.DefaultDirPerm); err != nil {
		return fmt.Errorf("create results dir failed: %w", err)
	}

	historyPath := filepath.Join(resultsDir, "history.csv")
	exists := true
	if _, err := os.Stat(historyPath); os.IsNotExist(err) {
		exists = false
	}

	f, err := os.OpenFile(historyPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, consts.DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("open history file failed: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// if new file, write header first
	if !exists {
		_ = writer.Write(historyHeader)
		writer.Flush()
	}

	_ = writer.Write(historyRow(runID, operatorName, tr))
	writer.Flush()

	return writer.Error()
}

func historyRow(runID, operatorName string, tr audit.TargetResult) []string {
	status := "ok"
	httpStatus := 0
	score := ""
	grade := ""
	critical := ""
	warnings := ""
	recommendations := ""
	errMsg := ""

	if tr.Result != nil {
		httpStatus = tr.Result.StatusCode
		score = strconv.Itoa(tr.Result.OverallScore)
		grade = tr.Result.Grade
		critical = strconv.Itoa(len(tr.Result.Issues.Critical))
		warnings = strconv.Itoa(len(tr.Result.Issues.Warnings))
		recommendations = strconv.Itoa(len(tr.Result.Issues.Recommendations))
	} else if tr.Error != nil {
		status = tr.Error.Type
		errMsg = tr.Error.Message
	}

	return []string{
		time.Now().UTC().Format(time.RFC3339),
		runID,
		operatorName,
		tr.Target.URL,
		status,
		strconv.Itoa(httpStatus),
		score,
		grade,
		critical,
		warnings,
		recommendations,
		errMsg,
		fmt.Sprintf("%.3f", tr.Duration.Seconds()),
	}
}

// SavePageCapture writes a limited raw HTTP response alongside the run for
// later inspection. Body is clipped to the capture limit.
func SavePageCapture(runID, target string, headers map[string][]string, body []byte) error {
	dir, err := resolveRunPath(resultsDir, runID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
		return err
	}

	snippet := body
	if len(snippet) > consts.RawCaptureLimitBytes {
		snippet = snippet[:consts.RawCaptureLimitBytes]
	}

	filename := fmt.Sprintf("raw_%d.txt", time.Now().UnixNano())
	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "Target: %s\nCaptureAt: %s\n\nHeaders:\n", target, time.Now().UTC().Format(time.RFC3339))
	for k, v := range headers {
		fmt.Fprintf(f, "%s: %s\n", k, v)
	}
	fmt.Fprintf(f, "\n--- Body Snippet (max %d bytes) ---\n%s\n", consts.RawCaptureLimitBytes, snippet)
	return nil
}

// HashFileSHA256 computes and writes a .sha256 companion file
func HashFileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()

	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	sum := hex.EncodeToString(h.Sum(nil))
	hashPath := path + ".sha256"
	content := fmt.Sprintf("%s  %s\n", sum, filepath.Base(path))
	if err := os.WriteFile(hashPath, []byte(content), consts.DefaultFilePerm); err != nil {
		return "", err
	}
	return sum, nil
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent audits from the history trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		historyPath := filepath.Join(resultsDir, "history.csv")
		f, err := os.Open(historyPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No audit history yet.")
				return nil
			}
			return fmt.Errorf("open history file failed: %w", err)
		}
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		if err != nil {
			return fmt.Errorf("read history file failed: %w", err)
		}
		if len(rows) <= 1 {
			fmt.Fprintln(cmd.OutOrStdout(), "No audit history yet.")
			return nil
		}

		// drop header, keep the most recent rows
		rows = rows[1:]
		if historyLimit > 0 && len(rows) > historyLimit {
			rows = rows[len(rows)-historyLimit:]
		}

		out := cmd.OutOrStdout()
		w := newTabWriter(out)
		fmt.Fprintln(w, "TIMESTAMP\tURL\tSTATUS\tSCORE\tGRADE\tRUN")
		for _, row := range rows {
			if len(row) < len(historyHeader) {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				row[0], row[3], row[4], row[6], row[7], row[1])
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum rows to display (0 shows all)")
}

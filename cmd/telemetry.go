package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/muntasir-islam/seo-audit-tool/internal/audit"
	consts "github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
)

type telemetryRecord struct {
	Timestamp            time.Time `json:"timestamp"`
	Command              string    `json:"command"`
	RunID                string    `json:"run_id"`
	TargetCount          int       `json:"target_count"`
	SuccessCount         int       `json:"success_count"`
	ErrorCount           int       `json:"error_count"`
	SuccessRate          float64   `json:"success_rate"`
	AverageScore         float64   `json:"average_score"`
	DurationSeconds      float64   `json:"duration_seconds"`
	AvgDurationPerTarget float64   `json:"avg_duration_per_target"`
}

func recordTelemetry(command, runID string, results []audit.TargetResult, duration time.Duration) error {
	okCount, errorCount := summarizeStatuses(results)
	total := len(results)

	successRate := 0.0
	if total > 0 {
		successRate = (float64(okCount) / float64(total)) * 100
	}

	avgDuration := 0.0
	if total > 0 {
		avgDuration = duration.Seconds() / float64(total)
	}

	record := telemetryRecord{
		Timestamp:            time.Now().UTC(),
		Command:              command,
		RunID:                runID,
		TargetCount:          total,
		SuccessCount:         okCount,
		ErrorCount:           errorCount,
		SuccessRate:          successRate,
		AverageScore:         audit.Summarize(results).AverageScore,
		DurationSeconds:      duration.Seconds(),
		AvgDurationPerTarget: avgDuration,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}

	telemetryPath := filepath.Join(resultsDir, "telemetry.jsonl")
	f, err := os.OpenFile(telemetryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, consts.DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write telemetry: %w", err)
	}

	return nil
}

func summarizeStatuses(results []audit.TargetResult) (okCount, errorCount int) {
	for _, r := range results {
		if r.Result != nil {
			okCount++
		} else {
			errorCount++
		}
	}
	return okCount, errorCount
}

// loadTelemetryHistory reads back the most recent telemetry records, oldest
// first. A zero or negative limit loads everything.
func loadTelemetryHistory(dir string, limit int) ([]telemetryRecord, error) {
	telemetryPath := filepath.Join(dir, "telemetry.jsonl")
	f, err := os.Open(telemetryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	var records []telemetryRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec telemetryRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			// tolerate a torn final line from an interrupted run
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read telemetry file: %w", err)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

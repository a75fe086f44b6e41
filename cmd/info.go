package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show system information and data directory paths",
	Long: `Display seo-audit configuration information including:
  - Data directory locations
  - Configuration file paths
  - Current operator
  - Platform information`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := getDataDir()
		if err != nil {
			return fmt.Errorf("failed to get data directory: %w", err)
		}

		resultsExists := "✗ (not created yet)"
		if _, err := os.Stat(resultsDir); err == nil {
			resultsExists = "✓ (exists)"
		}

		historyPath := filepath.Join(resultsDir, "history.csv")
		historyExists := "✗ (no audits yet)"
		if _, err := os.Stat(historyPath); err == nil {
			historyExists = "✓ (exists)"
		}

		configFile := "~/.seo-audit.yaml"
		configExists := "✗ (using defaults)"
		homeDir, _ := os.UserHomeDir()
		configPath := filepath.Join(homeDir, ".seo-audit.yaml")
		if _, err := os.Stat(configPath); err == nil {
			configExists = "✓ (exists)"
		}

		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "seo-audit System Information")
		fmt.Fprintln(out, "============================")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Platform:          %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "Operator:          %s\n", operator)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Data Locations:")
		fmt.Fprintf(out, "  Data Directory:     %s\n", dataDir)
		fmt.Fprintf(out, "  Results Directory:  %s %s\n", resultsDir, resultsExists)
		fmt.Fprintf(out, "  History File:       %s %s\n", historyPath, historyExists)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Configuration File:   %s %s\n", configFile, configExists)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To override the results directory, create ~/.seo-audit.yaml with:")
		fmt.Fprintln(out, "  results_dir: /custom/path/to/results")

		return nil
	},
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/muntasir-islam/seo-audit-tool/internal/check"
	"github.com/muntasir-islam/seo-audit-tool/internal/score"
	consts "github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
)

var cfgFile string
var logger *zap.SugaredLogger
var operator string
var resultsDir string
var verbose bool
var noColor bool

var rootCmd = &cobra.Command{
	Use:   "seo-audit",
	Short: "Audit web pages for SEO issues and score them 0-100",
	Long: `seo-audit fetches a web page, runs two hundred plus independent checks
against its HTML and response headers, and folds the outcomes into a
weighted score with a letter grade. Reports render as colored text,
standalone HTML, JSON, or CSV. Batch mode audits many URLs at once and
serve mode exposes the same pipeline over an HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}

		// A broken check table or weight table is fatal before any
		// command runs; it is never recovered from per audit.
		if err := check.Validate(); err != nil {
			return err
		}
		if err := score.ValidateConfig(); err != nil {
			return err
		}

		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".seo-audit")
			viper.SetConfigType("yaml")
		}

		_ = viper.ReadInConfig()

		if resultsDir == "" {
			resultsDir = viper.GetString("results_dir")
		}
		if resultsDir == "" {
			dir, err := getResultsDir()
			if err != nil {
				return fmt.Errorf("failed to locate results directory: %w", err)
			}
			resultsDir = dir
		}
		if err := os.MkdirAll(resultsDir, consts.DefaultDirPerm); err != nil {
			return fmt.Errorf("failed to create results directory: %s", err.Error())
		}

		// init logger
		if verbose {
			l, err := zap.NewProduction()
			if err != nil {
				l = zap.NewNop()
			}
			logger = l.Sugar()
		} else {
			logger = zap.NewNop().Sugar()
		}

		// operator identity is recorded in run envelopes, never required
		if operator == "" {
			operator = detectOperatorFromEnv()
		}

		// Make final resultsDir absolute (for clarity in logs)
		if abs, err := filepath.Abs(resultsDir); err == nil {
			resultsDir = abs
		}

		applyConfigDefaults(cmd)

		logger.Infof("operator=%s results_dir=%s", operator, resultsDir)

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.seo-audit.yaml)")
	rootCmd.PersistentFlags().StringVar(&resultsDir, "results-dir", "", "directory run files and reports are written to")
	rootCmd.PersistentFlags().StringVarP(&operator, "operator", "o", os.Getenv("USER"), "operator name recorded in saved runs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable structured diagnostic logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(checksCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

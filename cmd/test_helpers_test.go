package cmd

import (
	"io"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/muntasir-islam/seo-audit-tool/cmd/testutil"
)

// setupTestEnv points the package-level state at a throwaway directory and
// returns a restore function. Commands read resultsDir, operator, and logger
// directly, so tests must swap them rather than construct anything.
func setupTestEnv(t *testing.T) func() {
	t.Helper()

	origResultsDir := resultsDir
	origOperator := operator
	origLogger := logger

	env := testutil.NewTestEnv(t)
	t.Setenv(dataDirEnvVar, env.TmpDir)

	resultsDir = env.ResultsDir
	operator = env.Operator
	logger = zap.NewNop().Sugar()

	return func() {
		resultsDir = origResultsDir
		operator = origOperator
		logger = origLogger
	}
}

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it. The reader drains concurrently so large output
// cannot fill the pipe and deadlock fn.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	fn()

	_ = w.Close()
	os.Stdout = orig
	return <-done
}

// resetFlags restores a command's flags to their declared defaults once the
// test finishes. Commands are package singletons, so without this a flag set
// in one test would leak its value and Changed state into the next.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()

	reset := func() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			// Slice flags stringify their default as "[]", which Set would
			// take literally.
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
	reset()
	t.Cleanup(reset)
}

// setFlag sets a command flag and fails the test on error.
func setFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()

	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatalf("failed to set --%s=%s: %v", name, value, err)
	}
}

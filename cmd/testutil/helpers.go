package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	consts "github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
	"github.com/muntasir-islam/seo-audit-tool/internal/shared/security"
)

// TestEnv holds test environment configuration and cleanup functions.
type TestEnv struct {
	TmpDir       string
	RunID        string
	Operator     string
	ResultsDir   string
	cleanupFuncs []func()
	t            *testing.T
}

// NewTestEnv creates a new test environment with automatic cleanup.
// Usage:
//
//	env := testutil.NewTestEnv(t)
//	defer env.Cleanup()
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir() // Automatically cleaned up by Go test framework
	// Subtest names carry slashes, which run IDs must not.
	runID := "test-run-" + strings.ReplaceAll(t.Name(), "/", "_")

	env := &TestEnv{
		TmpDir:       tmpDir,
		RunID:        runID,
		Operator:     "test-operator",
		ResultsDir:   filepath.Join(tmpDir, "results"),
		t:            t,
		cleanupFuncs: []func(){},
	}

	// Create results directory structure
	if err := os.MkdirAll(filepath.Join(env.ResultsDir, runID), consts.DefaultDirPerm); err != nil {
		t.Fatalf("Failed to create test results directory: %v", err)
	}

	return env
}

// WithRunID sets a custom run ID.
func (e *TestEnv) WithRunID(id string) *TestEnv {
	e.t.Helper()
	e.RunID = id

	// Create directory for new run
	if err := os.MkdirAll(filepath.Join(e.ResultsDir, id), consts.DefaultDirPerm); err != nil {
		e.t.Fatalf("Failed to create run directory: %v", err)
	}

	return e
}

// WithOperator sets a custom operator name.
func (e *TestEnv) WithOperator(operator string) *TestEnv {
	e.Operator = operator
	return e
}

// AddCleanup adds a cleanup function to be called when Cleanup() is called.
// Cleanup functions are called in reverse order (LIFO).
func (e *TestEnv) AddCleanup(fn func()) {
	e.cleanupFuncs = append([]func(){fn}, e.cleanupFuncs...)
}

// Cleanup runs all registered cleanup functions.
// Typically called with defer: defer env.Cleanup()
func (e *TestEnv) Cleanup() {
	for _, fn := range e.cleanupFuncs {
		fn()
	}
}

// RunPath returns the full path to the results directory for the test run.
func (e *TestEnv) RunPath() string {
	return filepath.Join(e.ResultsDir, e.RunID)
}

// CreateFile creates a file in the test environment with the given content.
// The file path is relative to the test's temporary directory.
func (e *TestEnv) CreateFile(relativePath string, content []byte) string {
	e.t.Helper()

	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, consts.DefaultFilePerm); err != nil {
		e.t.Fatalf("Failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// ReadFile reads a file from the test environment.
// The file path is relative to the test's temporary directory.
func (e *TestEnv) ReadFile(relativePath string) []byte {
	e.t.Helper()

	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		e.t.Fatalf("Failed to read file %s: %v", fullPath, err)
	}

	return content
}

// FileExists checks if a file exists in the test environment.
func (e *TestEnv) FileExists(relativePath string) bool {
	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	_, err := os.Stat(fullPath)
	return err == nil
}

// MustNotExist fails the test if the file exists.
func (e *TestEnv) MustNotExist(relativePath string) {
	e.t.Helper()
	if e.FileExists(relativePath) {
		e.t.Fatalf("File %s should not exist but does", relativePath)
	}
}

// MustExist fails the test if the file does not exist.
func (e *TestEnv) MustExist(relativePath string) {
	e.t.Helper()
	if !e.FileExists(relativePath) {
		e.t.Fatalf("File %s should exist but does not", relativePath)
	}
}

func resolveTmpPath(baseDir, relativePath string, t *testing.T) string {
	t.Helper()
	path, err := security.ResolveWithin(baseDir, relativePath)
	if err != nil {
		t.Fatalf("invalid test path %s: %v", relativePath, err)
	}
	return path
}

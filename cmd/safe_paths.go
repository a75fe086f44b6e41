package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muntasir-islam/seo-audit-tool/internal/shared/security"
)

// validateRunID ensures run identifiers can't be used for path traversal.
// IDs become filenames under the results directory, so reject separators.
func validateRunID(id string) error {
	switch id {
	case "":
		return errors.New("run ID is required")
	case ".", "..":
		return fmt.Errorf("run ID %q is reserved", id)
	}
	if strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("run ID %q must not contain path separators", id)
	}
	return nil
}

func resolveRunPath(resultsDir, runID string, parts ...string) (string, error) {
	if err := validateRunID(runID); err != nil {
		return "", err
	}
	pathParts := append([]string{runID}, parts...)
	return security.ResolveWithin(resultsDir, pathParts...)
}

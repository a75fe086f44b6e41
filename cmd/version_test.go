package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	resetFlags(t, versionCmd)

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	if !strings.Contains(buf.String(), "seo-audit version dev") {
		t.Fatalf("unexpected version output %q", buf.String())
	}
}

func TestVersionCommandDetailed(t *testing.T) {
	resetFlags(t, versionCmd)
	setFlag(t, versionCmd, "detailed", "true")

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	out := buf.String()
	if !strings.Contains(out, "Git commit:") {
		t.Errorf("detailed output missing build metadata: %q", out)
	}
	if !strings.Contains(out, "registered") {
		t.Errorf("detailed output missing check catalog size: %q", out)
	}
}

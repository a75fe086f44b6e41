package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	consts "github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
)

func TestApplyIntDefault(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("timeout", 0, "")

	var applied int
	applyIntDefault(flags, "timeout", 15, func(v int) {
		applied = v
	})
	if applied != 15 {
		t.Fatalf("expected setter to receive 15, got %d", applied)
	}

	// When flag already set, setter should not run.
	if err := flags.Set("timeout", "7"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	applied = 0
	applyIntDefault(flags, "timeout", 20, func(v int) {
		applied = v
	})
	if applied != 0 {
		t.Fatalf("setter should not run when flag overridden, got %d", applied)
	}
}

func TestApplyIntDefault_NilGuards(t *testing.T) {
	// Neither call may panic.
	applyIntDefault(nil, "timeout", 5, func(v int) {})
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	applyIntDefault(flags, "timeout", 5, nil)
}

func TestSetStringFlagIfUnset(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "text", "")

	setStringFlagIfUnset(flags, "format", "json")
	if got, _ := flags.GetString("format"); got != "json" {
		t.Fatalf("expected default to apply, got %s", got)
	}

	// An explicit user value wins over config defaults.
	if err := flags.Set("format", "csv"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	setStringFlagIfUnset(flags, "format", "html")
	if got, _ := flags.GetString("format"); got != "csv" {
		t.Fatalf("expected user value to survive, got %s", got)
	}

	// Unknown flags are ignored.
	setStringFlagIfUnset(flags, "missing", "x")
}

func TestLoadDefaultOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	viper.Set("defaults.format", "json")
	viper.Set("defaults.operator", "config-operator")
	viper.Set("audit.workers", 7)
	viper.Set("audit.rate_limit", 2)
	viper.Set("audit.timeout_secs", 45)
	viper.Set("audit.max_redirects", 3)
	viper.Set("audit.user_agent", "CustomAgent/1.0")

	overrides := loadDefaultOverrides()

	if overrides.Format != "json" {
		t.Errorf("expected format json, got %s", overrides.Format)
	}
	if !overrides.OperatorOverride || overrides.Operator != "config-operator" {
		t.Errorf("expected operator override, got %+v", overrides)
	}
	if overrides.Workers == nil || *overrides.Workers != 7 {
		t.Errorf("expected workers 7, got %v", overrides.Workers)
	}
	if overrides.RateLimit == nil || *overrides.RateLimit != 2 {
		t.Errorf("expected rate limit 2, got %v", overrides.RateLimit)
	}
	if overrides.TimeoutSecs == nil || *overrides.TimeoutSecs != 45 {
		t.Errorf("expected timeout 45, got %v", overrides.TimeoutSecs)
	}
	if overrides.MaxRedirects == nil || *overrides.MaxRedirects != 3 {
		t.Errorf("expected max redirects 3, got %v", overrides.MaxRedirects)
	}
	if overrides.UserAgent != "CustomAgent/1.0" {
		t.Errorf("expected custom user agent, got %s", overrides.UserAgent)
	}
}

func TestLoadDefaultOverrides_EmptyConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	overrides := loadDefaultOverrides()

	if overrides.Format != "" || overrides.OperatorOverride {
		t.Errorf("expected no overrides from empty config, got %+v", overrides)
	}
	if overrides.Workers != nil || overrides.RateLimit != nil || overrides.TimeoutSecs != nil || overrides.MaxRedirects != nil {
		t.Errorf("expected nil numeric overrides, got %+v", overrides)
	}
}

func TestNewCLIConfig_Defaults(t *testing.T) {
	cfg := newCLIConfig()

	if cfg.Defaults.Format != formatText {
		t.Errorf("expected default format text, got %s", cfg.Defaults.Format)
	}
	if cfg.Audit.Workers != consts.DefaultBatchWorkers {
		t.Errorf("expected default workers %d, got %d", consts.DefaultBatchWorkers, cfg.Audit.Workers)
	}
	if cfg.Audit.RateLimit != consts.DefaultBatchRateLimit {
		t.Errorf("expected default rate limit %d, got %d", consts.DefaultBatchRateLimit, cfg.Audit.RateLimit)
	}
	if cfg.Audit.TimeoutSecs != int(consts.DefaultFetchTimeout.Seconds()) {
		t.Errorf("expected default timeout %d, got %d", int(consts.DefaultFetchTimeout.Seconds()), cfg.Audit.TimeoutSecs)
	}
	if cfg.Audit.MaxRedirects != consts.DefaultMaxRedirects {
		t.Errorf("expected default max redirects %d, got %d", consts.DefaultMaxRedirects, cfg.Audit.MaxRedirects)
	}
	if cfg.Audit.UserAgent != consts.DefaultUserAgent {
		t.Errorf("expected default user agent, got %s", cfg.Audit.UserAgent)
	}
}

func TestDetectOperatorFromEnv(t *testing.T) {
	t.Setenv("USER", "alice")
	t.Setenv("LOGNAME", "bob")
	if got := detectOperatorFromEnv(); got != "alice" {
		t.Fatalf("expected USER to win, got %s", got)
	}

	t.Setenv("USER", "")
	if got := detectOperatorFromEnv(); got != "bob" {
		t.Fatalf("expected LOGNAME fallback, got %s", got)
	}

	t.Setenv("LOGNAME", "")
	if got := detectOperatorFromEnv(); got != "" {
		t.Fatalf("expected empty operator, got %s", got)
	}
}

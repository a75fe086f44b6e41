package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	consts "github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Defaults DefaultValues
	Audit    AuditRuntimeConfig
}

// DefaultValues represent operator-level defaults, typically derived from env/config.
type DefaultValues struct {
	Format   string
	Operator string
}

// AuditRuntimeConfig consolidates flag-driven settings for the audit pipeline.
type AuditRuntimeConfig struct {
	Workers      int
	RateLimit    int
	TimeoutSecs  int
	MaxRedirects int
	UserAgent    string
}

type defaultOverrides struct {
	Format           string
	Operator         string
	OperatorOverride bool
	Workers          *int
	RateLimit        *int
	TimeoutSecs      *int
	MaxRedirects     *int
	UserAgent        string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Defaults: DefaultValues{
			Format:   formatText,
			Operator: detectOperatorFromEnv(),
		},
		Audit: AuditRuntimeConfig{
			Workers:      consts.DefaultBatchWorkers,
			RateLimit:    consts.DefaultBatchRateLimit,
			TimeoutSecs:  int(consts.DefaultFetchTimeout.Seconds()),
			MaxRedirects: consts.DefaultMaxRedirects,
			UserAgent:    consts.DefaultUserAgent,
		},
	}
}

func detectOperatorFromEnv() string {
	if env := os.Getenv("USER"); env != "" {
		return env
	}
	if env := os.Getenv("LOGNAME"); env != "" {
		return env
	}
	return ""
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{}

	if viper.IsSet("defaults.format") {
		overrides.Format = viper.GetString("defaults.format")
	}

	if viper.IsSet("defaults.operator") {
		overrides.Operator = viper.GetString("defaults.operator")
		overrides.OperatorOverride = true
	}

	if viper.IsSet("audit.workers") {
		val := viper.GetInt("audit.workers")
		overrides.Workers = &val
	}

	if viper.IsSet("audit.rate_limit") {
		val := viper.GetInt("audit.rate_limit")
		overrides.RateLimit = &val
	}

	if viper.IsSet("audit.timeout_secs") {
		val := viper.GetInt("audit.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	if viper.IsSet("audit.max_redirects") {
		val := viper.GetInt("audit.max_redirects")
		overrides.MaxRedirects = &val
	}

	if viper.IsSet("audit.user_agent") {
		overrides.UserAgent = viper.GetString("audit.user_agent")
	}

	return overrides
}

// applyConfigDefaults merges config file defaults into the runtime config when the user
// did not explicitly override the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadDefaultOverrides()

	if overrides.OperatorOverride && overrides.Operator != "" {
		cliConfig.Defaults.Operator = overrides.Operator
		setStringFlagIfUnset(cmd.Flags(), "operator", overrides.Operator)
	}

	if overrides.Format != "" {
		cliConfig.Defaults.Format = overrides.Format
		setStringFlagIfUnset(cmd.Flags(), "format", overrides.Format)
	}

	if overrides.Workers != nil {
		applyIntDefault(batchCmd.Flags(), "workers", *overrides.Workers, func(v int) {
			cliConfig.Audit.Workers = v
		})
	}

	if overrides.RateLimit != nil {
		applyIntDefault(batchCmd.Flags(), "rate-limit", *overrides.RateLimit, func(v int) {
			cliConfig.Audit.RateLimit = v
		})
	}

	if overrides.TimeoutSecs != nil {
		applyIntDefault(cmd.Flags(), "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.Audit.TimeoutSecs = v
		})
	}

	if overrides.MaxRedirects != nil {
		cliConfig.Audit.MaxRedirects = *overrides.MaxRedirects
	}

	if overrides.UserAgent != "" {
		cliConfig.Audit.UserAgent = overrides.UserAgent
		setStringFlagIfUnset(cmd.Flags(), "user-agent", overrides.UserAgent)
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}

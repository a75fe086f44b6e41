package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/muntasir-islam/seo-audit-tool/internal/check"
)

// Build metadata, injected via -ldflags. The defaults mark a source build.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Display the seo-audit build metadata and the size of the check catalog it ships",
	Run: func(cmd *cobra.Command, args []string) {
		detailed, _ := cmd.Flags().GetBool("detailed")
		out := cmd.OutOrStdout()

		if !detailed {
			fmt.Fprintf(out, "seo-audit version %s\n", Version)
			return
		}
		fmt.Fprintf(out, `seo-audit version %s
  Git commit:  %s
  Build date:  %s
  Go:          %s (%s/%s)
  Checks:      %d registered
`, Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH, len(check.Registry()))
	},
}

func init() {
	versionCmd.Flags().Bool("detailed", false, "Show build details and the check catalog size")
}

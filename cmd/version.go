package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, injected at link time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	RootCmd.AddCommand(versionCmd)
}

type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

func runVersion(cmd *cobra.Command, args []string) error {
	if jsonOutput {
		return printJSON(versionOutput{
			Version:   version,
			Commit:    commit,
			BuildDate: date,
			GoVersion: runtime.Version(),
		})
	}

	fmt.Printf("storectl %s (commit %s, built %s, %s)\n", version, commit, date, runtime.Version())
	return nil
}

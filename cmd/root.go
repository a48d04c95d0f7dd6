package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"storectl/core/alias"
	"storectl/core/logger"
	"storectl/core/reconcile"
	"storectl/core/remote"
	"storectl/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global output flags, shared by all subcommands
	jsonOutput bool
	quiet      bool
)

// exitCode carries a non-zero process exit status for runs that complete
// without a command error but must still be distinguishable from a clean
// run (a diff that found differences, a mirror with per-key errors).
var exitCode int

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "Object storage diff and mirror tool",
	Long: `storectl compares and synchronizes objects between S3-compatible stores.
Endpoints are addressed through named aliases (see 'storectl alias').`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON output")
	RootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress per-object output and progress")
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// openSource resolves an alias-qualified path into a connected
// reconciliation source.
func openSource(ctx context.Context, manager *alias.Manager, raw string) (reconcile.Source, remote.Path, error) {
	path, err := remote.Parse(raw)
	if err != nil {
		return reconcile.Source{}, remote.Path{}, fmt.Errorf("invalid path %q: %w", raw, err)
	}

	a, err := manager.Get(path.Alias)
	if err != nil {
		return reconcile.Source{}, remote.Path{}, err
	}

	client, err := storage.NewClient(ctx, a.StorageConfig())
	if err != nil {
		return reconcile.Source{}, remote.Path{}, fmt.Errorf("failed to create client for %q: %w", path.Alias, err)
	}

	return reconcile.Source{
		Client: client,
		Bucket: path.Bucket,
		Prefix: path.Key,
	}, path, nil
}

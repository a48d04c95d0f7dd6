package cmd

import (
	"fmt"
	"os"
	"sync"

	"storectl/core/alias"
	"storectl/core/config"
	"storectl/core/logger"
	"storectl/core/reconcile"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	mirrorRemove    bool
	mirrorOverwrite bool
	mirrorDryRun    bool
	mirrorParallel  int
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror <source> <target>",
	Short: "Synchronize objects from source to target",
	Long: `Mirror objects one way from a source path to a target path.

Objects present only at the source are always copied. Objects that differ
are copied only with --overwrite; extra objects at the target are deleted
only with --remove. All copies complete before the first delete is issued.
A failing object is counted and the run continues; the command exits
non-zero when any error occurred.

Examples:
  # Copy new objects only
  storectl mirror local/assets prod/assets

  # Full one-way synchronization
  storectl mirror --overwrite --remove local/assets prod/assets

  # Preview without touching anything
  storectl mirror -n --overwrite --remove local/assets prod/assets`,
	Args: cobra.ExactArgs(2),
	RunE: runMirror,
}

func init() {
	mirrorCmd.Flags().BoolVar(&mirrorRemove, "remove", false, "Remove extra objects at target")
	mirrorCmd.Flags().BoolVar(&mirrorOverwrite, "overwrite", false, "Overwrite objects that differ")
	mirrorCmd.Flags().BoolVarP(&mirrorDryRun, "dry-run", "n", false, "Show what would be done without doing it")
	mirrorCmd.Flags().IntVarP(&mirrorParallel, "parallel", "P", 4, "Number of parallel operations")

	RootCmd.AddCommand(mirrorCmd)
}

type mirrorOutput struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Copied  int    `json:"copied"`
	Removed int    `json:"removed"`
	Skipped int    `json:"skipped"`
	Errors  int    `json:"errors"`
	DryRun  bool   `json:"dry_run"`
}

func runMirror(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	l = l.With(zap.String("run_id", uuid.NewString()))

	manager, err := alias.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}

	source, sourcePath, err := openSource(ctx, manager, args[0])
	if err != nil {
		return err
	}
	target, targetPath, err := openSource(ctx, manager, args[1])
	if err != nil {
		return err
	}

	// Fail fast on a missing bucket instead of surfacing it as a listing
	// error halfway through.
	for _, side := range []struct {
		src  reconcile.Source
		name string
	}{
		{source, sourcePath.String()},
		{target, targetPath.String()},
	} {
		exists, err := side.src.Client.BucketExists(ctx, side.src.Bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket for %s: %w", side.name, err)
		}
		if !exists {
			return fmt.Errorf("bucket %q does not exist", side.src.Bucket)
		}
	}

	l.Debug("planning mirror",
		zap.String("source", args[0]),
		zap.String("target", args[1]),
		zap.Bool("overwrite", mirrorOverwrite),
		zap.Bool("remove", mirrorRemove),
	)

	diff, err := reconcile.Diff(ctx, source, target, reconcile.MaterializeConfig{
		Retry:     cfg.Retry,
		PageSize:  int32(cfg.Transfer.ListPageSize),
		Recursive: true,
	})
	if err != nil {
		return err
	}

	plan := reconcile.BuildPlan(diff.Entries, reconcile.Policy{
		Overwrite:        mirrorOverwrite,
		DeleteExtraneous: mirrorRemove,
	})

	if mirrorDryRun {
		result := reconcile.Execute(ctx, plan, source, target, reconcile.ExecuteOptions{DryRun: true})
		return reportMirrorDryRun(args[0], args[1], plan, result, diff.Entries)
	}

	parallel := mirrorParallel
	if parallel < 1 {
		parallel = cfg.Transfer.Parallel
	}

	var bar *progressbar.ProgressBar
	if !quiet && !jsonOutput {
		bar = progressbar.NewOptions(len(plan.ToCopy)+len(plan.ToDelete),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Syncing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var mu sync.Mutex
	progress := func(action reconcile.Action, key string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if bar != nil {
			_ = bar.Add(1)
		}
		if err != nil || quiet || jsonOutput {
			return
		}
		switch action {
		case reconcile.ActionCopy:
			fmt.Printf("+ %s\n", key)
		case reconcile.ActionDelete:
			fmt.Printf("- %s\n", key)
		}
	}

	result := reconcile.Execute(ctx, plan, source, target, reconcile.ExecuteOptions{
		Retry:      cfg.Retry,
		Parallel:   parallel,
		Logger:     l,
		OnProgress: progress,
	})

	if bar != nil {
		_ = bar.Finish()
	}

	if jsonOutput {
		if err := printJSON(mirrorOutput{
			Source:  args[0],
			Target:  args[1],
			Copied:  result.Copied,
			Removed: result.Removed,
			Skipped: result.Skipped,
			Errors:  result.Errors,
		}); err != nil {
			return err
		}
	} else {
		fmt.Println()
		fmt.Printf("Mirror complete: %d copied, %d removed, %d skipped, %d errors\n",
			result.Copied, result.Removed, result.Skipped, result.Errors)
	}

	if result.Errors > 0 {
		exitCode = 1
	}
	return nil
}

// reportMirrorDryRun prints the plan a real run would execute. The counts
// come from the same planner, so they match an immediately following real
// run given unchanged listings.
func reportMirrorDryRun(sourceArg, targetArg string, plan reconcile.Plan, result reconcile.Result, entries []reconcile.Entry) error {
	if jsonOutput {
		return printJSON(mirrorOutput{
			Source:  sourceArg,
			Target:  targetArg,
			Copied:  result.Copied,
			Removed: result.Removed,
			Skipped: result.Skipped,
			Errors:  result.Errors,
			DryRun:  true,
		})
	}

	sizes := map[string]*int64{}
	for _, e := range entries {
		sizes[e.Key] = e.FirstSize
	}

	fmt.Println("Dry run mode - no changes will be made:")
	fmt.Println()

	if len(plan.ToCopy) > 0 {
		fmt.Printf("Would copy %d object(s):\n", len(plan.ToCopy))
		for _, key := range plan.ToCopy {
			if size := sizes[key]; size != nil {
				fmt.Printf("  + %s (%s)\n", key, humanize.IBytes(uint64(*size)))
			} else {
				fmt.Printf("  + %s\n", key)
			}
		}
		fmt.Println()
	}

	if len(plan.ToDelete) > 0 {
		fmt.Printf("Would remove %d object(s):\n", len(plan.ToDelete))
		for _, key := range plan.ToDelete {
			fmt.Printf("  - %s\n", key)
		}
		fmt.Println()
	}

	fmt.Printf("Summary: %d to copy, %d to remove, %d skipped\n",
		len(plan.ToCopy), len(plan.ToDelete), plan.Skipped)
	return nil
}

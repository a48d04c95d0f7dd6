package cmd

import (
	"fmt"

	"storectl/core/alias"
	"storectl/core/config"
	"storectl/core/logger"
	"storectl/core/reconcile"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	diffRecursive bool
	diffOnly      bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <first> <second>",
	Short: "Compare objects between two locations",
	Long: `Compare objects between two alias-qualified paths.

Each entry is classified as same (=), different (!), only in first (<)
or only in second (>). Equality uses size and etag; modification times
alone never count as a difference. The command exits non-zero when any
difference is found.

Examples:
  # Compare two prefixes
  storectl diff local/assets/img/ prod/assets/img/

  # Recursive comparison, differences only
  storectl diff -r --diff-only local/backup prod/backup`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVarP(&diffRecursive, "recursive", "r", false, "Recurse into sub-prefixes")
	diffCmd.Flags().BoolVar(&diffOnly, "diff-only", false, "Show only differences")

	RootCmd.AddCommand(diffCmd)
}

type diffOutput struct {
	First   string            `json:"first"`
	Second  string            `json:"second"`
	Entries []reconcile.Entry `json:"entries"`
	Summary reconcile.Summary `json:"summary"`
}

func runDiff(cmd *cobra.Command, args []string) error {
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

	first, _, err := openSource(ctx, manager, args[0])
	if err != nil {
		return err
	}
	second, _, err := openSource(ctx, manager, args[1])
	if err != nil {
		return err
	}

	l.Debug("comparing listings",
		zap.String("first", args[0]),
		zap.String("second", args[1]),
		zap.Bool("recursive", diffRecursive),
	)

	result, err := reconcile.Diff(ctx, first, second, reconcile.MaterializeConfig{
		Retry:     cfg.Retry,
		PageSize:  int32(cfg.Transfer.ListPageSize),
		Recursive: diffRecursive,
	})
	if err != nil {
		return err
	}

	entries := result.Entries
	if diffOnly {
		kept := entries[:0]
		for _, e := range entries {
			if e.Status != reconcile.StatusSame {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	summary := reconcile.Summarize(entries)

	if jsonOutput {
		return printJSON(diffOutput{
			First:   args[0],
			Second:  args[1],
			Entries: entries,
			Summary: summary,
		})
	}

	for _, entry := range entries {
		fmt.Printf("%s %-50s %s\n", statusGlyph(entry.Status), entry.Key, entrySizeInfo(entry))
	}

	fmt.Println()
	fmt.Printf("Summary: %d same, %d different, %d only in first, %d only in second\n",
		summary.Same, summary.Different, summary.OnlyFirst, summary.OnlySecond)

	if summary.HasDifferences() {
		exitCode = 1
	}
	return nil
}

func statusGlyph(status reconcile.Status) string {
	switch status {
	case reconcile.StatusSame:
		return "="
	case reconcile.StatusDifferent:
		return "!"
	case reconcile.StatusOnlyFirst:
		return "<"
	case reconcile.StatusOnlySecond:
		return ">"
	}
	return "?"
}

func entrySizeInfo(entry reconcile.Entry) string {
	switch entry.Status {
	case reconcile.StatusDifferent:
		return fmt.Sprintf("%s -> %s", formatSize(entry.FirstSize), formatSize(entry.SecondSize))
	case reconcile.StatusOnlySecond:
		return formatSize(entry.SecondSize)
	default:
		return formatSize(entry.FirstSize)
	}
}

func formatSize(size *int64) string {
	if size == nil {
		return ""
	}
	return humanize.IBytes(uint64(*size))
}

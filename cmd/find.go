package cmd

import (
	"fmt"
	"sort"

	"storectl/core/alias"
	"storectl/core/config"
	"storectl/core/reconcile"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

var (
	findName    string
	findLarger  string
	findSmaller string
	findCount   bool
)

var findCmd = &cobra.Command{
	Use:   "find <path>",
	Short: "Find objects matching criteria",
	Long: `Search objects under an alias-qualified path by name pattern and size.

Examples:
  # All PNG files
  storectl find local/assets --name "*.png"

  # Large archives
  storectl find local/backup --name "*.tar.gz" --larger 1GiB

  # Count only
  storectl find local/assets --count`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringVar(&findName, "name", "", "Glob pattern to match object names (*, ?, [...])")
	findCmd.Flags().StringVar(&findLarger, "larger", "", "Match objects larger than size (e.g. 1MiB)")
	findCmd.Flags().StringVar(&findSmaller, "smaller", "", "Match objects smaller than size (e.g. 1MiB)")
	findCmd.Flags().BoolVar(&findCount, "count", false, "Print only the number of matches")

	RootCmd.AddCommand(findCmd)
}

type findMatch struct {
	Key       string `json:"key"`
	SizeBytes *int64 `json:"size_bytes,omitempty"`
	SizeHuman string `json:"size_human,omitempty"`
}

type findOutput struct {
	Matches    []findMatch `json:"matches"`
	TotalCount int         `json:"total_count"`
	TotalSize  int64       `json:"total_size_bytes"`
}

func runFind(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var matcher glob.Glob
	if findName != "" {
		matcher, err = glob.Compile(findName)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", findName, err)
		}
	}

	var larger, smaller int64 = -1, -1
	if findLarger != "" {
		n, err := humanize.ParseBytes(findLarger)
		if err != nil {
			return fmt.Errorf("invalid size %q: %w", findLarger, err)
		}
		larger = int64(n)
	}
	if findSmaller != "" {
		n, err := humanize.ParseBytes(findSmaller)
		if err != nil {
			return fmt.Errorf("invalid size %q: %w", findSmaller, err)
		}
		smaller = int64(n)
	}

	manager, err := alias.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}

	src, path, err := openSource(ctx, manager, args[0])
	if err != nil {
		return err
	}

	listing, err := reconcile.Materialize(ctx, src, reconcile.MaterializeConfig{
		Retry:     cfg.Retry,
		PageSize:  int32(cfg.Transfer.ListPageSize),
		Recursive: true,
	})
	if err != nil {
		return err
	}

	var matches []findMatch
	var totalSize int64
	for key, fp := range listing {
		if matcher != nil && !matcher.Match(key) {
			continue
		}
		if larger >= 0 && (fp.Size == nil || *fp.Size <= larger) {
			continue
		}
		if smaller >= 0 && (fp.Size == nil || *fp.Size >= smaller) {
			continue
		}

		m := findMatch{Key: path.Join(key), SizeBytes: fp.Size}
		if fp.Size != nil {
			m.SizeHuman = humanize.IBytes(uint64(*fp.Size))
			totalSize += *fp.Size
		}
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Key < matches[j].Key })

	if jsonOutput {
		return printJSON(findOutput{
			Matches:    matches,
			TotalCount: len(matches),
			TotalSize:  totalSize,
		})
	}

	if findCount {
		fmt.Println(len(matches))
		return nil
	}

	for _, m := range matches {
		fmt.Println(m.Key)
	}
	return nil
}

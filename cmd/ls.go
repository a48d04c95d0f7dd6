package cmd

import (
	"fmt"
	"time"

	"storectl/core/alias"
	"storectl/core/config"
	"storectl/core/storage"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var lsRecursive bool

var lsCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List objects under a path",
	Long: `List objects and sub-prefixes under an alias-qualified path.

Examples:
  storectl ls local/assets/
  storectl ls -r local/assets/img/`,
	Args: cobra.ExactArgs(1),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().BoolVarP(&lsRecursive, "recursive", "r", false, "Recurse into sub-prefixes")

	RootCmd.AddCommand(lsCmd)
}

type lsEntry struct {
	Key          string     `json:"key"`
	IsPrefix     bool       `json:"is_prefix,omitempty"`
	Size         *int64     `json:"size,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
	ETag         string     `json:"etag,omitempty"`
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	manager, err := alias.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}

	src, _, err := openSource(ctx, manager, args[0])
	if err != nil {
		return err
	}

	var entries []lsEntry
	token := ""
	for {
		page, err := src.Client.ListPage(ctx, src.Bucket, storage.ListPageOptions{
			Prefix:            src.Prefix,
			Recursive:         lsRecursive,
			ContinuationToken: token,
			MaxKeys:           int32(cfg.Transfer.ListPageSize),
		})
		if err != nil {
			return err
		}

		for _, e := range page.Entries {
			entries = append(entries, lsEntry{
				Key:          e.Key,
				IsPrefix:     e.IsPrefix,
				Size:         e.Size,
				LastModified: e.LastModified,
				ETag:         e.ETag,
			})
		}

		if !page.Truncated {
			break
		}
		token = page.NextContinuationToken
	}

	if jsonOutput {
		return printJSON(map[string][]lsEntry{"entries": entries})
	}

	for _, e := range entries {
		if e.IsPrefix {
			fmt.Printf("%19s  %10s  %s\n", "", "PRE", e.Key)
			continue
		}

		modified := ""
		if e.LastModified != nil {
			modified = e.LastModified.Local().Format("2006-01-02 15:04:05")
		}
		size := ""
		if e.Size != nil {
			size = humanize.IBytes(uint64(*e.Size))
		}
		fmt.Printf("%19s  %10s  %s\n", modified, size, e.Key)
	}
	return nil
}

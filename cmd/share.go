package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"storectl/core/alias"

	"github.com/spf13/cobra"
)

var shareExpire string

// S3 presigned URLs are limited to seven days.
const maxShareExpiry = 7 * 24 * time.Hour

var shareCmd = &cobra.Command{
	Use:   "share <path>",
	Short: "Generate a presigned download URL",
	Long: `Generate a time-limited URL for downloading an object without
credentials.

Examples:
  storectl share local/assets/report.pdf
  storectl share --expire 1h local/assets/report.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

func init() {
	shareCmd.Flags().StringVarP(&shareExpire, "expire", "e", "7d", "Expiration time (e.g. 30m, 1h, 7d)")

	RootCmd.AddCommand(shareCmd)
}

type shareOutput struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	ExpiresIn   string `json:"expires_in"`
	ExpiresSecs int64  `json:"expires_secs"`
}

func runShare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	expiry, err := parseExpiry(shareExpire)
	if err != nil {
		return err
	}
	if expiry > maxShareExpiry {
		return fmt.Errorf("expiration cannot exceed 7 days")
	}

	manager, err := alias.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}

	src, path, err := openSource(ctx, manager, args[0])
	if err != nil {
		return err
	}
	if path.Key == "" {
		return fmt.Errorf("path must name an object, not a bucket")
	}

	// Presigning is local, so a missing key would only surface on download.
	// Check first to give the caller an immediate error instead.
	if _, err := src.Client.StatObject(ctx, src.Bucket, path.Key); err != nil {
		return fmt.Errorf("object not found: %s", args[0])
	}

	url, err := src.Client.PresignedGet(ctx, src.Bucket, path.Key, expiry)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(shareOutput{
			URL:         url,
			Path:        args[0],
			ExpiresIn:   shareExpire,
			ExpiresSecs: int64(expiry.Seconds()),
		})
	}

	fmt.Printf("URL: %s\n", url)
	fmt.Printf("Expires in: %s\n", shareExpire)
	return nil
}

// parseExpiry understands s, m, h and d suffixes; a bare number means
// seconds.
func parseExpiry(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty expiration")
	}

	unit := time.Second
	value := raw
	switch raw[len(raw)-1] {
	case 's':
		value = raw[:len(raw)-1]
	case 'm':
		unit = time.Minute
		value = raw[:len(raw)-1]
	case 'h':
		unit = time.Hour
		value = raw[:len(raw)-1]
	case 'd':
		unit = 24 * time.Hour
		value = raw[:len(raw)-1]
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid expiration %q (use e.g. 30m, 1h, 7d)", raw)
	}
	return time.Duration(n) * unit, nil
}

package cmd

import (
	"fmt"

	"storectl/core/alias"

	"github.com/spf13/cobra"
)

var (
	aliasRegion    string
	aliasPathStyle bool
)

var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "Manage storage endpoint aliases",
	Long: `Manage named references to S3-compatible storage endpoints.
An alias bundles the endpoint URL, credentials and addressing options
under a short name used by all other commands.`,
}

var aliasSetCmd = &cobra.Command{
	Use:   "set <name> <endpoint> <access-key> <secret-key>",
	Short: "Add or update an alias",
	Args:  cobra.ExactArgs(4),
	RunE:  runAliasSet,
}

var aliasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured aliases",
	Args:  cobra.NoArgs,
	RunE:  runAliasList,
}

var aliasRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an alias",
	Args:  cobra.ExactArgs(1),
	RunE:  runAliasRemove,
}

func init() {
	aliasSetCmd.Flags().StringVar(&aliasRegion, "region", "us-east-1", "AWS region")
	aliasSetCmd.Flags().BoolVar(&aliasPathStyle, "path-style", true, "Use path-style bucket addressing")

	aliasCmd.AddCommand(aliasSetCmd)
	aliasCmd.AddCommand(aliasListCmd)
	aliasCmd.AddCommand(aliasRemoveCmd)
	RootCmd.AddCommand(aliasCmd)
}

// aliasInfo is the list output shape; credentials are never printed.
type aliasInfo struct {
	Name      string `json:"name"`
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	PathStyle bool   `json:"path_style"`
}

func runAliasSet(cmd *cobra.Command, args []string) error {
	manager, err := alias.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}

	a := alias.Alias{
		Name:      args[0],
		Endpoint:  args[1],
		AccessKey: args[2],
		SecretKey: args[3],
		Region:    aliasRegion,
		PathStyle: aliasPathStyle,
	}
	if err := manager.Set(a); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(aliasInfo{Name: a.Name, Endpoint: a.Endpoint, Region: a.Region, PathStyle: a.PathStyle})
	}
	fmt.Printf("Alias %q set to %s\n", a.Name, a.Endpoint)
	return nil
}

func runAliasList(cmd *cobra.Command, args []string) error {
	manager, err := alias.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}

	aliases := manager.List()

	if jsonOutput {
		infos := make([]aliasInfo, 0, len(aliases))
		for _, a := range aliases {
			infos = append(infos, aliasInfo{Name: a.Name, Endpoint: a.Endpoint, Region: a.Region, PathStyle: a.PathStyle})
		}
		return printJSON(map[string][]aliasInfo{"aliases": infos})
	}

	for _, a := range aliases {
		fmt.Printf("%-20s %s (%s)\n", a.Name, a.Endpoint, a.Region)
	}
	return nil
}

func runAliasRemove(cmd *cobra.Command, args []string) error {
	manager, err := alias.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}

	if err := manager.Remove(args[0]); err != nil {
		return err
	}

	if !jsonOutput {
		fmt.Printf("Alias %q removed\n", args[0])
	}
	return nil
}

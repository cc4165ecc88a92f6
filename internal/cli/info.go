package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// infoCommand creates the info command for inspecting a single package.
func (c *CLI) infoCommand() *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "info <package>",
		Short: "Show resolved metadata for a single package version",
		Long: `Show the resolved id, version, and direct dependencies of a package
without expanding the transitive tree.

Examples:
  nugettree info Newtonsoft.Json
  nugettree info Serilog --version 3.1.1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(cmd.Context(), args[0], version)
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "package version (latest if empty)")

	return cmd
}

// runInfo fetches one package and prints its metadata.
func (c *CLI) runInfo(ctx context.Context, pkg, version string) error {
	client, closer, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()

	info, err := client.FetchPackage(ctx, pkg, version, c.framework())
	if err != nil {
		return err
	}

	printKeyValue("Package", info.ID)
	printKeyValue("Version", info.Version)
	printKeyValue("Source", client.Source())
	printKeyValue("Dependencies", fmt.Sprintf("%d", len(info.Dependencies)))

	for _, dep := range info.Dependencies {
		printDetail("%s %s", dep.ID, dep.Range)
	}
	return nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nugettree/pkg/deps"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	version string // explicit package version ("" = latest)
	output  string // output file path (stdout if empty)
	asJSON  bool   // emit the tree as JSON instead of text
}

// treeCommand creates the tree command for resolving dependency trees.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree <package>",
		Short: "Resolve and display a package's dependency tree",
		Long: `Resolve and display the full transitive dependency tree of a NuGet package.

Each dependency is resolved to its latest published version. Packages already
seen on the path back to the root are marked circular; packages the registry
doesn't know are marked not found.

Examples:
  nugettree tree Newtonsoft.Json
  nugettree tree Serilog --version 3.1.1 --framework net8.0
  nugettree tree Polly --json -o polly.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.version, "version", "", "package version (latest if empty)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "emit the tree as JSON")

	return cmd
}

// runTree resolves the tree and writes it to opts.output (or stdout).
func (c *CLI) runTree(ctx context.Context, pkg string, opts treeOpts) error {
	root, err := c.resolveTree(ctx, pkg, opts.version)
	if err != nil {
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(root); err != nil {
			return err
		}
	} else {
		renderTree(out, root)
	}

	if opts.output != "" {
		c.Logger.Infof("Wrote tree to %s", opts.output)
	}
	return nil
}

// resolveTree runs resolution with a spinner and progress logging.
func (c *CLI) resolveTree(ctx context.Context, pkg, version string) (*deps.Node, error) {
	client, closer, err := c.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	c.Logger.Infof("Resolving %s from %s", pkg, client.Source())

	spinner := newSpinner(ctx, fmt.Sprintf("Resolving %s...", pkg))
	spinner.Start()

	prog := newProgress(c.Logger)
	root, err := deps.Resolve(ctx, client, pkg, version, c.framework())
	if err != nil {
		spinner.StopWithError("Resolution failed")
		return nil, err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Resolved %d packages", root.Count()))

	return root, nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

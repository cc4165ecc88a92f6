package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"nugettree/pkg/deps"
)

// Export formats supported by the export command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	version string
	format  string
	output  string
}

// exportCommand creates the export command for writing trees as DOT or SVG.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "export <package>",
		Short: "Export a dependency tree as Graphviz DOT or SVG",
		Long: `Export the resolved dependency tree in Graphviz DOT format, or render
it directly to SVG.

Examples:
  nugettree export Newtonsoft.Json                   # DOT to stdout
  nugettree export Serilog --format svg -o deps.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.version, "version", "", "package version (latest if empty)")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format: dot (default), svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func validateFormat(format string) error {
	switch format {
	case formatDOT, formatSVG:
		return nil
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, formatDOT, formatSVG)
}

// runExport resolves the tree and writes it in the requested format.
func (c *CLI) runExport(ctx context.Context, pkg string, opts exportOpts) error {
	root, err := c.resolveTree(ctx, pkg, opts.version)
	if err != nil {
		return err
	}

	data := []byte(toDOT(root))
	if opts.format == formatSVG {
		data, err = renderSVG(ctx, string(data))
		if err != nil {
			return err
		}
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Exported %s", pkg)
		printFile(opts.output)
	}
	return nil
}

// toDOT converts a dependency tree to Graphviz DOT format.
//
// The same package can appear at several positions in the tree, so every
// node gets a synthetic id and the package identity goes into the label.
// Missing packages are drawn dashed red, circular references dashed grey;
// edges are labeled with the requested version range.
func toDOT(root *deps.Node) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	var next int
	writeDOTNode(&buf, root, &next)

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTNode(buf *bytes.Buffer, n *deps.Node, next *int) string {
	id := fmt.Sprintf("n%d", *next)
	*next++

	fmt.Fprintf(buf, "  %s [%s];\n", id, strings.Join(dotAttrs(n), ", "))
	for _, child := range n.Children {
		childID := writeDOTNode(buf, child, next)
		if child.Range != "" {
			fmt.Fprintf(buf, "  %s -> %s [label=%q, fontsize=10];\n", id, childID, child.Range)
		} else {
			fmt.Fprintf(buf, "  %s -> %s;\n", id, childID)
		}
	}
	return id
}

func dotAttrs(n *deps.Node) []string {
	label := n.ID
	if n.Version != "" {
		label += "\n" + n.Version
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Missing:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "color=red", "fontcolor=red")
	case n.Circular:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// renderSVG renders a DOT graph to SVG using Graphviz.
func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

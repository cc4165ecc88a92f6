package cli

import (
	"fmt"
	"io"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/lipgloss"

	"nugettree/pkg/deps"
)

// Tree drawing glyphs.
const (
	glyphBranch = "├── "
	glyphLast   = "└── "
	glyphPipe   = "│   "
	glyphSpace  = "    "
)

// renderTree writes the dependency tree to w with box-drawing connectors.
// Versions are styled, prerelease versions highlighted, and terminal nodes
// carry a "(circular)" or "(not found)" marker.
func renderTree(w io.Writer, root *deps.Node) {
	fmt.Fprintln(w, nodeLabel(root))
	renderChildren(w, root, "")
}

func renderChildren(w io.Writer, n *deps.Node, prefix string) {
	for i, child := range n.Children {
		connector := glyphBranch
		childPrefix := prefix + glyphPipe
		if i == len(n.Children)-1 {
			connector = glyphLast
			childPrefix = prefix + glyphSpace
		}
		fmt.Fprintln(w, prefix+StyleDim.Render(connector)+nodeLabel(child))
		renderChildren(w, child, childPrefix)
	}
}

// nodeLabel formats a single node as "id version (range)" with markers for
// circular and missing packages.
func nodeLabel(n *deps.Node) string {
	label := stylePackage.Render(n.ID)
	if n.Version != "" {
		label += " " + versionStyle(n.Version).Render(n.Version)
	}
	if n.Range != "" && n.Range != "*" {
		label += " " + StyleDim.Render("("+n.Range+")")
	}
	switch {
	case n.Missing:
		label += " " + styleMissing.Render("(not found)")
	case n.Circular:
		label += " " + StyleWarning.Render("(circular)")
	}
	return label
}

// versionStyle highlights prerelease versions.
func versionStyle(version string) lipgloss.Style {
	if isPrerelease(version) {
		return stylePrerelease
	}
	return styleVersion
}

// isPrerelease reports whether version carries a semver prerelease tag.
// Versions that don't parse as semver (the registry allows four-part
// versions) count as stable.
func isPrerelease(version string) bool {
	v, err := semver.NewVersion(version)
	return err == nil && v.Prerelease() != ""
}

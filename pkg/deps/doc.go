// Package deps expands a resolved package into its transitive dependency tree.
//
// # Overview
//
// The resolver walks dependencies depth-first and strictly sequentially: one
// registry fetch at a time, suspending only at network boundaries. Each
// direct dependency becomes one tree node; dependencies of dependencies are
// always resolved at their own latest version for the active framework,
// never pinned by the parent's declared range.
//
// # Cycle detection
//
// Every root-to-leaf path carries a [Visited] set of "{id}@{version}" keys.
// A fetched dependency whose key is already on the path becomes a terminal
// circular-reference node and is not expanded. The set is copied, not
// shared, when recursing, so sibling branches stay independent: the same
// package may legitimately appear (and expand) under unrelated branches.
//
// # Presentation
//
// [Expand] appends nodes through the [Sink] interface, so a presentation
// layer can own node creation entirely. [Node] doubles as the default
// in-memory sink and is what [Resolve] returns.
//
//	client := nuget.NewClient("", cache.NewNullCache(), 0)
//	tree, err := deps.Resolve(ctx, client, "Serilog", "", "net8.0")
package deps

import (
	"context"

	"nugettree/pkg/nuget"
)

// Fetcher retrieves resolved package metadata from a registry.
// *nuget.Client implements it.
type Fetcher interface {
	// FetchPackage resolves (id, version, framework) into package metadata.
	// An empty version means "latest". Returns nuget.ErrNotFound when the
	// package or version doesn't exist.
	FetchPackage(ctx context.Context, id, version, framework string) (*nuget.PackageInfo, error)
}

package deps

import (
	"context"
	"errors"
	"time"

	"nugettree/pkg/nuget"
	"nugettree/pkg/observability"
)

// Resolve fetches the root package and expands its full dependency tree.
//
// An empty version selects the latest published version; the framework
// filter is propagated unchanged to every transitive fetch. Returns
// nuget.ErrNotFound when the root package itself doesn't exist.
func Resolve(ctx context.Context, f Fetcher, id, version, framework string) (*Node, error) {
	observability.Resolve().OnResolveStart(ctx, id)
	start := time.Now()

	pkg, err := f.FetchPackage(ctx, id, version, framework)
	if err != nil {
		observability.Resolve().OnResolveComplete(ctx, id, 0, time.Since(start), err)
		return nil, err
	}

	root := &Node{ID: pkg.ID, Version: pkg.Version}
	visited := Visited{}
	visited.Add(pkg.ID, pkg.Version)

	err = Expand(ctx, f, root, pkg, framework, visited)
	observability.Resolve().OnResolveComplete(ctx, id, root.Count(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// Expand walks pkg's direct dependencies depth-first and appends one node
// per dependency to sink.
//
// Dependencies are fetched unpinned (latest for the framework, never
// range-resolved). A dependency the registry doesn't know becomes a
// terminal Missing node; a fetched dependency already present in visited
// becomes a terminal Circular node. Otherwise the dependency is appended
// and expanded recursively with its own copy of the visited set, so sibling
// branches never share visited state.
//
// Any other fetch error aborts the whole expansion; nodes appended so far
// are left intact.
//
// A nil visited set is treated as empty.
func Expand(ctx context.Context, f Fetcher, sink Sink, pkg *nuget.PackageInfo, framework string, visited Visited) error {
	if visited == nil {
		visited = Visited{}
	}
	for _, dep := range pkg.Dependencies {
		if err := ctx.Err(); err != nil {
			return err
		}

		resolved, err := f.FetchPackage(ctx, dep.ID, "", framework)
		if err != nil {
			if errors.Is(err, nuget.ErrNotFound) {
				sink.Child(Node{ID: dep.ID, Range: dep.Range, Missing: true})
				continue
			}
			return err
		}

		if visited.Has(resolved.ID, resolved.Version) {
			sink.Child(Node{ID: resolved.ID, Version: resolved.Version, Range: dep.Range, Circular: true})
			continue
		}

		child := sink.Child(Node{ID: resolved.ID, Version: resolved.Version, Range: dep.Range})
		branch := visited.Clone()
		branch.Add(resolved.ID, resolved.Version)
		if err := Expand(ctx, f, child, resolved, framework, branch); err != nil {
			return err
		}
	}
	return nil
}

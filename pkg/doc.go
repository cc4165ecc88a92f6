// Package pkg provides the core libraries for nugettree dependency resolution.
//
// # Overview
//
// Nugettree resolves the full transitive dependency tree of NuGet packages
// from any v3 package registry. The pkg directory is organized into four
// areas:
//
//  1. [nuget] - Registry client (service index, registration metadata)
//  2. [deps] - Tree resolution (depth-first expansion, cycle detection)
//  3. [cache] - Response cache backends (null, file, Redis)
//  4. [observability] - Optional instrumentation hooks
//
// # Architecture
//
// The typical data flow through nugettree:
//
//	NuGet v3 Registry
//	         ↓
//	    [nuget] package (fetch package metadata)
//	         ↓
//	    [deps] package (expand the dependency tree)
//	         ↓
//	    text/JSON/DOT/SVG output
//
// # Quick Start
//
// Resolve a package's dependency tree:
//
//	import (
//	    "context"
//	    "time"
//
//	    "nugettree/pkg/cache"
//	    "nugettree/pkg/deps"
//	    "nugettree/pkg/nuget"
//	)
//
//	client := nuget.NewClient("", cache.NewNullCache(), 24*time.Hour)
//	root, err := deps.Resolve(context.Background(), client, "Newtonsoft.Json", "", "net8.0")
//
// # Main Packages
//
// [nuget] - NuGet v3 registry client. Discovers the registration base URL
// from the service index, walks paginated registration data, and selects
// the dependency group matching a target framework.
//
// [deps] - Depth-first tree resolution. Each dependency resolves to its
// latest published version; packages repeated on a path are marked circular
// and unknown packages are marked missing.
//
// [cache] - Cache backends behind a single interface: NullCache (no
// caching, the default), FileCache (content-addressed files under
// ~/.cache/nugettree), and RedisCache.
//
// [observability] - Hooks for cache and HTTP events plus resolution
// tracking. No-op by default; backends are registered by main.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...        # All tests
//	go test ./pkg/nuget/...  # Specific package
//
// [nuget]: https://pkg.go.dev/nugettree/pkg/nuget
// [deps]: https://pkg.go.dev/nugettree/pkg/deps
// [cache]: https://pkg.go.dev/nugettree/pkg/cache
// [observability]: https://pkg.go.dev/nugettree/pkg/observability
package pkg

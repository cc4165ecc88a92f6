// Package nuget provides an HTTP client for the NuGet v3 registration API.
//
// # Overview
//
// This package fetches package metadata from a NuGet v3 registry (by default
// https://api.nuget.org). The v3 protocol is a three-tier document chain:
//
//	service index → registration index → registration pages → catalog entries
//
// The service index lists the registry's resources; the client locates the
// RegistrationsBaseUrl resource there, once per process, and memoizes it.
// The registration index for a package lists its version history as pages,
// each either carrying its leaves inline or pointing at a separate page
// document.
//
// # Usage
//
//	client := nuget.NewClient("", cache.NewNullCache(), 0)
//
//	pkg, err := client.FetchPackage(ctx, "Newtonsoft.Json", "", "net8.0")
//	if errors.Is(err, nuget.ErrNotFound) {
//	    // package or version does not exist
//	}
//
//	fmt.Println(pkg.ID, pkg.Version)
//	for _, d := range pkg.Dependencies {
//	    fmt.Println(d.ID, d.Range)
//	}
//
// # Version selection
//
// An explicit version is matched case-insensitively against the flattened
// leaf sequence. With no version requested the last leaf wins: registries
// return versions in ascending order, so last means latest.
//
// # Framework selection
//
// Each catalog entry carries per-framework dependency groups. The selector
// walks a fixed fallback chain (exact match, netstandard family, agnostic
// group, lexicographically greatest moniker) to approximate compatibility
// without a full framework matrix. See [SelectDependencyGroup].
package nuget

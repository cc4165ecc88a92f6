package nuget

// Wire types for the NuGet v3 registration API. Only the fields the
// resolver consumes are declared; everything else in the documents is
// ignored during decoding.

// serviceIndex is the registry entry point listing available resources.
type serviceIndex struct {
	Resources []serviceResource `json:"resources"`
}

// serviceResource describes one capability of the registry, e.g. the
// registration base URL or the search endpoint.
type serviceResource struct {
	ID   string `json:"@id"`
	Type string `json:"@type"`
}

// registrationIndex is the per-package document listing version pages.
type registrationIndex struct {
	Items []registrationPage `json:"items"`
}

// registrationPage is a contiguous slice of a package's version history.
// Small packages inline their leaves; large ones only carry the page URL.
type registrationPage struct {
	ID    string             `json:"@id"`
	Items []registrationLeaf `json:"items"`
}

// registrationLeaf describes exactly one published version.
type registrationLeaf struct {
	CatalogEntry catalogEntry `json:"catalogEntry"`
}

// catalogEntry holds the per-version metadata the resolver needs.
type catalogEntry struct {
	ID               string            `json:"id"`
	Version          string            `json:"version"`
	DependencyGroups []DependencyGroup `json:"dependencyGroups"`
}

// DependencyGroup is the set of dependencies declared for one target
// framework. An empty TargetFramework means framework-agnostic.
type DependencyGroup struct {
	TargetFramework string            `json:"targetFramework"`
	Dependencies    []groupDependency `json:"dependencies"`
}

// groupDependency is a single declared dependency within a group.
// Range may be empty when the author published without a constraint.
type groupDependency struct {
	ID    string `json:"id"`
	Range string `json:"range"`
}

package nuget

import "strings"

// netstandardPrefix marks the .NET Standard family of monikers, the
// broadest binary-compatibility tier a package can target.
const netstandardPrefix = "netstandard"

// SelectDependencyGroup picks the dependency group that best matches the
// requested target framework. Registries don't guarantee a group for every
// framework, so selection walks a fixed fallback chain, first match wins:
//
//  1. no framework requested: the group with the lexicographically greatest
//     moniker (an approximation of "most capable"; agnostic groups are not
//     specially favored)
//  2. exact case-insensitive moniker match
//  3. first group in the netstandard family
//  4. first framework-agnostic group (empty moniker)
//  5. rule 1 again
//
// Returns nil only when groups is empty. The lexicographic heuristic in
// rule 1 is intentionally not a true framework-compatibility ordering;
// callers depend on its exact behavior.
func SelectDependencyGroup(groups []DependencyGroup, framework string) *DependencyGroup {
	if len(groups) == 0 {
		return nil
	}
	if framework == "" {
		return greatestMoniker(groups)
	}

	for i := range groups {
		if strings.EqualFold(groups[i].TargetFramework, framework) {
			return &groups[i]
		}
	}
	for i := range groups {
		if strings.HasPrefix(strings.ToLower(groups[i].TargetFramework), netstandardPrefix) {
			return &groups[i]
		}
	}
	for i := range groups {
		if groups[i].TargetFramework == "" {
			return &groups[i]
		}
	}
	return greatestMoniker(groups)
}

func greatestMoniker(groups []DependencyGroup) *DependencyGroup {
	best := 0
	for i := 1; i < len(groups); i++ {
		if groups[i].TargetFramework > groups[best].TargetFramework {
			best = i
		}
	}
	return &groups[best]
}

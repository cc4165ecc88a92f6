package nuget

import "testing"

func group(tf string, deps ...string) DependencyGroup {
	g := DependencyGroup{TargetFramework: tf}
	for _, d := range deps {
		g.Dependencies = append(g.Dependencies, groupDependency{ID: d})
	}
	return g
}

func TestSelectDependencyGroup_NoFrameworkPicksGreatestMoniker(t *testing.T) {
	groups := []DependencyGroup{
		group("net6.0", "a"),
		group("netstandard2.0", "b"),
		group("net8.0", "c"),
		group("", "d"),
	}

	got := SelectDependencyGroup(groups, "")
	if got == nil || got.TargetFramework != "netstandard2.0" {
		t.Fatalf("expected lexicographically greatest moniker netstandard2.0, got %+v", got)
	}
}

func TestSelectDependencyGroup_ExactMatchIsCaseInsensitive(t *testing.T) {
	groups := []DependencyGroup{
		group("netstandard2.0", "a"),
		group("net8.0", "b"),
	}

	got := SelectDependencyGroup(groups, "NET8.0")
	if got == nil || got.TargetFramework != "net8.0" {
		t.Fatalf("expected exact match net8.0, got %+v", got)
	}
}

func TestSelectDependencyGroup_NetstandardFallback(t *testing.T) {
	// No net6.0 group exists: the netstandard family wins over both the
	// agnostic group and the newer net8.0 group.
	groups := []DependencyGroup{
		group("net8.0", "a"),
		group("netstandard2.0", "b"),
		group("", "c"),
	}

	got := SelectDependencyGroup(groups, "net6.0")
	if got == nil || got.TargetFramework != "netstandard2.0" {
		t.Fatalf("expected netstandard2.0 fallback, got %+v", got)
	}
}

func TestSelectDependencyGroup_AgnosticFallback(t *testing.T) {
	groups := []DependencyGroup{
		group("net472", "a"),
		group("", "b"),
	}

	got := SelectDependencyGroup(groups, "net6.0")
	if got == nil || got.TargetFramework != "" {
		t.Fatalf("expected framework-agnostic group, got %+v", got)
	}
}

func TestSelectDependencyGroup_LastResortGreatestMoniker(t *testing.T) {
	// No exact match, no netstandard, no agnostic group.
	groups := []DependencyGroup{
		group("net472", "a"),
		group("net48", "b"),
	}

	got := SelectDependencyGroup(groups, "net6.0")
	if got == nil || got.TargetFramework != "net48" {
		t.Fatalf("expected net48, got %+v", got)
	}
}

func TestSelectDependencyGroup_Empty(t *testing.T) {
	if got := SelectDependencyGroup(nil, "net8.0"); got != nil {
		t.Fatalf("expected nil for no groups, got %+v", got)
	}
}

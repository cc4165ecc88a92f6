package nuget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"nugettree/pkg/cache"
)

// fakeRegistry serves a minimal NuGet v3 registry from in-memory documents.
type fakeRegistry struct {
	mux          *http.ServeMux
	server       *httptest.Server
	indexFetches atomic.Int32
}

func newFakeRegistry(t *testing.T) *fakeRegistry {
	t.Helper()
	f := &fakeRegistry{mux: http.NewServeMux()}
	f.server = httptest.NewServer(f.mux)
	t.Cleanup(f.server.Close)

	f.mux.HandleFunc("/v3/index.json", func(w http.ResponseWriter, r *http.Request) {
		f.indexFetches.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"resources": []map[string]string{
				{"@id": f.server.URL + "/v3/search", "@type": "SearchQueryService"},
				{"@id": f.server.URL + "/v3/registration/", "@type": "RegistrationsBaseUrl"},
			},
		})
	})
	return f
}

func (f *fakeRegistry) client() *Client {
	return NewClient(f.server.URL+"/v3/index.json", cache.NewNullCache(), 0)
}

// addPackage registers an index document with inline leaves, one per version.
func (f *fakeRegistry) addPackage(id string, entries ...catalogEntry) {
	leaves := make([]registrationLeaf, len(entries))
	for i, e := range entries {
		leaves[i] = registrationLeaf{CatalogEntry: e}
	}
	f.mux.HandleFunc("/v3/registration/"+id+"/index.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(registrationIndex{Items: []registrationPage{{Items: leaves}}})
	})
}

func entry(id, version string, groups ...DependencyGroup) catalogEntry {
	return catalogEntry{ID: id, Version: version, DependencyGroups: groups}
}

func TestFetchPackage_LatestVersion(t *testing.T) {
	f := newFakeRegistry(t)
	f.addPackage("serilog",
		entry("Serilog", "1.0.0"),
		entry("Serilog", "1.2.0"),
		entry("Serilog", "2.0.0"),
	)

	info, err := f.client().FetchPackage(context.Background(), "Serilog", "", "")
	if err != nil {
		t.Fatalf("FetchPackage: %v", err)
	}
	if info.ID != "Serilog" || info.Version != "2.0.0" {
		t.Errorf("expected Serilog 2.0.0, got %s %s", info.ID, info.Version)
	}
	if info.Dependencies == nil {
		t.Error("dependencies must never be nil")
	}
}

func TestFetchPackage_ExplicitVersionAnyCasing(t *testing.T) {
	f := newFakeRegistry(t)
	f.addPackage("serilog",
		entry("Serilog", "1.0.0"),
		entry("Serilog", "1.2.0-RC1"),
		entry("Serilog", "2.0.0"),
	)

	info, err := f.client().FetchPackage(context.Background(), "Serilog", "1.2.0-rc1", "")
	if err != nil {
		t.Fatalf("FetchPackage: %v", err)
	}
	if info.Version != "1.2.0-RC1" {
		t.Errorf("expected leaf version 1.2.0-RC1, got %s", info.Version)
	}
}

func TestFetchPackage_VersionNotFound(t *testing.T) {
	f := newFakeRegistry(t)
	f.addPackage("serilog", entry("Serilog", "1.0.0"))

	_, err := f.client().FetchPackage(context.Background(), "Serilog", "9.9.9", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchPackage_PackageNotFound(t *testing.T) {
	f := newFakeRegistry(t)

	_, err := f.client().FetchPackage(context.Background(), "no.such.package", "", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchPackage_EmptyIndexIsNotFound(t *testing.T) {
	f := newFakeRegistry(t)
	f.mux.HandleFunc("/v3/registration/hollow/index.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(registrationIndex{})
	})

	_, err := f.client().FetchPackage(context.Background(), "Hollow", "", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty index, got %v", err)
	}
}

func TestFetchPackage_DependencyMapping(t *testing.T) {
	f := newFakeRegistry(t)
	f.addPackage("root", entry("Root", "1.0.0", DependencyGroup{
		TargetFramework: "net8.0",
		Dependencies: []groupDependency{
			{ID: "A", Range: "[1.0.0, )"},
			{ID: "B"}, // no range published
		},
	}))

	info, err := f.client().FetchPackage(context.Background(), "Root", "", "net8.0")
	if err != nil {
		t.Fatalf("FetchPackage: %v", err)
	}
	want := []Dependency{{ID: "A", Range: "[1.0.0, )"}, {ID: "B", Range: "*"}}
	if len(info.Dependencies) != len(want) {
		t.Fatalf("expected %d dependencies, got %d", len(want), len(info.Dependencies))
	}
	for i, d := range info.Dependencies {
		if d != want[i] {
			t.Errorf("dependency %d = %+v, want %+v", i, d, want[i])
		}
	}
}

func TestFetchPackage_IdentityFallback(t *testing.T) {
	f := newFakeRegistry(t)
	f.addPackage("ghost", catalogEntry{}) // registry omitted id and version

	info, err := f.client().FetchPackage(context.Background(), "Ghost", "", "")
	if err != nil {
		t.Fatalf("FetchPackage: %v", err)
	}
	if info.ID != "ghost" {
		t.Errorf("expected fallback to requested id, got %q", info.ID)
	}
	if info.Version != "unknown" {
		t.Errorf("expected fallback version unknown, got %q", info.Version)
	}
}

func TestFetchPackage_PaginatedLeaves(t *testing.T) {
	f := newFakeRegistry(t)

	// Page 1 is external, page 2 is inline, page 3 yields nothing and is skipped.
	f.mux.HandleFunc("/v3/registration/paged/page1.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(registrationPage{Items: []registrationLeaf{
			{CatalogEntry: entry("Paged", "1.0.0")},
		}})
	})
	f.mux.HandleFunc("/v3/registration/paged/index.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(registrationIndex{Items: []registrationPage{
			{ID: f.server.URL + "/v3/registration/paged/page1.json"},
			{Items: []registrationLeaf{{CatalogEntry: entry("Paged", "2.0.0")}}},
			{},
		}})
	})

	info, err := f.client().FetchPackage(context.Background(), "Paged", "", "")
	if err != nil {
		t.Fatalf("FetchPackage: %v", err)
	}
	if info.Version != "2.0.0" {
		t.Errorf("expected last leaf across pages (2.0.0), got %s", info.Version)
	}

	older, err := f.client().FetchPackage(context.Background(), "Paged", "1.0.0", "")
	if err != nil {
		t.Fatalf("FetchPackage 1.0.0: %v", err)
	}
	if older.Version != "1.0.0" {
		t.Errorf("expected externally paged leaf 1.0.0, got %s", older.Version)
	}
}

func TestFetchPackage_ServiceIndexMemoized(t *testing.T) {
	f := newFakeRegistry(t)
	f.addPackage("a", entry("A", "1.0.0"))
	f.addPackage("b", entry("B", "1.0.0"))

	c := f.client()
	ctx := context.Background()
	for _, id := range []string{"A", "B", "A"} {
		if _, err := c.FetchPackage(ctx, id, "", ""); err != nil {
			t.Fatalf("FetchPackage %s: %v", id, err)
		}
	}

	if n := f.indexFetches.Load(); n != 1 {
		t.Errorf("service index should be fetched once, got %d fetches", n)
	}
}

func TestFetchPackage_UnsupportedRegistry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"resources": []map[string]string{
				{"@id": "https://example.test/search", "@type": "SearchQueryService"},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, cache.NewNullCache(), 0)
	_, err := c.FetchPackage(context.Background(), "anything", "", "")
	if !errors.Is(err, ErrUnsupportedRegistry) {
		t.Fatalf("expected ErrUnsupportedRegistry, got %v", err)
	}
}

func TestFetchPackage_CacheBackend(t *testing.T) {
	f := newFakeRegistry(t)
	var regFetches atomic.Int32
	f.mux.HandleFunc("/v3/registration/cached/index.json", func(w http.ResponseWriter, r *http.Request) {
		regFetches.Add(1)
		json.NewEncoder(w).Encode(registrationIndex{Items: []registrationPage{
			{Items: []registrationLeaf{{CatalogEntry: entry("Cached", "1.0.0")}}},
		}})
	})

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	c := NewClient(f.server.URL+"/v3/index.json", backend, time.Hour)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		info, err := c.FetchPackage(ctx, "Cached", "", "")
		if err != nil {
			t.Fatalf("FetchPackage #%d: %v", i, err)
		}
		if info.Version != "1.0.0" {
			t.Fatalf("unexpected version %s", info.Version)
		}
	}
	if n := regFetches.Load(); n != 1 {
		t.Errorf("expected one registration fetch with warm cache, got %d", n)
	}

	// Refresh bypasses the backend.
	c.SetRefresh(true)
	if _, err := c.FetchPackage(ctx, "Cached", "", ""); err != nil {
		t.Fatalf("FetchPackage refresh: %v", err)
	}
	if n := regFetches.Load(); n != 2 {
		t.Errorf("expected refresh to hit the registry, got %d fetches", n)
	}
}

func TestCheckStatus(t *testing.T) {
	cases := []struct {
		code    int
		wantErr error
	}{
		{http.StatusOK, nil},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadGateway, ErrNetwork},
		{http.StatusForbidden, ErrNetwork},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.code), func(t *testing.T) {
			err := checkStatus(tc.code)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestFetchPackage_ServerErrorIsNeverRetried(t *testing.T) {
	f := newFakeRegistry(t)

	// The registry recovers after two failures, but the client must abort on
	// the very first 503 without issuing another request.
	var regFetches atomic.Int32
	f.mux.HandleFunc("/v3/registration/flaky/index.json", func(w http.ResponseWriter, r *http.Request) {
		if regFetches.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(registrationIndex{Items: []registrationPage{
			{Items: []registrationLeaf{{CatalogEntry: entry("Flaky", "1.0.0")}}},
		}})
	})

	_, err := f.client().FetchPackage(context.Background(), "Flaky", "", "")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork on first 503, got %v", err)
	}
	if n := regFetches.Load(); n != 1 {
		t.Errorf("expected exactly one registration fetch, got %d", n)
	}
}

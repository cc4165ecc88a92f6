package nuget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"nugettree/pkg/cache"
	"nugettree/pkg/observability"
)

// DefaultSource is the service index of the public nuget.org registry.
const DefaultSource = "https://api.nuget.org/v3/index.json"

// registrationsResource is the service index resource type the client
// requires. A registry without it cannot serve registration metadata.
const registrationsResource = "RegistrationsBaseUrl"

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or the requested version
	// doesn't exist in the registry.
	ErrNotFound = errors.New("package not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrUnsupportedRegistry is returned when the service index lacks the
	// RegistrationsBaseUrl resource. This is a configuration error and is
	// never retried.
	ErrUnsupportedRegistry = errors.New("unsupported registry")
)

// unknownVersion substitutes for a catalog entry that omits its version.
const unknownVersion = "unknown"

// Dependency is a single declared dependency of a resolved package.
// Range is the requested version range string, "*" when the registry
// declared none.
type Dependency struct {
	ID    string `json:"id"`
	Range string `json:"range"`
}

// PackageInfo is the resolved metadata for one package version.
//
// ID and Version are never empty: when the registry omits them the client
// falls back to the requested id and the literal "unknown". Dependencies is
// never nil once returned, but may be empty. The struct is never mutated
// after construction and is safe for concurrent reads.
type PackageInfo struct {
	ID           string       `json:"id"`
	Version      string       `json:"version"`
	Dependencies []Dependency `json:"dependencies"`
}

// Client provides access to a NuGet v3 registry.
//
// The registration base URL is resolved from the service index on first use
// and memoized for the client's lifetime behind a one-time-initialization
// guard, so the client is safe for concurrent use.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	refresh bool
	source  string

	mu      sync.Mutex
	regBase string
}

// NewClient creates a registry client for the given service index URL.
//
// Parameters:
//   - source: service index URL; "" selects [DefaultSource]
//   - backend: cache backend for fetched packages (use cache.NewNullCache()
//     to always hit the network)
//   - ttl: how long cached packages stay fresh
func NewClient(source string, backend cache.Cache, ttl time.Duration) *Client {
	if source == "" {
		source = DefaultSource
	}
	return &Client{
		http:   &http.Client{Timeout: httpTimeout},
		cache:  backend,
		ttl:    ttl,
		source: source,
	}
}

// SetRefresh makes every subsequent fetch bypass the cache backend.
func (c *Client) SetRefresh(refresh bool) { c.refresh = refresh }

// Source returns the service index URL this client talks to.
func (c *Client) Source() string { return c.source }

// FetchPackage resolves (id, version, framework) into a PackageInfo.
//
// Package ids are case-insensitive; the id is lowercased before building
// registration URLs. An empty version selects the latest published leaf.
// The framework moniker steers dependency group selection; "" picks the
// best guess (see [SelectDependencyGroup]).
//
// Returns:
//   - [ErrNotFound] if the package or requested version doesn't exist
//   - [ErrUnsupportedRegistry] if the service index lacks a registration resource
//   - [ErrNetwork] for HTTP failures
//
// The returned PackageInfo is never nil when err is nil.
func (c *Client) FetchPackage(ctx context.Context, id, version, framework string) (*PackageInfo, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	key := fmt.Sprintf("nuget:%s@%s|%s", id, strings.ToLower(version), strings.ToLower(framework))

	var info PackageInfo
	err := c.cached(ctx, key, &info, func() error {
		return c.fetch(ctx, id, version, framework, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// cached serves v from the cache backend when possible, otherwise runs fetch
// exactly once and stores the result. A failed fetch is never retried and
// errors are never cached.
func (c *Client) cached(ctx context.Context, key string, v any, fetch func() error) error {
	if !c.refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "package")
			return json.Unmarshal(data, v)
		}
		observability.Cache().OnCacheMiss(ctx, "package")
	}
	if err := fetch(); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
		observability.Cache().OnCacheSet(ctx, "package", len(data))
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, id, version, framework string, info *PackageInfo) error {
	base, err := c.registrationBase(ctx)
	if err != nil {
		return err
	}

	var index registrationIndex
	url := fmt.Sprintf("%s%s/index.json", base, id)
	if err := c.get(ctx, url, &index); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %s", err, id)
		}
		return err
	}

	leaves, err := c.flattenPages(ctx, index.Items)
	if err != nil {
		return err
	}

	leaf := selectLeaf(leaves, version)
	if leaf == nil {
		if version != "" {
			return fmt.Errorf("%w: %s %s", ErrNotFound, id, version)
		}
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	*info = packageFromEntry(id, leaf.CatalogEntry, framework)
	return nil
}

// registrationBase resolves the registry's registration base URL from the
// service index, exactly once per client.
func (c *Client) registrationBase(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.regBase != "" {
		return c.regBase, nil
	}

	var index serviceIndex
	if err := c.get(ctx, c.source, &index); err != nil {
		return "", fmt.Errorf("service index: %w", err)
	}
	for _, r := range index.Resources {
		if r.Type == registrationsResource {
			base := r.ID
			if !strings.HasSuffix(base, "/") {
				base += "/"
			}
			c.regBase = base
			return base, nil
		}
	}
	return "", fmt.Errorf("%w: %s has no %s resource", ErrUnsupportedRegistry, c.source, registrationsResource)
}

// flattenPages assembles the full leaf sequence in registry order. Pages
// carry their leaves inline or must be fetched by their own URL; pages that
// yield neither are skipped.
func (c *Client) flattenPages(ctx context.Context, pages []registrationPage) ([]registrationLeaf, error) {
	var leaves []registrationLeaf
	for _, page := range pages {
		items := page.Items
		if len(items) == 0 && page.ID != "" {
			var fetched registrationPage
			if err := c.get(ctx, page.ID, &fetched); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("registration page: %w", err)
			}
			items = fetched.Items
		}
		leaves = append(leaves, items...)
	}
	return leaves, nil
}

// selectLeaf picks the leaf for the requested version, or the last leaf
// (latest) when no version was requested.
func selectLeaf(leaves []registrationLeaf, version string) *registrationLeaf {
	if len(leaves) == 0 {
		return nil
	}
	if version == "" {
		return &leaves[len(leaves)-1]
	}
	for i := range leaves {
		if strings.EqualFold(leaves[i].CatalogEntry.Version, version) {
			return &leaves[i]
		}
	}
	return nil
}

// packageFromEntry maps a catalog entry into the resolved domain object,
// applying the identity fallbacks and the "*" default range.
func packageFromEntry(requestedID string, entry catalogEntry, framework string) PackageInfo {
	id := entry.ID
	if id == "" {
		id = requestedID
	}
	version := entry.Version
	if version == "" {
		version = unknownVersion
	}

	deps := make([]Dependency, 0)
	if group := SelectDependencyGroup(entry.DependencyGroups, framework); group != nil {
		for _, d := range group.Dependencies {
			r := d.Range
			if r == "" {
				r = "*"
			}
			deps = append(deps, Dependency{ID: d.ID, Range: r})
		}
	}

	return PackageInfo{ID: id, Version: version, Dependencies: deps}
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// checkStatus maps HTTP status codes to the error taxonomy. Transient
// server errors are plain network errors: a single failed fetch aborts the
// whole resolution attempt, nothing is retried.
func checkStatus(code int) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

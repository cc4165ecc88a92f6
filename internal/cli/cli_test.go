package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"nugettree/internal/config"
	"nugettree/pkg/cache"
)

func TestCacheDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "nugettree") {
		t.Errorf("cacheDir = %q", dir)
	}
}

func TestCacheDirFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "/tmp/home")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != filepath.Join("/tmp/home", ".cache", "nugettree") {
		t.Errorf("cacheDir = %q", dir)
	}
}

func TestNewBackendFallsBackWithoutCacheDir(t *testing.T) {
	// No XDG dir and no home dir: the file backend cannot be placed
	// anywhere, so caching degrades to the null backend.
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")

	c := New(io.Discard, log.InfoLevel)
	c.cfg.Cache.Backend = config.BackendFile

	backend, err := c.newBackend(context.Background())
	if err != nil {
		t.Fatalf("newBackend: %v", err)
	}
	defer backend.Close()

	if _, ok := backend.(*cache.NullCache); !ok {
		t.Errorf("expected NullCache fallback, got %T", backend)
	}
}

func TestNewBackendNoCacheFlagWins(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.cfg.Cache.Backend = config.BackendFile
	c.flags.noCache = true

	backend, err := c.newBackend(context.Background())
	if err != nil {
		t.Fatalf("newBackend: %v", err)
	}
	defer backend.Close()

	if _, ok := backend.(*cache.NullCache); !ok {
		t.Errorf("--no-cache should force NullCache, got %T", backend)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"tree", "info", "export", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestSourceFlagOverridesConfig(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.cfg.Source = "https://config.example/index.json"

	if got := c.source(); got != "https://config.example/index.json" {
		t.Errorf("source = %q, want config value", got)
	}

	c.flags.source = "https://flag.example/index.json"
	if got := c.source(); got != "https://flag.example/index.json" {
		t.Errorf("source = %q, want flag value", got)
	}
}

func TestFrameworkFlagOverridesConfig(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.cfg.Framework = "netstandard2.0"

	if got := c.framework(); got != "netstandard2.0" {
		t.Errorf("framework = %q, want config value", got)
	}

	c.flags.framework = "net8.0"
	if got := c.framework(); got != "net8.0" {
		t.Errorf("framework = %q, want flag value", got)
	}
}

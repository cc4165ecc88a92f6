// Package cli implements the nugettree command-line interface.
//
// This package provides commands for resolving NuGet dependency trees,
// inspecting single packages, exporting trees as DOT or SVG, serving the
// resolver over HTTP, and managing the response cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - tree: Resolve and display a package's full dependency tree
//   - info: Show resolved metadata for a single package version
//   - export: Write a dependency tree as Graphviz DOT or SVG
//   - serve: Expose resolution over an HTTP API
//   - cache: Manage the response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"nugettree/internal/config"
	"nugettree/pkg/buildinfo"
	"nugettree/pkg/cache"
	"nugettree/pkg/nuget"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nugettree"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg   config.Config
	flags rootFlags
}

// rootFlags are the persistent flags shared by every command. They override
// the corresponding config file values.
type rootFlags struct {
	configPath string
	source     string
	framework  string
	noCache    bool
	refresh    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "nugettree",
		Short:        "Nugettree resolves NuGet dependency trees",
		Long:         `Nugettree is a CLI tool for resolving and visualizing the full transitive dependency tree of NuGet packages, straight from any v3 package registry.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.flags.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default ~/.config/nugettree/config.toml)")
	pf.StringVar(&c.flags.source, "source", "", "service index URL (default nuget.org)")
	pf.StringVarP(&c.flags.framework, "framework", "f", "", "target framework moniker (e.g. net8.0)")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "disable the response cache")
	pf.BoolVar(&c.flags.refresh, "refresh", false, "bypass cached responses")

	// Register all subcommands
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient builds a registry client from the merged config and flags.
// The returned closer releases the cache backend and must always be called.
func (c *CLI) newClient(ctx context.Context) (*nuget.Client, io.Closer, error) {
	backend, err := c.newBackend(ctx)
	if err != nil {
		return nil, nil, err
	}

	client := nuget.NewClient(c.source(), backend, c.cfg.Cache.TTL.Value())
	client.SetRefresh(c.flags.refresh)
	return client, backend, nil
}

// newBackend selects the cache backend. Caching is off unless the config
// enables a backend, and --no-cache always wins.
func (c *CLI) newBackend(ctx context.Context) (cache.Cache, error) {
	if c.flags.noCache {
		return cache.NewNullCache(), nil
	}

	switch c.cfg.Cache.Backend {
	case config.BackendFile:
		dir, err := cacheDir()
		if err != nil {
			printWarning("Cache directory unavailable, caching disabled: %v", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, c.cfg.Cache.RedisAddr, c.cfg.Cache.RedisPassword, c.cfg.Cache.RedisDB)
	default:
		return cache.NewNullCache(), nil
	}
}

// source returns the effective service index URL (flag over config).
func (c *CLI) source() string {
	if c.flags.source != "" {
		return c.flags.source
	}
	return c.cfg.Source
}

// framework returns the effective target framework (flag over config).
func (c *CLI) framework() string {
	if c.flags.framework != "" {
		return c.flags.framework
	}
	return c.cfg.Framework
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/nugettree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

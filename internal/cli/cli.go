package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartkit/pkg/buildinfo"
	"github.com/matzehuels/chartkit/pkg/cache"
	"github.com/matzehuels/chartkit/pkg/chart"
	"github.com/matzehuels/chartkit/pkg/definition"
	"github.com/matzehuels/chartkit/pkg/observability"
	"github.com/matzehuels/chartkit/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "chartkit"

	// envRedisURL is the fallback for --redis.
	envRedisURL = "CHARTKIT_REDIS_URL"
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level every render,
// cache and server event is logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= LogDebug {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "chartkit builds ApexCharts option objects from definition files",
		Long:         `chartkit turns TOML, YAML or JSON chart definitions into ApexCharts option objects, scripts and preview pages, and serves them with live reload while you edit.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheOpts selects the cache backend of a command.
type cacheOpts struct {
	noCache  bool
	redisURL string
}

func (o *cacheOpts) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().StringVar(&o.redisURL, "redis", "", "use the Redis cache at this URL (default $"+envRedisURL+")")
}

// newRunner creates a render runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, opts cacheOpts) (*render.Runner, error) {
	ch, keyer, err := c.newCache(ctx, opts)
	if err != nil {
		return nil, err
	}
	return render.NewRunner(ch, keyer, c.Logger), nil
}

// newCache picks the backend: none with --no-cache, Redis when a URL is
// given, the XDG cache directory otherwise. Redis keys are prefixed so a
// shared instance can hold other data.
func (c *CLI) newCache(ctx context.Context, opts cacheOpts) (cache.Cache, cache.Keyer, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil, nil
	}
	url := opts.redisURL
	if url == "" {
		url = os.Getenv(envRedisURL)
	}
	if url != "" {
		ch, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("using redis cache", "url", url)
		return ch, cache.NewScopedKeyer(nil, appName+":"), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil, nil
	}
	ch, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return ch, nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/chartkit/).
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

// =============================================================================
// Definition Helpers
// =============================================================================

// loadCharts loads and builds a definition file.
func loadCharts(path string) (*definition.Document, *chart.Registry, error) {
	doc, err := definition.Load(path)
	if err != nil {
		return nil, nil, err
	}
	reg, err := doc.Build()
	if err != nil {
		return nil, nil, err
	}
	return doc, reg, nil
}

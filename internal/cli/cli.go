// Package cli implements the depfetch command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depfetch/pkg/buildinfo"
	"github.com/matzehuels/depfetch/pkg/cache"
	"github.com/matzehuels/depfetch/pkg/config"
	"github.com/matzehuels/depfetch/pkg/integrations/maven"
	"github.com/matzehuels/depfetch/pkg/observability"
	"github.com/matzehuels/depfetch/pkg/report"
	"github.com/matzehuels/depfetch/pkg/resolve"
	"github.com/matzehuels/depfetch/pkg/selector"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "depfetch"
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
	Logger       *log.Logger
	verbose      bool
	restoreHooks func()
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "depfetch downloads Maven artifacts with their dependencies",
		Long: `depfetch resolves the transitive dependencies of Maven artifacts, prints the
resolved tree and downloads every artifact (optionally with javadoc and
sources) into a local repository.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				h := debugHooks{logger: c.Logger}
				c.restoreHooks = observability.Install(observability.Hooks{Resolve: h, Cache: h, HTTP: h})
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.restoreHooks != nil {
				c.restoreHooks()
				c.restoreHooks = nil
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Flags
// =============================================================================

// resolveFlags are the flags shared by commands that build a resolver.
// Values only override the configuration file when set explicitly.
type resolveFlags struct {
	configPath    string
	extraRepos    string
	dependencyDir string
	withProvided  bool
	allowOptional bool
	excludeScopes []string
	cacheLocation string
	noCache       bool
	concurrency   int
	maxDepth      int
	style         string
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", config.DefaultFile, "configuration file (ignored if missing)")
	fl.StringVar(&f.extraRepos, "extra-repos", config.DefaultExtraRepos, "JSON file of extra repositories [{id, repourl}]")
	fl.StringVarP(&f.dependencyDir, "dependency-dir", "d", config.DefaultLocalRepository, "local repository directory")
	fl.BoolVar(&f.withProvided, "with-provided", false, "keep provided-scope dependencies (disables scope filtering)")
	fl.BoolVar(&f.allowOptional, "allow-optional", false, "keep optional dependencies")
	fl.StringSliceVar(&f.excludeScopes, "exclude-scope", nil, "scopes to exclude (default: provided)")
	fl.StringVar(&f.cacheLocation, "cache-url", "", "POM cache: directory, redis:// URL or \"none\" (default: user cache dir)")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the POM cache")
	fl.IntVar(&f.concurrency, "concurrency", resolve.DefaultConcurrency, "simultaneous downloads")
	fl.IntVar(&f.maxDepth, "max-depth", 0, "maximum tree depth (default: 50)")
	fl.StringVar(&f.style, "style", "ascii", "tree style: ascii or unicode")
}

// loadConfig reads the configuration file and applies explicitly set flags.
func (c *CLI) loadConfig(cmd *cobra.Command, f *resolveFlags) (config.Config, error) {
	cfg, found, err := config.LoadOptional(f.configPath)
	if err != nil {
		return cfg, err
	}
	if found {
		c.Logger.Debug("loaded configuration", "path", f.configPath)
	}

	changed := cmd.Flags().Changed
	if changed("dependency-dir") {
		cfg.LocalRepository = f.dependencyDir
	}
	if changed("with-provided") {
		cfg.Resolve.WithProvided = f.withProvided
	}
	if changed("allow-optional") {
		cfg.Resolve.AllowOptional = f.allowOptional
	}
	if changed("exclude-scope") {
		cfg.Resolve.ExcludeScopes = f.excludeScopes
	}
	if changed("cache-url") {
		cfg.Cache.Location = f.cacheLocation
	}
	if f.noCache {
		cfg.Cache.Location = "none"
	}
	if changed("concurrency") {
		cfg.Resolve.Concurrency = f.concurrency
	}
	if changed("max-depth") {
		cfg.Resolve.MaxDepth = f.maxDepth
	}
	if changed("style") {
		cfg.Resolve.Style = f.style
	}
	return cfg, cfg.Validate()
}

// =============================================================================
// Resolver Factory
// =============================================================================

// env bundles what a command needs to resolve roots.
type env struct {
	resolver  *resolve.Resolver
	transport *maven.Transport
	cache     cache.Cache
}

func (e *env) Close() error {
	return e.cache.Close()
}

// newEnv builds the repository aggregate, POM cache and resolver for cfg.
func (c *CLI) newEnv(cfg config.Config, extraReposPath string) (*env, error) {
	extra, err := config.LoadExtraRepositories(extraReposPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		c.Logger.Debug("no extra repositories", "path", extraReposPath)
	case err != nil:
		return nil, err
	}
	repos := cfg.Aggregate(extra...)
	for _, r := range repos.All() {
		c.Logger.Debug("repository", "id", r.ID, "url", r.URL)
	}

	store, err := cache.Open(cacheLocation(cfg.Cache))
	if err != nil {
		return nil, err
	}

	tr := maven.NewTransport(cfg.LocalRepository)
	src := maven.NewClient(store, cfg.Cache.TTL.Duration, c.Logger)
	sel := selector.FromOptions(cfg.SelectorOptions())
	return &env{
		resolver:  resolve.New(repos, sel, src, tr, c.Logger, cfg.ResolveOptions()),
		transport: tr,
		cache:     store,
	}, nil
}

// openReportSink returns the configured report sinks, or nil if none.
func openReportSink(ctx context.Context, cfg config.ReportConfig) (report.Sink, error) {
	var sinks []report.Sink
	if cfg.Dir != "" {
		s, err := report.NewFileSink(cfg.Dir)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.MongoURI != "" {
		s, err := report.NewMongoSink(ctx, cfg.MongoURI, cfg.Database, cfg.Collection)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if len(sinks) == 0 {
		return nil, nil
	}
	return report.Multi(sinks...), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/depfetch/).
// cacheLocation falls back to the per-user cache directory, or disables
// caching when there is none.
func cacheLocation(cfg config.CacheConfig) string {
	if cfg.Location != "" {
		return cfg.Location
	}
	dir, err := cacheDir()
	if err != nil {
		return "none"
	}
	return dir
}

func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}

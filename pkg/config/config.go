package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/graph"
	"github.com/matzehuels/depfetch/pkg/render/tree"
	"github.com/matzehuels/depfetch/pkg/repository"
	"github.com/matzehuels/depfetch/pkg/resolve"
	"github.com/matzehuels/depfetch/pkg/selector"
)

// Default file names, relative to the working directory.
const (
	DefaultFile            = "depfetch.toml"
	DefaultDependencies    = "dependencies.json"
	DefaultExtraRepos      = "extra-repos.json"
	DefaultLocalRepository = "local-repo"
	DefaultCacheTTL        = 24 * time.Hour
	DefaultServerAddr      = ":8080"
)

// Config is the contents of depfetch.toml.
type Config struct {
	LocalRepository string                  `toml:"local_repository"`
	Repositories    []repository.Repository `toml:"repositories"`
	Resolve         ResolveConfig           `toml:"resolve"`
	Cache           CacheConfig             `toml:"cache"`
	Report          ReportConfig            `toml:"report"`
	Server          ServerConfig            `toml:"server"`
}

// ResolveConfig controls tree pruning and fetching.
type ResolveConfig struct {
	ExcludeScopes []string `toml:"exclude_scopes"`
	WithProvided  bool     `toml:"with_provided"`
	AllowOptional bool     `toml:"allow_optional"`
	Javadoc       bool     `toml:"javadoc"`
	Sources       bool     `toml:"sources"`
	Concurrency   int      `toml:"concurrency"`
	Parallel      bool     `toml:"parallel"`
	MaxDepth      int      `toml:"max_depth"`
	Style         string   `toml:"style"`
}

// CacheConfig selects where POM documents are cached: a directory, a
// redis:// URL, or "none".
type CacheConfig struct {
	Location string   `toml:"location"`
	TTL      Duration `toml:"ttl"`
}

// ReportConfig selects where run reports are written. Both sinks are
// optional and may be combined.
type ReportConfig struct {
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures "depfetch serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "12h" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LocalRepository: DefaultLocalRepository,
		Resolve: ResolveConfig{
			ExcludeScopes: []string{string(artifact.ScopeProvided)},
			Concurrency:   resolve.DefaultConcurrency,
			MaxDepth:      graph.DefaultMaxDepth,
			Style:         "ascii",
		},
		Cache:  CacheConfig{TTL: Duration{DefaultCacheTTL}},
		Report: ReportConfig{Database: "depfetch", Collection: "reports"},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// Load reads path on top of [Default] and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, cfg.Validate()
}

// LoadOptional is like [Load] but returns the defaults when path does not
// exist. The boolean reports whether the file was read.
func LoadOptional(path string) (Config, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), false, nil
	}
	cfg, err := Load(path)
	return cfg, true, err
}

// Validate checks repositories, scopes and the tree style.
func (c Config) Validate() error {
	for _, r := range c.Repositories {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	for _, s := range c.Resolve.ExcludeScopes {
		if artifact.ParseScope(s) == artifact.ScopeNone && s != string(artifact.ScopeNone) {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown scope %q", s)
		}
	}
	if c.Resolve.Style != "" {
		if _, ok := tree.StyleByName(c.Resolve.Style); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown tree style %q", c.Resolve.Style)
		}
	}
	if c.Resolve.Concurrency < 0 || c.Resolve.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency and max_depth must not be negative")
	}
	return nil
}

// Aggregate returns Maven Central followed by the configured repositories
// and then extra, in that order. A configured repository with id "central"
// replaces Maven Central in place, which is how a mirror is set up.
func (c Config) Aggregate(extra ...repository.Repository) *repository.Aggregate {
	agg := repository.NewDefault()
	for _, r := range c.Repositories {
		agg.Register(r)
	}
	for _, r := range extra {
		agg.Add(r)
	}
	return agg
}

// SelectorOptions converts the resolve settings into selector options.
func (c Config) SelectorOptions() selector.Options {
	opts := selector.Options{
		AllowOptional: c.Resolve.AllowOptional,
		NoScopeFilter: c.Resolve.WithProvided,
	}
	for _, s := range c.Resolve.ExcludeScopes {
		opts.ExcludedScopes = append(opts.ExcludedScopes, artifact.ParseScope(s))
	}
	return opts
}

// ResolveOptions converts the resolve settings into resolver options.
func (c Config) ResolveOptions() resolve.Options {
	style, _ := tree.StyleByName(c.Resolve.Style)
	return resolve.Options{
		Concurrency: c.Resolve.Concurrency,
		Parallel:    c.Resolve.Parallel,
		Style:       style,
		Collect:     graph.Options{MaxDepth: c.Resolve.MaxDepth},
	}.WithDefaults()
}

// Attachments lists the attachment kinds enabled in the configuration.
func (c Config) Attachments() []string {
	var kinds []string
	if c.Resolve.Javadoc {
		kinds = append(kinds, resolve.Javadoc)
	}
	if c.Resolve.Sources {
		kinds = append(kinds, resolve.Sources)
	}
	return kinds
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resolver defaults.
const (
	DefaultEnvPrefix       = "TODOWATCH_"
	DefaultGlobalConfigDir = "todowatch"
	DefaultLocalConfigName = ".todowatch.yaml"
)

// ResolverConfig configures the hierarchical config resolver. The zero value
// resolves the standard todowatch locations.
type ResolverConfig struct {
	// EnvPrefix is prepended to upper-cased keys for environment lookup.
	// Defaults to "TODOWATCH_".
	EnvPrefix string

	// GlobalConfigDir is the directory under ~/.config/ holding
	// config.yaml. Defaults to "todowatch".
	GlobalConfigDir string

	// LocalConfigName is the filename looked up in the git root.
	// Defaults to ".todowatch.yaml".
	LocalConfigName string

	// StartDir is where the git root search begins. Defaults to ".".
	StartDir string

	// Defaults overrides the built-in defaults. Nil means Defaults().
	Defaults map[string]string

	// GitRootFinder finds the git root directory. If nil, the nearest
	// parent containing a .git directory is used.
	GitRootFinder func(startDir string) (string, error)

	// LookupEnv reads the environment. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// Logger receives warnings about unreadable or unexpected config.
	Logger *slog.Logger
}

func (c ResolverConfig) withDefaults() ResolverConfig {
	if c.EnvPrefix == "" {
		c.EnvPrefix = DefaultEnvPrefix
	}
	if c.GlobalConfigDir == "" {
		c.GlobalConfigDir = DefaultGlobalConfigDir
	}
	if c.LocalConfigName == "" {
		c.LocalConfigName = DefaultLocalConfigName
	}
	if c.StartDir == "" {
		c.StartDir = "."
	}
	if c.Defaults == nil {
		c.Defaults = Defaults()
	}
	if c.LookupEnv == nil {
		c.LookupEnv = os.LookupEnv
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Resolver handles hierarchical configuration resolution.
type Resolver struct {
	config     ResolverConfig
	globalPath string
	localPath  string
	gitRoot    string

	// Warnings collects non-fatal issues during resolution.
	Warnings []string
}

// NewResolver creates a resolver for the standard global and local paths.
func NewResolver(cfg ResolverConfig) *Resolver {
	cfg = cfg.withDefaults()
	resolver := &Resolver{config: cfg}

	finder := cfg.GitRootFinder
	if finder == nil {
		finder = findGitRoot
	}
	if root, err := finder(cfg.StartDir); err == nil && root != "" {
		resolver.gitRoot = root
		resolver.localPath = filepath.Join(root, cfg.LocalConfigName)
	}

	if home, err := os.UserHomeDir(); err == nil {
		resolver.globalPath = filepath.Join(home, ".config", cfg.GlobalConfigDir, "config.yaml")
	}

	return resolver
}

// NewResolverWithPaths creates a resolver with explicit global and local
// paths. An empty path skips that layer.
func NewResolverWithPaths(cfg ResolverConfig, globalPath, localPath string) *Resolver {
	return &Resolver{
		config:     cfg.withDefaults(),
		globalPath: globalPath,
		localPath:  localPath,
	}
}

// warn records a non-fatal problem and logs it.
func (r *Resolver) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	r.config.Logger.Warn("config warning", "detail", msg)
}

// Resolved holds the final merged configuration.
type Resolved struct {
	values  map[string]string
	sources map[string]Source
}

// Get returns the value for a key, or empty string if not set.
func (c *Resolved) Get(key string) string {
	return c.values[key]
}

// Source returns the source of a key's value.
func (c *Resolved) Source(key string) Source {
	return c.sources[key]
}

// GetWithSource returns both the value and its source.
func (c *Resolved) GetWithSource(key string) (string, Source) {
	return c.values[key], c.sources[key]
}

// All returns a copy of all key-value pairs.
func (c *Resolved) All() map[string]string {
	result := make(map[string]string, len(c.values))
	for k, v := range c.values {
		result[k] = v
	}
	return result
}

// Resolve builds the final config by merging all sources.
// Priority (highest to lowest): env > local > global > defaults.
func (r *Resolver) Resolve() *Resolved {
	cfg := &Resolved{
		values:  make(map[string]string),
		sources: make(map[string]Source),
	}

	for key, value := range r.config.Defaults {
		cfg.values[key] = value
		cfg.sources[key] = SourceDefault
	}
	r.applyFile(cfg, r.globalPath, SourceGlobal)
	r.applyFile(cfg, r.localPath, SourceLocal)
	r.applyEnv(cfg)

	return cfg
}

// ResolveWithFlags resolves config and applies non-empty overrides on top.
func (r *Resolver) ResolveWithFlags(flags map[string]string) *Resolved {
	cfg := r.Resolve()

	for key, value := range flags {
		if value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceFlag
		}
	}

	return cfg
}

func (r *Resolver) applyFile(cfg *Resolved, path string, source Source) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return // A missing file is not an error.
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		r.warn("could not parse %s: %v", path, err)
		return
	}

	known := Keys()
	for key, value := range parsed {
		if !slices.Contains(known, key) {
			r.warn("unknown key %q in %s", key, path)
			continue
		}
		if source == SourceLocal && slices.Contains(secretKeys, key) {
			r.warn("ignoring %s in %s; set it in the global config or %s%s",
				key, path, r.config.EnvPrefix, strings.ToUpper(key))
			continue
		}
		if strVal := toString(value); strVal != "" {
			cfg.values[key] = strVal
			cfg.sources[key] = source
		}
	}
}

func (r *Resolver) applyEnv(cfg *Resolved) {
	for _, key := range Keys() {
		envKey := r.config.EnvPrefix + strings.ToUpper(key)
		if value, ok := r.config.LookupEnv(envKey); ok && value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceEnv
		}
	}
}

// GitRoot returns the detected git root directory.
func (r *Resolver) GitRoot() string {
	return r.gitRoot
}

// GlobalPath returns the path to the global config file.
func (r *Resolver) GlobalPath() string {
	return r.globalPath
}

// LocalPath returns the path to the local config file.
func (r *Resolver) LocalPath() string {
	return r.localPath
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int, int64, float64:
		return fmt.Sprintf("%v", val)
	default:
		return ""
	}
}

// findGitRoot finds the nearest parent of startDir containing .git.
func findGitRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

package todowatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/randalmurphal/todowatch/condition"
	"github.com/randalmurphal/todowatch/config"
	"github.com/randalmurphal/todowatch/event"
)

// Built-in event names.
const (
	EventDate              = "date"
	EventGemRelease        = "gem_release"
	EventGoModuleRelease   = "go_module_release"
	EventPullRequestClose  = "pull_request_close"
	EventIssueClose        = "issue_close"
	EventGitLabIssueClose  = "gitlab_issue_close"
	EventMergeRequestClose = "merge_request_close"
)

// RegisterBuiltins binds the built-in events backed by svc. issue_close is
// an alias of pull_request_close, so overriding either changes both.
func RegisterBuiltins(reg *event.Registry, svc *Services) {
	reg.Register(EventDate, condition.Date(condition.DateConfig{
		Now:      svc.Now,
		Location: svc.Location,
	}))

	if svc.RubyGems != nil {
		reg.Register(EventGemRelease, condition.Release(svc.RubyGems, "rubygems"))
	}
	if svc.GoProxy != nil {
		reg.Register(EventGoModuleRelease, condition.Release(svc.GoProxy, "goproxy"))
	}
	if svc.GitHub != nil {
		reg.Register(EventPullRequestClose, condition.IssueClose(svc.GitHub, "github"))
		// Cannot fail: the name was just registered.
		_ = reg.Alias(EventPullRequestClose, EventIssueClose)
	}
	if svc.GitLabIssues != nil {
		reg.Register(EventGitLabIssueClose, condition.IssueClose(svc.GitLabIssues, "gitlab"))
	}
	if svc.GitLabMergeRequests != nil {
		reg.Register(EventMergeRequestClose, condition.IssueClose(svc.GitLabMergeRequests, "gitlab"))
	}
}

// NewRegistry creates a registry with the built-in events backed by svc.
func NewRegistry(svc *Services, opts ...event.Option) *event.Registry {
	reg := event.NewRegistry(opts...)
	RegisterBuiltins(reg, svc)
	return reg
}

var (
	defaultOnce     sync.Once
	defaultRegistry *event.Registry
)

// Default returns the process-wide registry, creating it on first use from
// config.Load. Invalid settings are logged and replaced by the built-in
// defaults so the registry is always usable.
func Default() *event.Registry {
	defaultOnce.Do(func() {
		defaultRegistry = newDefaultRegistry(slog.Default())
	})
	return defaultRegistry
}

func newDefaultRegistry(logger *slog.Logger) *event.Registry {
	settings, err := config.Load()
	if err != nil {
		logger.Warn("invalid todowatch settings, using defaults", "error", err)
		settings = defaultSettings()
	}

	// svc is usable even when a code host failed to set up; its events then
	// report the setup failure.
	svc, err := NewServices(settings, logger)
	if err != nil {
		logger.Warn("todowatch lookups degraded", "error", err)
	}
	return NewRegistry(svc, event.WithLogger(logger))
}

// defaultSettings converts the built-in defaults, which always parse.
func defaultSettings() config.Settings {
	resolver := config.NewResolverWithPaths(config.ResolverConfig{
		LookupEnv: func(string) (string, bool) { return "", false },
	}, "", "")
	settings, err := config.FromResolved(resolver.Resolve())
	if err != nil {
		panic("todowatch: built-in defaults do not parse: " + err.Error())
	}
	return settings
}

// Register binds name to checker in the default registry.
func Register(name string, checker event.Checker) {
	Default().Register(name, checker)
}

// Alias binds newName to the same checker as existing in the default
// registry.
func Alias(existing, newName string) error {
	return Default().Alias(existing, newName)
}

// Invoke checks the named event in the default registry.
func Invoke(ctx context.Context, name string, args event.Args) (event.Result, error) {
	return Default().Invoke(ctx, name, args)
}

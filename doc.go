// Package todowatch evaluates conditional TODO annotations.
//
// A conditional TODO names an event and its arguments, for example
// date("2025-01-01") or gem_release("rails", ">= 7.2"). A driver that has
// parsed such an annotation asks the event registry whether the condition
// is met, and notifies the TODO's assignee when it is.
//
// The package is organized into subpackages by concern:
//
//   - event: Registry, Checker, Result, and the error kinds
//   - condition: Built-in checkers (dates, releases, issue state)
//   - version: Version requirement parsing and matching
//   - gems: Package registry lookups (RubyGems, Go module proxy)
//   - forge: Code host lookups (GitHub, GitLab)
//   - config: Layered settings
//   - http: Retrying HTTP client and API errors
//   - testutil: Test utilities and fake servers
//
// # Quick Start
//
// The default registry is built from config.Load on first use:
//
//	res, err := todowatch.Invoke(ctx, "gem_release", event.Args{"rails", ">= 7.2"})
//	switch {
//	case err != nil:
//	    // event.IsCallerError(err) means the annotation must be fixed
//	case res.IsMet():
//	    notify(assignee, res.Message())
//	}
//
// Host applications add or override events at startup:
//
//	todowatch.Register("deploy_finished", func(ctx context.Context, args event.Args) (event.Result, error) {
//	    ...
//	})
//
// See individual package documentation for detailed usage.
package todowatch

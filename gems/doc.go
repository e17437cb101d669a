// Package gems looks up the published versions of a package in a registry.
//
// Core types:
//   - Source: Interface returning every published version of a package
//   - RubyGems: Source backed by the rubygems.org versions API
//   - GoProxy: Source backed by a Go module proxy (GOPROXY protocol)
//   - MockSource: Function-field Source for tests
//
// Lookups retry transient failures through the shared http client. A package
// the registry does not know is reported as ErrNotFound; a registry that
// stays unreachable is reported with the http package's ErrUnreachable.
//
// Example usage:
//
//	src := gems.NewRubyGems(gems.Config{Timeout: 5 * time.Second})
//	versions, err := src.Versions(ctx, "rails")
package gems

// Package condition provides the built-in condition checkers.
//
// Each constructor returns an event.Checker ready to bind in a Registry:
//
//   - Date: met once a calendar date or timestamp has passed
//   - Release: met once a package registry has a version matching every
//     requirement
//   - IssueClose: met once an issue, pull request, or merge request is
//     closed or merged
//
// Lookups against external systems never report an expected "not yet" as
// an error. Failures are classified into the event error kinds, so callers
// can tell a broken annotation (event.IsCallerError) from a lookup that may
// succeed on a later run (event.IsRetryable).
//
// Example usage:
//
//	reg := event.NewRegistry()
//	reg.Register("date", condition.Date(condition.DateConfig{}))
//	reg.Register("gem_release", condition.Release(gems.NewRubyGems(gems.Config{}), "rubygems"))
package condition

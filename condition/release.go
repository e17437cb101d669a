package condition

import (
	"context"
	"fmt"

	"github.com/randalmurphal/todowatch/event"
	"github.com/randalmurphal/todowatch/gems"
	"github.com/randalmurphal/todowatch/version"
)

// Release returns a checker taking a package name followed by one or more
// requirements. It is met when source lists a version satisfying every
// requirement, and reports the highest such version.
//
// service names the registry in errors (e.g., "rubygems").
func Release(source gems.Source, service string) event.Checker {
	return func(ctx context.Context, args event.Args) (event.Result, error) {
		if err := args.Arity(2, -1); err != nil {
			return event.Result{}, err
		}
		name, err := args.String(0)
		if err != nil {
			return event.Result{}, err
		}
		specs, err := args.Strings(1)
		if err != nil {
			return event.Result{}, err
		}

		reqs, err := version.ParseRequirements(specs...)
		if err != nil {
			return event.Result{}, &event.ArgumentError{Index: 1, Reason: err.Error()}
		}

		versions, err := source.Versions(ctx, name)
		if err != nil {
			return event.Result{}, classifyRegistry(service, name, err)
		}

		best, ok := reqs.Highest(versions)
		if !ok {
			return event.NotMet(), nil
		}
		return event.Met(fmt.Sprintf("A new version of %s matching %s was released: %s.",
			name, reqs, best)), nil
	}
}

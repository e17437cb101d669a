package condition

import (
	"context"
	"fmt"

	"github.com/randalmurphal/todowatch/event"
	"github.com/randalmurphal/todowatch/forge"
)

// IssueClose returns a checker taking an organization, a repository, and a
// number. It is met when tracker reports the item closed or merged.
//
// service names the code host in errors (e.g., "github").
func IssueClose(tracker forge.Tracker, service string) event.Checker {
	return func(ctx context.Context, args event.Args) (event.Result, error) {
		if err := args.Arity(3, 3); err != nil {
			return event.Result{}, err
		}
		ref, err := refFromArgs(args)
		if err != nil {
			return event.Result{}, err
		}

		state, err := tracker.State(ctx, ref)
		if err != nil {
			return event.Result{}, classifyForge(service, ref, err)
		}

		if !state.Done() {
			return event.NotMet(), nil
		}
		return event.Met(fmt.Sprintf("Issue/PR #%d in %s/%s is closed.",
			ref.Number, ref.Owner, ref.Repo)), nil
	}
}

func refFromArgs(args event.Args) (forge.Ref, error) {
	owner, err := args.String(0)
	if err != nil {
		return forge.Ref{}, err
	}
	repo, err := args.String(1)
	if err != nil {
		return forge.Ref{}, err
	}
	number, err := args.Int(2)
	if err != nil {
		return forge.Ref{}, err
	}
	if number <= 0 {
		return forge.Ref{}, &event.ArgumentError{Index: 2, Reason: fmt.Sprintf("number must be positive, got %d", number)}
	}
	return forge.Ref{Owner: owner, Repo: repo, Number: number}, nil
}

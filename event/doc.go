// Package event resolves TODO annotation event names to condition checkers.
//
// An annotation such as
//
//	TODO(on: gem_release("rails", ">= 8.0"), to: "dev@example.com")
//
// is parsed by the caller into an event name ("gem_release") and Args. The
// Registry looks the name up and calls the bound Checker, which answers with
// either NotMet or Met(message). Anything that stops a checker from giving a
// reliable answer is an error, never NotMet.
//
// Core types:
//   - Registry: Name to Checker namespace with aliases
//   - Checker: func(ctx, Args) (Result, error)
//   - Result: NotMet or Met(message)
//   - Args: Positional annotation arguments (strings and integers)
//
// Error kinds, matched with errors.Is:
//   - ErrUnknownEvent: No checker is bound to the name
//   - ErrInvalidArguments: Wrong arity or argument type
//   - ErrInvalidDateFormat: A date argument could not be parsed
//   - ErrPackageNotFound: The package registry has no such package
//   - ErrResourceNotFound: The issue, pull request, or repository does not exist
//   - ErrAuthentication: Credentials are missing or rejected
//   - ErrLookupFailed: An external lookup failed after retries
//
// # Extending
//
// Host applications add events with Register; registering an existing name
// replaces its checker (last write wins):
//
//	reg.Register("trello_card_close", func(ctx context.Context, args event.Args) (event.Result, error) {
//	    if err := args.Arity(1, 1); err != nil {
//	        return event.Result{}, err
//	    }
//	    ...
//	})
//	reg.Alias("trello_card_close", "card_close")
package event

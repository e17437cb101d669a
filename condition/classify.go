package condition

import (
	"errors"

	"github.com/randalmurphal/todowatch/event"
	"github.com/randalmurphal/todowatch/forge"
	"github.com/randalmurphal/todowatch/gems"
)

// classifyRegistry maps a package registry failure onto an event error kind.
func classifyRegistry(service, name string, err error) error {
	switch {
	case errors.Is(err, gems.ErrNotFound):
		return &event.LookupError{Kind: event.ErrPackageNotFound, Service: service, Target: name, Err: err}
	case errors.Is(err, gems.ErrInvalidName):
		return &event.ArgumentError{Index: 0, Reason: err.Error()}
	default:
		return &event.LookupError{Kind: event.ErrLookupFailed, Service: service, Target: name, Err: err}
	}
}

// classifyForge maps a code host failure onto an event error kind.
func classifyForge(service string, ref forge.Ref, err error) error {
	target := ref.String()
	switch {
	case errors.Is(err, forge.ErrNotFound):
		return &event.LookupError{Kind: event.ErrResourceNotFound, Service: service, Target: target, Err: err}
	case errors.Is(err, forge.ErrAuthRequired):
		return &event.LookupError{Kind: event.ErrAuthentication, Service: service, Target: target, Err: err}
	case errors.Is(err, forge.ErrInvalidRef):
		return &event.ArgumentError{Index: -1, Reason: err.Error()}
	default:
		return &event.LookupError{Kind: event.ErrLookupFailed, Service: service, Target: target, Err: err}
	}
}

package forge

import (
	"context"
	"errors"
	"fmt"
)

// MockTracker is a mock implementation of Tracker for testing.
type MockTracker struct {
	StateFunc func(ctx context.Context, ref Ref) (State, error)
}

// State implements Tracker.
func (m *MockTracker) State(ctx context.Context, ref Ref) (State, error) {
	if m.StateFunc != nil {
		return m.StateFunc(ctx, ref)
	}
	return StateOpen, nil
}

// StaticTracker serves fixed states; unknown refs are ErrNotFound.
type StaticTracker map[Ref]State

// State implements Tracker.
func (s StaticTracker) State(_ context.Context, ref Ref) (State, error) {
	state, ok := s[ref]
	if !ok {
		return "", ErrNotFound
	}
	return state, nil
}

// Unconfigured stands in for a code host whose client could not be set up.
// Every lookup fails with err: credential problems keep ErrAuthRequired,
// anything else is reported as ErrUnavailable.
func Unconfigured(service string, err error) Tracker {
	return unconfigured{service: service, err: err}
}

type unconfigured struct {
	service string
	err     error
}

// State implements Tracker.
func (u unconfigured) State(_ context.Context, ref Ref) (State, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}
	if errors.Is(u.err, ErrAuthRequired) {
		return "", fmt.Errorf("%s on %s: %w", ref, u.service, u.err)
	}
	return "", fmt.Errorf("%w: %s on %s: %w", ErrUnavailable, ref, u.service, u.err)
}

package forge

import (
	"context"
	"fmt"
	"strings"
)

// State represents the state of an issue or pull request.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
	StateMerged State = "merged"
)

// Done reports whether the state is terminal (closed or merged).
func (s State) Done() bool {
	return s == StateClosed || s == StateMerged
}

// Ref addresses an issue or pull request. For GitLab, Owner is the full
// namespace ("group/subgroup") and Repo the project name.
type Ref struct {
	Owner  string
	Repo   string
	Number int
}

// String returns "owner/repo#number".
func (r Ref) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// Validate checks that every part of the reference is present.
func (r Ref) Validate() error {
	if strings.TrimSpace(r.Owner) == "" || strings.TrimSpace(r.Repo) == "" {
		return fmt.Errorf("%w: owner and repo are required", ErrInvalidRef)
	}
	if r.Number <= 0 {
		return fmt.Errorf("%w: number must be positive, got %d", ErrInvalidRef, r.Number)
	}
	return nil
}

// Tracker reports the current state of an issue or pull request.
type Tracker interface {
	State(ctx context.Context, ref Ref) (State, error)
}

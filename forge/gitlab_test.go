package forge

import (
	"errors"
	"testing"
	"time"

	"github.com/randalmurphal/todowatch/testutil"
)

// newTestGitLab creates a GitLab client pointing to a fake server.
func newTestGitLab(t *testing.T, baseURL, token string) *GitLab {
	t.Helper()

	g, err := NewGitLab(GitLabConfig{
		Token:      token,
		BaseURL:    baseURL + "/api/v4",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		RetryWait:  time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewGitLab: %v", err)
	}
	return g
}

func TestGitLab_Issues(t *testing.T) {
	server := testutil.NewGitLabServer(t, "glpat", map[string]testutil.Issue{
		"group/sub/project#1": {State: "opened"},
		"group/sub/project#2": {State: "closed"},
	})
	g := newTestGitLab(t, server.URL, "glpat")

	tests := []struct {
		number int
		want   State
	}{
		{1, StateOpen},
		{2, StateClosed},
	}
	for _, tt := range tests {
		got, err := g.Issues().State(testutil.TestContext(t), Ref{Owner: "group/sub", Repo: "project", Number: tt.number})
		if err != nil {
			t.Fatalf("State(#%d): %v", tt.number, err)
		}
		if got != tt.want {
			t.Errorf("State(#%d) = %q, want %q", tt.number, got, tt.want)
		}
	}
}

func TestGitLab_MergeRequests(t *testing.T) {
	server := testutil.NewGitLabServer(t, "glpat", map[string]testutil.Issue{
		"group/project!1": {State: "opened"},
		"group/project!2": {State: "locked"},
		"group/project!3": {State: "closed"},
		"group/project!4": {State: "merged"},
	})
	g := newTestGitLab(t, server.URL, "glpat")

	tests := []struct {
		number int
		want   State
	}{
		{1, StateOpen},
		{2, StateOpen},
		{3, StateClosed},
		{4, StateMerged},
	}
	for _, tt := range tests {
		got, err := g.MergeRequests().State(testutil.TestContext(t), Ref{Owner: "group", Repo: "project", Number: tt.number})
		if err != nil {
			t.Fatalf("State(!%d): %v", tt.number, err)
		}
		if got != tt.want {
			t.Errorf("State(!%d) = %q, want %q", tt.number, got, tt.want)
		}
	}
}

func TestGitLab_Errors(t *testing.T) {
	server := testutil.NewGitLabServer(t, "glpat", map[string]testutil.Issue{
		"group/project#1": {State: "opened"},
	})

	t.Run("not found", func(t *testing.T) {
		g := newTestGitLab(t, server.URL, "glpat")
		_, err := g.Issues().State(testutil.TestContext(t), Ref{Owner: "group", Repo: "project", Number: 99})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("State() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("bad token", func(t *testing.T) {
		g := newTestGitLab(t, server.URL, "nope")
		_, err := g.Issues().State(testutil.TestContext(t), Ref{Owner: "group", Repo: "project", Number: 1})
		if !errors.Is(err, ErrAuthRequired) {
			t.Errorf("State() error = %v, want ErrAuthRequired", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		g := newTestGitLab(t, testutil.UnreachableURL(t), "glpat")
		_, err := g.Issues().State(testutil.TestContext(t), Ref{Owner: "group", Repo: "project", Number: 1})
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("State() error = %v, want ErrUnavailable", err)
		}
	})
}

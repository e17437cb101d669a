package forge

import (
	"errors"
	"net/http"
	"testing"
	"time"

	todohttp "github.com/randalmurphal/todowatch/http"
	"github.com/randalmurphal/todowatch/testutil"
)

// newTestGitHub creates a GitHub tracker pointing to a fake server.
func newTestGitHub(t *testing.T, baseURL, token string) *GitHub {
	t.Helper()

	g, err := NewGitHub(GitHubConfig{
		BaseURL:    baseURL,
		Tokens:     TokenResolver{Default: token},
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		RetryWait:  time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewGitHub: %v", err)
	}
	return g
}

func TestGitHub_State(t *testing.T) {
	server := testutil.NewGitHubServer(t, "", map[string]testutil.Issue{
		"acme/app#1": {State: "open"},
		"acme/app#2": {State: "closed"},
		"acme/app#3": {State: "open", PullRequest: true},
		"acme/app#4": {State: "closed", PullRequest: true},
		"acme/app#5": {State: "closed", PullRequest: true, Merged: true},
	})
	g := newTestGitHub(t, server.URL, "")

	tests := []struct {
		name   string
		number int
		want   State
	}{
		{name: "open issue", number: 1, want: StateOpen},
		{name: "closed issue", number: 2, want: StateClosed},
		{name: "open pull request", number: 3, want: StateOpen},
		{name: "closed pull request", number: 4, want: StateClosed},
		{name: "merged pull request", number: 5, want: StateMerged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.State(testutil.TestContext(t), Ref{Owner: "acme", Repo: "app", Number: tt.number})
			if err != nil {
				t.Fatalf("State: %v", err)
			}
			if got != tt.want {
				t.Errorf("State() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGitHub_NotFound(t *testing.T) {
	server := testutil.NewGitHubServer(t, "", nil)
	g := newTestGitHub(t, server.URL, "")

	_, err := g.State(testutil.TestContext(t), Ref{Owner: "acme", Repo: "app", Number: 404})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("State() error = %v, want ErrNotFound", err)
	}
	if server.Hits() != 1 {
		t.Errorf("hits = %d, want 1 (404 is not retried)", server.Hits())
	}
}

func TestGitHub_Authentication(t *testing.T) {
	issues := map[string]testutil.Issue{"acme/private#7": {State: "closed"}}

	t.Run("token is sent", func(t *testing.T) {
		server := testutil.NewGitHubServer(t, "s3cret", issues)
		g := newTestGitHub(t, server.URL, "s3cret")

		got, err := g.State(testutil.TestContext(t), Ref{Owner: "acme", Repo: "private", Number: 7})
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		if got != StateClosed {
			t.Errorf("State() = %q, want closed", got)
		}
		if auths := server.Auths(); len(auths) == 0 || auths[0] != "s3cret" {
			t.Errorf("auths = %v, want s3cret", auths)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		server := testutil.NewGitHubServer(t, "s3cret", issues)
		g := newTestGitHub(t, server.URL, "")

		_, err := g.State(testutil.TestContext(t), Ref{Owner: "acme", Repo: "private", Number: 7})
		if !errors.Is(err, ErrAuthRequired) {
			t.Fatalf("State() error = %v, want ErrAuthRequired", err)
		}
		if !todohttp.IsUnauthorized(err) {
			t.Errorf("error should carry an AuthError: %v", err)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		server := testutil.NewGitHubServer(t, "s3cret", issues)
		g := newTestGitHub(t, server.URL, "wrong")

		_, err := g.State(testutil.TestContext(t), Ref{Owner: "acme", Repo: "private", Number: 7})
		if !errors.Is(err, ErrAuthRequired) {
			t.Fatalf("State() error = %v, want ErrAuthRequired", err)
		}
	})
}

func TestGitHub_Unavailable(t *testing.T) {
	t.Run("server errors are retried then reported", func(t *testing.T) {
		server := testutil.NewGitHubServer(t, "", map[string]testutil.Issue{"acme/app#1": {State: "open"}})
		server.FailWith(http.StatusServiceUnavailable)
		g := newTestGitHub(t, server.URL, "")

		_, err := g.State(testutil.TestContext(t), Ref{Owner: "acme", Repo: "app", Number: 1})
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("State() error = %v, want ErrUnavailable", err)
		}
		if server.Hits() != 2 {
			t.Errorf("hits = %d, want 2", server.Hits())
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		g := newTestGitHub(t, testutil.UnreachableURL(t), "")

		_, err := g.State(testutil.TestContext(t), Ref{Owner: "acme", Repo: "app", Number: 1})
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("State() error = %v, want ErrUnavailable", err)
		}
	})
}

func TestGitHub_InvalidRef(t *testing.T) {
	g := newTestGitHub(t, testutil.UnreachableURL(t), "")

	_, err := g.State(testutil.TestContext(t), Ref{Owner: "acme", Repo: "app"})
	if !errors.Is(err, ErrInvalidRef) {
		t.Errorf("State() error = %v, want ErrInvalidRef", err)
	}
}

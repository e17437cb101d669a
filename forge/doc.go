// Package forge reports whether issues, pull requests, and merge requests on
// a code host are still open.
//
// Core types:
//   - Tracker: Interface returning the State of a Ref
//   - Ref: owner/repo#number address of an issue or pull request
//   - State: open, closed, or merged
//   - TokenResolver: Per-repository, per-organization, then global token lookup
//
// Implementations:
//   - GitHub: Issues and pull requests using go-github
//   - GitLab: Issues (Issues) and merge requests (MergeRequests) using go-gitlab
//   - MockTracker, StaticTracker: For tests
//
// Failures are classified with ErrNotFound, ErrAuthRequired, and
// ErrUnavailable so callers never mistake an outage for an open issue.
//
// Example usage:
//
//	gh, err := forge.NewGitHub(forge.GitHubConfig{
//	    Tokens: forge.TokenResolver{Prefix: "TODOWATCH_GITHUB_TOKEN"},
//	})
//	if err != nil {
//	    return err
//	}
//	state, err := gh.State(ctx, forge.Ref{Owner: "golang", Repo: "go", Number: 1})
package forge

package forge

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/xanzy/go-gitlab"

	todohttp "github.com/randalmurphal/todowatch/http"
)

// GitLabConfig configures the GitLab trackers.
type GitLabConfig struct {
	// Token is a personal or project access token. Empty means anonymous.
	Token string

	// BaseURL is the instance URL (empty for gitlab.com).
	BaseURL string

	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
	Logger     *slog.Logger
}

// GitLab looks up issues and merge requests on a GitLab instance.
type GitLab struct {
	client *gitlab.Client
	token  string
}

// NewGitLab creates a GitLab client. Retries run inside go-gitlab's
// retryablehttp client.
func NewGitLab(cfg GitLabConfig) (*GitLab, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = todohttp.DefaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = todohttp.DefaultMaxRetries
	}
	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = todohttp.DefaultRetryWait
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := []gitlab.ClientOptionFunc{
		gitlab.WithHTTPClient(&http.Client{Timeout: timeout}),
		// The default policy also retries connection failures.
		gitlab.WithCustomRetry(retryablehttp.DefaultRetryPolicy),
		gitlab.WithCustomRetryMax(maxRetries - 1),
		gitlab.WithCustomRetryWaitMinMax(retryWait, retryWait*8),
		gitlab.WithCustomLeveledLogger(logger),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(cfg.BaseURL))
	}

	client, err := gitlab.NewClient(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}

	return &GitLab{client: client, token: cfg.Token}, nil
}

// Issues returns a Tracker for GitLab issues.
func (g *GitLab) Issues() Tracker {
	return gitlabIssues{g}
}

// MergeRequests returns a Tracker for GitLab merge requests.
func (g *GitLab) MergeRequests() Tracker {
	return gitlabMergeRequests{g}
}

type gitlabIssues struct{ *GitLab }

// State implements Tracker.
func (g gitlabIssues) State(ctx context.Context, ref Ref) (State, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}

	issue, resp, err := g.client.Issues.GetIssue(projectPath(ref), ref.Number, gitlab.WithContext(ctx))
	if err != nil {
		return "", classify("gitlab", ref, gitlabResponse(resp), err, g.token != "")
	}
	return gitlabState(ref, issue.State)
}

type gitlabMergeRequests struct{ *GitLab }

// State implements Tracker.
func (g gitlabMergeRequests) State(ctx context.Context, ref Ref) (State, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}

	mr, resp, err := g.client.MergeRequests.GetMergeRequest(projectPath(ref), ref.Number, nil, gitlab.WithContext(ctx))
	if err != nil {
		return "", classify("gitlab", ref, gitlabResponse(resp), err, g.token != "")
	}
	return gitlabState(ref, mr.State)
}

func projectPath(ref Ref) string {
	return ref.Owner + "/" + ref.Repo
}

// gitlabState maps GitLab states; a locked merge request is still open.
func gitlabState(ref Ref, state string) (State, error) {
	switch state {
	case "opened", "locked":
		return StateOpen, nil
	case "closed":
		return StateClosed, nil
	case "merged":
		return StateMerged, nil
	default:
		return "", fmt.Errorf("%w: %q for %s", ErrUnexpectedState, state, ref)
	}
}

func gitlabResponse(resp *gitlab.Response) *http.Response {
	if resp == nil {
		return nil
	}
	return resp.Response
}

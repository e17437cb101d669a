package forge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"

	todohttp "github.com/randalmurphal/todowatch/http"
)

// GitHubConfig configures the GitHub tracker.
type GitHubConfig struct {
	// BaseURL overrides the API endpoint (GitHub Enterprise or tests).
	BaseURL string

	Tokens TokenResolver

	// App, when set, authenticates as a GitHub App installation wherever
	// Tokens has no token for the repository.
	App *AppConfig

	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
	Logger     *slog.Logger
}

// GitHub implements Tracker for GitHub issues and pull requests.
type GitHub struct {
	baseURL *url.URL
	tokens  TokenResolver
	http    *http.Client
	logger  *slog.Logger

	app *github.Client

	mu      sync.Mutex
	clients map[string]*github.Client // keyed by token; "" is anonymous
}

// NewGitHub creates a GitHub tracker. Requests are retried on network
// failures, rate limiting, and 5xx responses.
func NewGitHub(cfg GitHubConfig) (*GitHub, error) {
	g := &GitHub{
		tokens:  cfg.Tokens,
		logger:  cfg.Logger,
		clients: make(map[string]*github.Client),
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse GitHub base URL: %w", err)
		}
		g.baseURL = u
	}

	g.http = retryingClient(cfg.Timeout, cfg.MaxRetries, cfg.RetryWait, g.logger)

	if cfg.App != nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = todohttp.DefaultTimeout
		}
		src, err := newAppTokenSource(*cfg.App, g.baseURL, g.http, timeout)
		if err != nil {
			return nil, err
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, g.http)
		g.app = g.withBaseURL(github.NewClient(oauth2.NewClient(ctx, src)))
	}
	return g, nil
}

// retryingClient builds an *http.Client that retries transient failures.
// maxRetries counts total attempts, matching the http package.
func retryingClient(timeout time.Duration, maxRetries int, retryWait time.Duration, logger *slog.Logger) *http.Client {
	if timeout <= 0 {
		timeout = todohttp.DefaultTimeout
	}
	if maxRetries <= 0 {
		maxRetries = todohttp.DefaultMaxRetries
	}
	if retryWait <= 0 {
		retryWait = todohttp.DefaultRetryWait
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = timeout
	rc.RetryMax = maxRetries - 1
	rc.RetryWaitMin = retryWait
	rc.RetryWaitMax = retryWait * 8
	rc.Logger = logger
	// Hand the final response back so status codes can be classified.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc.StandardClient()
}

// client returns a go-github client authenticated with token.
func (g *GitHub) client(token string) *github.Client {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[token]; ok {
		return c
	}

	hc := g.http
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, g.http)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	c := g.withBaseURL(github.NewClient(hc))
	g.clients[token] = c
	return c
}

func (g *GitHub) withBaseURL(c *github.Client) *github.Client {
	if g.baseURL != nil {
		c.BaseURL = g.baseURL
	}
	return c
}

// State implements Tracker. The issues endpoint answers for both issues and
// pull requests; closed pull requests are checked again for a merge.
func (g *GitHub) State(ctx context.Context, ref Ref) (State, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}

	token := g.tokens.Token(ref.Owner, ref.Repo)
	client := g.client(token)
	authenticated := token != ""
	if !authenticated && g.app != nil {
		client = g.app
		authenticated = true
	}

	issue, resp, err := client.Issues.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return "", classify("github", ref, responseOf(resp), err, authenticated)
	}

	switch issue.GetState() {
	case "open":
		return StateOpen, nil
	case "closed":
		if !issue.IsPullRequest() {
			return StateClosed, nil
		}
		pr, resp, err := client.PullRequests.Get(ctx, ref.Owner, ref.Repo, ref.Number)
		if err != nil {
			return "", classify("github", ref, responseOf(resp), err, authenticated)
		}
		if pr.GetMerged() {
			return StateMerged, nil
		}
		return StateClosed, nil
	default:
		return "", fmt.Errorf("%w: %q for %s", ErrUnexpectedState, issue.GetState(), ref)
	}
}

func responseOf(resp *github.Response) *http.Response {
	if resp == nil {
		return nil
	}
	return resp.Response
}

func isRateLimit(err error) bool {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	return errors.As(err, &rateErr) || errors.As(err, &abuseErr)
}

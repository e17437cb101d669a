package todowatch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/randalmurphal/todowatch/config"
	"github.com/randalmurphal/todowatch/forge"
	"github.com/randalmurphal/todowatch/gems"
)

// GitHubTokenPrefix is the environment variable stem for per-organization
// and per-repository GitHub tokens.
const GitHubTokenPrefix = config.DefaultEnvPrefix + "GITHUB_TOKEN"

// Services are the lookup backends behind the built-in events. A nil
// backend leaves its events unregistered.
type Services struct {
	// Now is the clock for date events. Defaults to time.Now.
	Now func() time.Time

	// Location interprets dates without a zone. Defaults to time.Local.
	Location *time.Location

	RubyGems            gems.Source
	GoProxy             gems.Source
	GitHub              forge.Tracker
	GitLabIssues        forge.Tracker
	GitLabMergeRequests forge.Tracker
}

// NewServices creates the standard backends from settings. Each backend is
// built on its own: a code host that cannot be set up is replaced by a
// forge.Unconfigured tracker reporting the failure on every lookup, and the
// failures are returned joined alongside the usable Services.
func NewServices(s config.Settings, logger *slog.Logger) (*Services, error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry := gems.Config{
		Timeout:    s.HTTPTimeout,
		MaxRetries: s.HTTPMaxRetries,
		RetryWait:  s.HTTPRetryWait,
		Logger:     logger,
	}
	rubygems := registry
	rubygems.BaseURL = s.RubyGemsURL
	goproxy := registry
	goproxy.BaseURL = s.GoProxyURL

	svc := &Services{
		Location: s.DateLocation,
		RubyGems: gems.NewRubyGems(rubygems),
		GoProxy:  gems.NewGoProxy(goproxy),
	}

	var errs []error

	github, err := newGitHub(s, logger)
	if err != nil {
		err = fmt.Errorf("github: %w", err)
		errs = append(errs, err)
		svc.GitHub = forge.Unconfigured("github", err)
	} else {
		svc.GitHub = github
	}

	gitlab, err := forge.NewGitLab(forge.GitLabConfig{
		Token:      s.GitLabToken,
		BaseURL:    s.GitLabURL,
		Timeout:    s.HTTPTimeout,
		MaxRetries: s.HTTPMaxRetries,
		RetryWait:  s.HTTPRetryWait,
		Logger:     logger,
	})
	if err != nil {
		err = fmt.Errorf("gitlab: %w", err)
		errs = append(errs, err)
		svc.GitLabIssues = forge.Unconfigured("gitlab", err)
		svc.GitLabMergeRequests = svc.GitLabIssues
	} else {
		svc.GitLabIssues = gitlab.Issues()
		svc.GitLabMergeRequests = gitlab.MergeRequests()
	}

	return svc, errors.Join(errs...)
}

func newGitHub(s config.Settings, logger *slog.Logger) (*forge.GitHub, error) {
	app, err := githubApp(s.GitHubApp)
	if err != nil {
		return nil, err
	}
	return forge.NewGitHub(forge.GitHubConfig{
		BaseURL: s.GitHubAPIURL,
		Tokens: forge.TokenResolver{
			Prefix:  GitHubTokenPrefix,
			Default: s.GitHubToken,
		},
		App:        app,
		Timeout:    s.HTTPTimeout,
		MaxRetries: s.HTTPMaxRetries,
		RetryWait:  s.HTTPRetryWait,
		Logger:     logger,
	})
}

// githubApp loads the app's private key. A nil app means no app is set up.
func githubApp(app *config.GitHubApp) (*forge.AppConfig, error) {
	if app == nil {
		return nil, nil
	}
	key, err := os.ReadFile(app.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read github app private key: %w", forge.ErrAuthRequired, err)
	}
	return &forge.AppConfig{
		AppID:          app.AppID,
		InstallationID: app.InstallationID,
		PrivateKey:     key,
	}, nil
}

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Configuration keys.
const (
	KeyGitHubToken             = "github_token"
	KeyGitHubAPIURL            = "github_api_url"
	KeyGitHubAppID             = "github_app_id"
	KeyGitHubAppInstallationID = "github_app_installation_id"
	KeyGitHubAppPrivateKey     = "github_app_private_key"
	KeyGitLabToken             = "gitlab_token"
	KeyGitLabURL               = "gitlab_url"
	KeyRubyGemsURL             = "rubygems_url"
	KeyGoProxyURL              = "goproxy_url"
	KeyHTTPTimeout             = "http_timeout"
	KeyHTTPMaxRetries          = "http_max_retries"
	KeyHTTPRetryWait           = "http_retry_wait"
	KeyDateLocation            = "date_location"
)

// secretKeys may not be set in the local config.
var secretKeys = []string{KeyGitHubToken, KeyGitLabToken}

// ErrInvalidValue indicates a configuration value could not be parsed.
var ErrInvalidValue = errors.New("invalid configuration value")

// Keys returns every recognized configuration key.
func Keys() []string {
	return []string{
		KeyGitHubToken,
		KeyGitHubAPIURL,
		KeyGitHubAppID,
		KeyGitHubAppInstallationID,
		KeyGitHubAppPrivateKey,
		KeyGitLabToken,
		KeyGitLabURL,
		KeyRubyGemsURL,
		KeyGoProxyURL,
		KeyHTTPTimeout,
		KeyHTTPMaxRetries,
		KeyHTTPRetryWait,
		KeyDateLocation,
	}
}

// Defaults returns the built-in default values. Empty URLs mean the public
// service.
func Defaults() map[string]string {
	return map[string]string{
		KeyGitHubToken:             "",
		KeyGitHubAPIURL:            "",
		KeyGitHubAppID:             "",
		KeyGitHubAppInstallationID: "",
		KeyGitHubAppPrivateKey:     "",
		KeyGitLabToken:             "",
		KeyGitLabURL:               "",
		KeyRubyGemsURL:             "https://rubygems.org",
		KeyGoProxyURL:              "https://proxy.golang.org",
		KeyHTTPTimeout:             "10s",
		KeyHTTPMaxRetries:          "3",
		KeyHTTPRetryWait:           "1s",
		KeyDateLocation:            "Local",
	}
}

// Settings are the typed settings used to build the built-in checkers.
type Settings struct {
	GitHubToken  string
	GitHubAPIURL string

	// GitHubApp is set when a GitHub App installation is configured.
	GitHubApp *GitHubApp

	GitLabToken string
	GitLabURL   string
	RubyGemsURL string
	GoProxyURL  string

	// HTTPTimeout bounds each request attempt.
	HTTPTimeout time.Duration

	// HTTPMaxRetries is the total number of attempts per lookup.
	HTTPMaxRetries int

	// HTTPRetryWait is the first backoff delay; later delays double.
	HTTPRetryWait time.Duration

	// DateLocation interprets dates written without a zone.
	DateLocation *time.Location
}

// GitHubApp identifies a GitHub App installation and its private key file.
type GitHubApp struct {
	AppID          int64
	InstallationID int64
	PrivateKeyPath string
}

// Load resolves settings from the standard locations.
func Load() (Settings, error) {
	return FromResolved(NewResolver(ResolverConfig{}).Resolve())
}

// FromResolved converts resolved values into Settings.
func FromResolved(r *Resolved) (Settings, error) {
	s := Settings{
		GitHubToken:  strings.TrimSpace(r.Get(KeyGitHubToken)),
		GitHubAPIURL: r.Get(KeyGitHubAPIURL),
		GitLabToken:  strings.TrimSpace(r.Get(KeyGitLabToken)),
		GitLabURL:    r.Get(KeyGitLabURL),
		RubyGemsURL:  r.Get(KeyRubyGemsURL),
		GoProxyURL:   r.Get(KeyGoProxyURL),
	}

	var err error
	if s.GitHubApp, err = githubApp(r); err != nil {
		return Settings{}, err
	}
	if s.HTTPTimeout, err = positiveDuration(r, KeyHTTPTimeout); err != nil {
		return Settings{}, err
	}
	if s.HTTPRetryWait, err = positiveDuration(r, KeyHTTPRetryWait); err != nil {
		return Settings{}, err
	}

	retries, source := r.GetWithSource(KeyHTTPMaxRetries)
	if s.HTTPMaxRetries, err = strconv.Atoi(retries); err != nil || s.HTTPMaxRetries < 1 {
		return Settings{}, fmt.Errorf("%w: %s=%q from %s: want a positive integer",
			ErrInvalidValue, KeyHTTPMaxRetries, retries, source)
	}

	loc, source := r.GetWithSource(KeyDateLocation)
	if loc == "" {
		loc = "Local"
	}
	if s.DateLocation, err = time.LoadLocation(loc); err != nil {
		return Settings{}, fmt.Errorf("%w: %s=%q from %s: %v",
			ErrInvalidValue, KeyDateLocation, loc, source, err)
	}

	return s, nil
}

func positiveDuration(r *Resolved, key string) (time.Duration, error) {
	raw, source := r.GetWithSource(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s=%q from %s: want a positive duration such as 10s",
			ErrInvalidValue, key, raw, source)
	}
	return d, nil
}

// githubApp returns nil unless an app id is configured, in which case the
// installation and key are required too.
func githubApp(r *Resolved) (*GitHubApp, error) {
	rawID, source := r.GetWithSource(KeyGitHubAppID)
	if rawID == "" {
		return nil, nil
	}

	app := &GitHubApp{PrivateKeyPath: r.Get(KeyGitHubAppPrivateKey)}
	var err error
	if app.AppID, err = strconv.ParseInt(rawID, 10, 64); err != nil || app.AppID <= 0 {
		return nil, fmt.Errorf("%w: %s=%q from %s: want a positive integer",
			ErrInvalidValue, KeyGitHubAppID, rawID, source)
	}
	rawInst, source := r.GetWithSource(KeyGitHubAppInstallationID)
	if app.InstallationID, err = strconv.ParseInt(rawInst, 10, 64); err != nil || app.InstallationID <= 0 {
		return nil, fmt.Errorf("%w: %s=%q from %s: want a positive integer",
			ErrInvalidValue, KeyGitHubAppInstallationID, rawInst, source)
	}
	if app.PrivateKeyPath == "" {
		return nil, fmt.Errorf("%w: %s is required with %s", ErrInvalidValue, KeyGitHubAppPrivateKey, KeyGitHubAppID)
	}
	return app, nil
}

package forge

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	todohttp "github.com/randalmurphal/todowatch/http"
)

// GitHub App JWTs may live at most ten minutes; the issue time is backdated
// to absorb clock drift.
const (
	appJWTLifetime = 9 * time.Minute
	appJWTBackdate = time.Minute
)

// AppConfig authenticates as a GitHub App installation instead of with a
// personal token.
type AppConfig struct {
	AppID          int64
	InstallationID int64

	// PrivateKey is the app's PEM-encoded RSA key.
	PrivateKey []byte

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// appTokenSource mints installation access tokens, signing each exchange
// with a short-lived app JWT.
type appTokenSource struct {
	appID          int64
	installationID int64
	key            *rsa.PrivateKey
	now            func() time.Time
	client         *github.Client
	timeout        time.Duration
}

// newAppTokenSource returns a token source that caches each installation
// token until shortly before it expires.
func newAppTokenSource(cfg AppConfig, baseURL *url.URL, hc *http.Client, timeout time.Duration) (oauth2.TokenSource, error) {
	if cfg.AppID <= 0 || cfg.InstallationID <= 0 {
		return nil, fmt.Errorf("%w: github app: app id and installation id are required", ErrAuthRequired)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: github app: parse private key: %w", ErrAuthRequired, err)
	}

	src := &appTokenSource{
		appID:          cfg.AppID,
		installationID: cfg.InstallationID,
		key:            key,
		now:            cfg.Now,
		timeout:        timeout,
	}
	if src.now == nil {
		src.now = time.Now
	}

	src.client = github.NewClient(&http.Client{
		Transport: &appJWTTransport{source: src, base: hc.Transport},
	})
	if baseURL != nil {
		src.client.BaseURL = baseURL
	}

	return oauth2.ReuseTokenSource(nil, src), nil
}

// signJWT returns the app JWT used to request installation tokens.
func (s *appTokenSource) signJWT() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(s.appID, 10),
		IssuedAt:  jwt.NewNumericDate(now.Add(-appJWTBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTLifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
}

// Token implements oauth2.TokenSource.
func (s *appTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	tok, resp, err := s.client.Apps.CreateInstallationToken(ctx, s.installationID, nil)
	if err != nil {
		if resp != nil {
			switch resp.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
				return nil, fmt.Errorf("%w: %w", ErrAuthRequired, &todohttp.AuthError{
					Service: "github",
					Reason:  fmt.Sprintf("app %d installation %d rejected with status %d", s.appID, s.installationID, resp.StatusCode),
				})
			}
		}
		return nil, fmt.Errorf("github app installation token: %w", err)
	}

	return &oauth2.Token{
		AccessToken: tok.GetToken(),
		TokenType:   "Bearer",
		Expiry:      tok.GetExpiresAt().Time,
	}, nil
}

// appJWTTransport signs each request with a fresh app JWT.
type appJWTTransport struct {
	source *appTokenSource
	base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *appJWTTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	signed, err := t.source.signJWT()
	if err != nil {
		return nil, fmt.Errorf("sign github app jwt: %w", err)
	}

	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+signed)

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

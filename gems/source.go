package gems

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	todohttp "github.com/randalmurphal/todowatch/http"
)

// Registry lookup errors.
var (
	// ErrNotFound indicates the registry has no package by that name.
	ErrNotFound = errors.New("package not found")

	// ErrInvalidName indicates the package name cannot be looked up.
	ErrInvalidName = errors.New("invalid package name")
)

// Source returns every published version of a package.
type Source interface {
	// Versions returns the version strings in registry order.
	Versions(ctx context.Context, name string) ([]string, error)
}

// Config configures a registry Source.
type Config struct {
	// BaseURL overrides the registry endpoint.
	BaseURL string

	// HTTPClient overrides the underlying client. Timeout is ignored when set.
	HTTPClient *http.Client

	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
	Logger     *slog.Logger
}

func (c Config) client(service, defaultURL, accept string) *todohttp.Client {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = defaultURL
	}
	return todohttp.NewClient(todohttp.ClientConfig{
		Client:      c.HTTPClient,
		BaseURL:     baseURL,
		ServiceName: service,
		Accept:      accept,
		Timeout:     c.Timeout,
		MaxRetries:  c.MaxRetries,
		RetryWait:   c.RetryWait,
		Logger:      c.Logger,
	})
}

// wrapNotFound turns a registry 404/410 into ErrNotFound, keeping the cause.
func wrapNotFound(name string, err error) error {
	if todohttp.IsNotFound(err) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, name, err)
	}
	return fmt.Errorf("lookup %s: %w", name, err)
}

package gems

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/mod/module"

	todohttp "github.com/randalmurphal/todowatch/http"
)

// DefaultGoProxyURL is the public Go module proxy.
const DefaultGoProxyURL = "https://proxy.golang.org"

// GoProxy implements Source using the GOPROXY protocol's version list.
type GoProxy struct {
	client *todohttp.Client
}

// NewGoProxy creates a Go module proxy source.
func NewGoProxy(cfg Config) *GoProxy {
	return &GoProxy{client: cfg.client("goproxy", DefaultGoProxyURL, "text/plain")}
}

// Versions implements Source. The proxy lists tagged versions only; a module
// with no tags yields an empty list.
func (g *GoProxy) Versions(ctx context.Context, modulePath string) ([]string, error) {
	escaped, err := module.EscapePath(strings.TrimSpace(modulePath))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}

	body, err := g.client.GetRaw(ctx, "/"+escaped+"/@v/list")
	if err != nil {
		return nil, wrapNotFound(modulePath, err)
	}

	var versions []string
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			versions = append(versions, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read goproxy list for %s: %w", modulePath, err)
	}
	return versions, nil
}

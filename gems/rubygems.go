package gems

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	todohttp "github.com/randalmurphal/todowatch/http"
)

// DefaultRubyGemsURL is the public RubyGems registry.
const DefaultRubyGemsURL = "https://rubygems.org"

// RubyGems implements Source using the rubygems.org versions API.
type RubyGems struct {
	client *todohttp.Client
}

// NewRubyGems creates a RubyGems source.
func NewRubyGems(cfg Config) *RubyGems {
	return &RubyGems{client: cfg.client("rubygems", DefaultRubyGemsURL, "application/json")}
}

type gemVersion struct {
	Number     string `json:"number"`
	Prerelease bool   `json:"prerelease"`
}

// Versions implements Source.
func (r *RubyGems) Versions(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidName)
	}

	var versions []gemVersion
	if err := r.client.Get(ctx, "/api/v1/versions/"+url.PathEscape(name)+".json", &versions); err != nil {
		return nil, wrapNotFound(name, err)
	}

	numbers := make([]string, 0, len(versions))
	for _, v := range versions {
		if v.Number != "" {
			numbers = append(numbers, v.Number)
		}
	}
	return numbers, nil
}

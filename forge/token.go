package forge

import (
	"os"
	"strings"
	"unicode"
)

// TokenResolver picks the token for a repository. With Prefix
// "TODOWATCH_GITHUB_TOKEN" and ref "shopify/rails", it checks
// TODOWATCH_GITHUB_TOKEN__SHOPIFY__RAILS, then TODOWATCH_GITHUB_TOKEN__SHOPIFY,
// then Default.
type TokenResolver struct {
	// Prefix is the environment variable stem for scoped tokens.
	// Scoped lookup is skipped when empty.
	Prefix string

	// Default is used when no scoped token is set.
	Default string

	// Lookup reads the environment. Defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)
}

// Token returns the token for owner/repo, or "" for anonymous access.
func (r TokenResolver) Token(owner, repo string) string {
	if r.Prefix != "" {
		lookup := r.Lookup
		if lookup == nil {
			lookup = os.LookupEnv
		}
		for _, key := range []string{
			r.Prefix + "__" + envSegment(owner) + "__" + envSegment(repo),
			r.Prefix + "__" + envSegment(owner),
		} {
			if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return strings.TrimSpace(r.Default)
}

// envSegment upper-cases a name and replaces characters that cannot appear
// in an environment variable name.
func envSegment(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, s)
}

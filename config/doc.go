// Package config resolves todowatch settings from layered sources.
//
// Precedence, highest first:
//  1. Flag overrides passed to ResolveWithFlags
//  2. Environment variables (TODOWATCH_<KEY>, e.g. TODOWATCH_HTTP_TIMEOUT)
//  3. Local config (.todowatch.yaml in the git root)
//  4. Global config (~/.config/todowatch/config.yaml)
//  5. Built-in defaults
//
// Credentials (github_token, gitlab_token) are ignored in the local config,
// which is usually committed alongside the code it annotates.
//
// # Basic Usage
//
//	settings, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	fmt.Println(settings.HTTPTimeout) // 10s
//
// For finer control, resolve the raw values first:
//
//	resolver := config.NewResolver(config.ResolverConfig{})
//	resolved := resolver.Resolve()
//	fmt.Println(resolved.Source(config.KeyRubyGemsURL)) // "default"
//	settings, err := config.FromResolved(resolved)
//
// # Config Sources
//
// Each resolved value tracks where it came from:
//   - "default": Built-in default value
//   - "global": ~/.config/todowatch/config.yaml
//   - "local": .todowatch.yaml in git root
//   - "env": Environment variable
//   - "flag": Explicit override
package config

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/randalmurphal/todowatch/testutil"
)

// envMap returns a LookupEnv backed by vars.
func envMap(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestResolver_Defaults(t *testing.T) {
	resolver := NewResolverWithPaths(ResolverConfig{LookupEnv: envMap(nil)}, "", "")

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyRubyGemsURL); got != "https://rubygems.org" {
		t.Errorf("rubygems_url = %q, want %q", got, "https://rubygems.org")
	}
	if got := cfg.Source(KeyHTTPTimeout); got != SourceDefault {
		t.Errorf("source = %q, want %q", got, SourceDefault)
	}
	if len(cfg.All()) != len(Keys()) {
		t.Errorf("got %d keys, want %d", len(cfg.All()), len(Keys()))
	}
}

func TestResolver_EnvOverridesDefaults(t *testing.T) {
	resolver := NewResolverWithPaths(ResolverConfig{
		LookupEnv: envMap(map[string]string{
			"TODOWATCH_HTTP_TIMEOUT": "3s",
			"TODOWATCH_GITHUB_TOKEN": "ghp_env",
		}),
	}, "", "")

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyHTTPTimeout); got != "3s" {
		t.Errorf("http_timeout = %q, want %q", got, "3s")
	}
	if got, src := cfg.GetWithSource(KeyGitHubToken); got != "ghp_env" || src != SourceEnv {
		t.Errorf("github_token = %q from %q, want ghp_env from env", got, src)
	}
}

func TestResolver_GlobalConfig(t *testing.T) {
	configPath := testutil.TempFileString(t, "config.yaml", "rubygems_url: https://gems.internal\nhttp_max_retries: 5\n")

	resolver := NewResolverWithPaths(ResolverConfig{LookupEnv: envMap(nil)}, configPath, "")
	cfg := resolver.Resolve()

	if got := cfg.Get(KeyRubyGemsURL); got != "https://gems.internal" {
		t.Errorf("rubygems_url = %q", got)
	}
	if got := cfg.Get(KeyHTTPMaxRetries); got != "5" {
		t.Errorf("http_max_retries = %q, want %q", got, "5")
	}
	if got := cfg.Source(KeyRubyGemsURL); got != SourceGlobal {
		t.Errorf("source = %q, want %q", got, SourceGlobal)
	}
}

func TestResolver_LocalConfig(t *testing.T) {
	repo := testutil.RepoDir(t, map[string]string{
		".todowatch.yaml": "gitlab_url: https://gitlab.example.com\n",
		"src/app/main.go": "package main\n",
	})

	resolver := NewResolver(ResolverConfig{
		StartDir:  filepath.Join(repo, "src", "app"),
		LookupEnv: envMap(nil),
	})
	cfg := resolver.Resolve()

	if resolver.GitRoot() != repo {
		t.Errorf("GitRoot() = %q, want %q", resolver.GitRoot(), repo)
	}
	if got := cfg.Get(KeyGitLabURL); got != "https://gitlab.example.com" {
		t.Errorf("gitlab_url = %q", got)
	}
	if got := cfg.Source(KeyGitLabURL); got != SourceLocal {
		t.Errorf("source = %q, want %q", got, SourceLocal)
	}
}

func TestResolver_LocalConfigIgnoresSecrets(t *testing.T) {
	local := testutil.TempFileString(t, ".todowatch.yaml", "github_token: committed\ngoproxy_url: https://proxy.internal\n")

	resolver := NewResolverWithPaths(ResolverConfig{LookupEnv: envMap(nil)}, "", local)
	cfg := resolver.Resolve()

	if got := cfg.Get(KeyGitHubToken); got != "" {
		t.Errorf("github_token = %q, want it ignored", got)
	}
	if got := cfg.Get(KeyGoProxyURL); got != "https://proxy.internal" {
		t.Errorf("goproxy_url = %q", got)
	}
	if len(resolver.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one", resolver.Warnings)
	}
}

func TestResolver_Priority(t *testing.T) {
	global := testutil.TempFileString(t, "config.yaml", "gitlab_url: https://global\nrubygems_url: https://global\nhttp_timeout: 20s\n")
	local := testutil.TempFileString(t, ".todowatch.yaml", "gitlab_url: https://local\nrubygems_url: https://local\n")

	resolver := NewResolverWithPaths(ResolverConfig{
		LookupEnv: envMap(map[string]string{"TODOWATCH_GITLAB_URL": "https://env"}),
	}, global, local)
	cfg := resolver.Resolve()

	tests := []struct {
		key    string
		want   string
		source Source
	}{
		{KeyGitLabURL, "https://env", SourceEnv},
		{KeyRubyGemsURL, "https://local", SourceLocal},
		{KeyHTTPTimeout, "20s", SourceGlobal},
		{KeyHTTPRetryWait, "1s", SourceDefault},
	}
	for _, tt := range tests {
		got, source := cfg.GetWithSource(tt.key)
		if got != tt.want || source != tt.source {
			t.Errorf("%s = %q from %q, want %q from %q", tt.key, got, source, tt.want, tt.source)
		}
	}
}

func TestResolver_ResolveWithFlags(t *testing.T) {
	resolver := NewResolverWithPaths(ResolverConfig{LookupEnv: envMap(nil)}, "", "")

	cfg := resolver.ResolveWithFlags(map[string]string{
		KeyHTTPTimeout: "30s",
		KeyGitHubToken: "",
	})

	if got := cfg.Get(KeyHTTPTimeout); got != "30s" {
		t.Errorf("http_timeout = %q, want %q", got, "30s")
	}
	if got := cfg.Source(KeyHTTPTimeout); got != SourceFlag {
		t.Errorf("source = %q, want %q", got, SourceFlag)
	}
	if got := cfg.Source(KeyGitHubToken); got != SourceDefault {
		t.Errorf("empty flag should not override, source = %q", got)
	}
}

func TestResolver_UnknownAndMalformed(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		global := testutil.TempFileString(t, "config.yaml", "rubygems_url: https://gems\nno_such_key: value\n")
		resolver := NewResolverWithPaths(ResolverConfig{LookupEnv: envMap(nil)}, global, "")

		cfg := resolver.Resolve()
		if got := cfg.Get("no_such_key"); got != "" {
			t.Errorf("no_such_key = %q, want empty", got)
		}
		if len(resolver.Warnings) != 1 {
			t.Errorf("Warnings = %v, want one", resolver.Warnings)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		global := testutil.TempFileString(t, "config.yaml", "rubygems_url: [unterminated\n")
		resolver := NewResolverWithPaths(ResolverConfig{LookupEnv: envMap(nil)}, global, "")

		cfg := resolver.Resolve()
		if got := cfg.Source(KeyRubyGemsURL); got != SourceDefault {
			t.Errorf("source = %q, want default after parse failure", got)
		}
		if len(resolver.Warnings) != 1 {
			t.Errorf("Warnings = %v, want one", resolver.Warnings)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		resolver := NewResolverWithPaths(ResolverConfig{LookupEnv: envMap(nil)},
			filepath.Join(t.TempDir(), "absent.yaml"), "")
		resolver.Resolve()
		if len(resolver.Warnings) != 0 {
			t.Errorf("Warnings = %v, want none", resolver.Warnings)
		}
	})
}

func TestFindGitRoot(t *testing.T) {
	tmpDir := t.TempDir()

	nested := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	root, err := findGitRoot(nested)
	if err != nil {
		t.Fatalf("findGitRoot: %v", err)
	}
	if root != tmpDir {
		t.Errorf("findGitRoot() = %q, want %q", root, tmpDir)
	}
}

func TestFindGitRoot_NotFound(t *testing.T) {
	root, err := findGitRoot(t.TempDir())
	if err != nil {
		t.Fatalf("findGitRoot: %v", err)
	}
	if root != "" {
		t.Errorf("findGitRoot() = %q, want empty", root)
	}
}

func TestFromResolved(t *testing.T) {
	resolver := NewResolverWithPaths(ResolverConfig{
		LookupEnv: envMap(map[string]string{
			"TODOWATCH_GITHUB_TOKEN":  " ghp_padded ",
			"TODOWATCH_DATE_LOCATION": "UTC",
		}),
	}, "", "")

	s, err := FromResolved(resolver.Resolve())
	if err != nil {
		t.Fatalf("FromResolved: %v", err)
	}

	if s.GitHubToken != "ghp_padded" {
		t.Errorf("GitHubToken = %q", s.GitHubToken)
	}
	if s.HTTPTimeout != 10*time.Second || s.HTTPRetryWait != time.Second || s.HTTPMaxRetries != 3 {
		t.Errorf("http settings = %v/%v/%d", s.HTTPTimeout, s.HTTPRetryWait, s.HTTPMaxRetries)
	}
	if s.DateLocation != time.UTC {
		t.Errorf("DateLocation = %v, want UTC", s.DateLocation)
	}
	if s.RubyGemsURL != "https://rubygems.org" || s.GoProxyURL != "https://proxy.golang.org" {
		t.Errorf("registry URLs = %q, %q", s.RubyGemsURL, s.GoProxyURL)
	}
}

func TestFromResolved_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{KeyHTTPTimeout, "ten seconds"},
		{KeyHTTPTimeout, "-1s"},
		{KeyHTTPRetryWait, "0"},
		{KeyHTTPMaxRetries, "0"},
		{KeyHTTPMaxRetries, "lots"},
		{KeyDateLocation, "Mars/Olympus_Mons"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			resolver := NewResolverWithPaths(ResolverConfig{LookupEnv: envMap(nil)}, "", "")
			cfg := resolver.ResolveWithFlags(map[string]string{tt.key: tt.value})

			_, err := FromResolved(cfg)
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("error = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestFromResolved_GitHubApp(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *GitHubApp
		wantErr bool
	}{
		{name: "not configured"},
		{
			name: "complete",
			env: map[string]string{
				"TODOWATCH_GITHUB_APP_ID":              "12345",
				"TODOWATCH_GITHUB_APP_INSTALLATION_ID": "678",
				"TODOWATCH_GITHUB_APP_PRIVATE_KEY":     "/etc/todowatch/app.pem",
			},
			want: &GitHubApp{AppID: 12345, InstallationID: 678, PrivateKeyPath: "/etc/todowatch/app.pem"},
		},
		{
			name: "missing installation",
			env: map[string]string{
				"TODOWATCH_GITHUB_APP_ID":          "12345",
				"TODOWATCH_GITHUB_APP_PRIVATE_KEY": "/etc/todowatch/app.pem",
			},
			wantErr: true,
		},
		{
			name: "missing key",
			env: map[string]string{
				"TODOWATCH_GITHUB_APP_ID":              "12345",
				"TODOWATCH_GITHUB_APP_INSTALLATION_ID": "678",
			},
			wantErr: true,
		},
		{
			name:    "non-numeric id",
			env:     map[string]string{"TODOWATCH_GITHUB_APP_ID": "my-app"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolverWithPaths(ResolverConfig{LookupEnv: envMap(tt.env)}, "", "")

			s, err := FromResolved(resolver.Resolve())
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Errorf("error = %v, want ErrInvalidValue", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromResolved: %v", err)
			}
			if !reflect.DeepEqual(s.GitHubApp, tt.want) {
				t.Errorf("GitHubApp = %+v, want %+v", s.GitHubApp, tt.want)
			}
		})
	}
}

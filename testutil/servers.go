package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Server wraps an httptest.Server with a request counter and an optional
// forced status code for every request.
type Server struct {
	*httptest.Server

	hits   atomic.Int32
	status atomic.Int32
}

// Hits returns how many requests the server has received.
func (s *Server) Hits() int {
	return int(s.hits.Load())
}

// FailWith makes every subsequent request answer with status.
// Zero restores normal behavior.
func (s *Server) FailWith(status int) {
	s.status.Store(int32(status))
}

func newServer(t *testing.T, handler http.HandlerFunc) *Server {
	t.Helper()

	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if status := int(s.status.Load()); status != 0 {
			w.WriteHeader(status)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// UnreachableURL returns the URL of a server that has already shut down.
func UnreachableURL(t *testing.T) string {
	t.Helper()

	s := httptest.NewServer(http.NotFoundHandler())
	u := s.URL
	s.Close()
	return u
}

// NewRubyGemsServer serves /api/v1/versions/<name>.json from versions.
// Unknown gems get a 404.
func NewRubyGemsServer(t *testing.T, versions map[string][]string) *Server {
	t.Helper()

	return newServer(t, func(w http.ResponseWriter, r *http.Request) {
		name, ok := strings.CutPrefix(r.URL.Path, "/api/v1/versions/")
		name, hasExt := strings.CutSuffix(name, ".json")
		if !ok || !hasExt {
			http.NotFound(w, r)
			return
		}
		list, found := versions[name]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("This rubygem could not be found."))
			return
		}

		type entry struct {
			Number     string `json:"number"`
			Prerelease bool   `json:"prerelease"`
		}
		entries := make([]entry, len(list))
		for i, v := range list {
			entries[i] = entry{Number: v, Prerelease: strings.ContainsAny(v, "abcdefghijklmnopqrstuvwxyz")}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entries)
	})
}

// NewGoProxyServer serves /<escaped module>/@v/list from versions.
// Unknown modules get a 410 like proxy.golang.org.
func NewGoProxyServer(t *testing.T, versions map[string][]string) *Server {
	t.Helper()

	return newServer(t, func(w http.ResponseWriter, r *http.Request) {
		mod, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/@v/list")
		if !ok {
			http.NotFound(w, r)
			return
		}
		list, found := versions[unescapeModule(mod)]
		if !found {
			http.Error(w, "not found: "+mod, http.StatusGone)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		for _, v := range list {
			fmt.Fprintln(w, v)
		}
	})
}

// unescapeModule reverses the GOPROXY case encoding ("!a" -> "A").
func unescapeModule(s string) string {
	var b strings.Builder
	upper := false
	for _, r := range s {
		if r == '!' {
			upper = true
			continue
		}
		if upper {
			r -= 'a' - 'A'
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Issue is the state a fake code host reports for one issue or pull request.
type Issue struct {
	// State is "open" or "closed" on GitHub; "opened", "closed", "merged",
	// or "locked" on GitLab.
	State string

	// PullRequest marks a GitHub issue as a pull request.
	PullRequest bool

	// Merged is reported by the GitHub pulls endpoint.
	Merged bool
}

// CodeHost is a fake GitHub or GitLab API.
type CodeHost struct {
	*Server

	mu           sync.Mutex
	issues       map[string]Issue
	token        string
	auths        []string
	installation int64
	appJWTs      []string
}

// EnableApp makes the GitHub fake mint the server token for installation
// id at POST /app/installations/{id}/access_tokens.
func (h *CodeHost) EnableApp(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.installation = id
}

// AppJWTs returns the app JWTs presented when requesting installation
// tokens.
func (h *CodeHost) AppJWTs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.appJWTs...)
}

// mintInstallationToken serves the GitHub App token exchange.
func (h *CodeHost) mintInstallationToken(w http.ResponseWriter, r *http.Request, id string) {
	jwt, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if r.Method != http.MethodPost || !ok || strings.Count(jwt, ".") != 2 {
		writeJSONError(w, http.StatusUnauthorized, "A JSON web token could not be decoded")
		return
	}

	h.mu.Lock()
	h.appJWTs = append(h.appJWTs, jwt)
	installation := h.installation
	h.mu.Unlock()

	if installation == 0 || id != strconv.FormatInt(installation, 10) {
		writeJSONError(w, http.StatusNotFound, "Not Found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token":      h.token,
		"expires_at": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})
}

// SetIssue adds or replaces the issue at key ("owner/repo#number").
func (h *CodeHost) SetIssue(key string, issue Issue) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.issues[key] = issue
}

// Auths returns the credentials presented on each request.
func (h *CodeHost) Auths() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.auths...)
}

func (h *CodeHost) lookup(key string) (Issue, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	issue, ok := h.issues[key]
	return issue, ok
}

// authorize records the credential and reports whether it is accepted.
func (h *CodeHost) authorize(w http.ResponseWriter, got string) bool {
	h.mu.Lock()
	h.auths = append(h.auths, got)
	h.mu.Unlock()

	if h.token == "" {
		return true
	}
	if got == "" {
		writeJSONError(w, http.StatusUnauthorized, "Requires authentication")
		return false
	}
	if got != h.token {
		writeJSONError(w, http.StatusUnauthorized, "Bad credentials")
		return false
	}
	return true
}

// NewGitHubServer fakes GET /repos/{owner}/{repo}/issues/{n} and
// /repos/{owner}/{repo}/pulls/{n}. When token is non-empty, requests must
// carry "Bearer <token>". See EnableApp for installation tokens.
func NewGitHubServer(t *testing.T, token string, issues map[string]Issue) *CodeHost {
	t.Helper()

	h := &CodeHost{issues: copyIssues(issues), token: token}
	h.Server = newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if rest, ok := strings.CutPrefix(r.URL.Path, "/app/installations/"); ok {
			if id, ok := strings.CutSuffix(rest, "/access_tokens"); ok {
				h.mintInstallationToken(w, r, id)
				return
			}
		}
		if !h.authorize(w, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")) {
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 5 || parts[0] != "repos" {
			writeJSONError(w, http.StatusNotFound, "Not Found")
			return
		}
		number, err := strconv.Atoi(parts[4])
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "Not Found")
			return
		}
		issue, ok := h.lookup(fmt.Sprintf("%s/%s#%d", parts[1], parts[2], number))
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Not Found")
			return
		}

		body := map[string]any{"number": number, "state": issue.State}
		switch parts[3] {
		case "issues":
			if issue.PullRequest {
				body["pull_request"] = map[string]any{"url": r.URL.String()}
			}
		case "pulls":
			if !issue.PullRequest {
				writeJSONError(w, http.StatusNotFound, "Not Found")
				return
			}
			body["merged"] = issue.Merged
		default:
			writeJSONError(w, http.StatusNotFound, "Not Found")
			return
		}
		writeJSON(w, body)
	})
	return h
}

// NewGitLabServer fakes GET /api/v4/projects/{id}/issues/{iid} and
// /api/v4/projects/{id}/merge_requests/{iid}. Keys are
// "namespace/project#iid" for issues and "namespace/project!iid" for merge
// requests. When token is non-empty, requests must carry PRIVATE-TOKEN.
func NewGitLabServer(t *testing.T, token string, issues map[string]Issue) *CodeHost {
	t.Helper()

	h := &CodeHost{issues: copyIssues(issues), token: token}
	h.Server = newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !h.authorize(w, r.Header.Get("PRIVATE-TOKEN")) {
			return
		}

		parts := strings.Split(strings.Trim(r.URL.EscapedPath(), "/"), "/")
		if len(parts) != 6 || parts[0] != "api" || parts[2] != "projects" {
			writeJSONError(w, http.StatusNotFound, "404 Not found")
			return
		}
		project, err := url.PathUnescape(parts[3])
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "404 Project Not Found")
			return
		}
		iid, err := strconv.Atoi(parts[5])
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "404 Not found")
			return
		}

		sep := "#"
		if parts[4] == "merge_requests" {
			sep = "!"
		} else if parts[4] != "issues" {
			writeJSONError(w, http.StatusNotFound, "404 Not found")
			return
		}
		issue, ok := h.lookup(project + sep + strconv.Itoa(iid))
		if !ok {
			writeJSONError(w, http.StatusNotFound, "404 Not found")
			return
		}
		// go-gitlab cannot decode an issue without a global "id".
		writeJSON(w, map[string]any{"id": 1000 + iid, "iid": iid, "state": issue.State})
	})
	return h
}

func copyIssues(in map[string]Issue) map[string]Issue {
	out := make(map[string]Issue, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"commitnotes/internal/common"
)

// TestHelper provides common test utilities
type TestHelper struct {
	t *testing.T
}

// NewTestHelper creates a new test helper
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// WriteFile writes content to a file in the given directory
func (h *TestHelper) WriteFile(dir, filename, content string) string {
	h.t.Helper()
	path := filepath.Join(dir, filename)

	if err := os.MkdirAll(filepath.Dir(path), common.DirPermissionNormal); err != nil {
		h.t.Fatalf("Failed to create directories: %v", err)
	}

	if err := os.WriteFile(path, []byte(content), common.FilePermissionNormal); err != nil {
		h.t.Fatalf("Failed to write file %s: %v", path, err)
	}

	return path
}

// ReadFile returns the content of path, failing the test if it cannot be read
func (h *TestHelper) ReadFile(path string) string {
	h.t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		h.t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}

// Chdir switches the working directory for the rest of the test
func (h *TestHelper) Chdir(dir string) {
	h.t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		h.t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		h.t.Fatalf("Failed to change directory: %v", err)
	}
	h.t.Cleanup(func() { _ = os.Chdir(wd) })
}

// APICommit builds one entry of the GitHub commit-listing payload
func APICommit(sha, message, name, login string) map[string]interface{} {
	return map[string]interface{}{
		"sha": sha,
		"commit": map[string]interface{}{
			"message": message,
			"author": map[string]interface{}{
				"name":  name,
				"email": login + "@example.com",
				"date":  "2023-07-20T08:00:00Z",
			},
		},
		"author": map[string]interface{}{
			"login": login,
		},
		"html_url": "https://github.com/devchat-ai/gopool/commit/" + sha,
	}
}

// GitHubServer serves a fixed commit list for /repos/{org}/{repo}/commits
type GitHubServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
}

// NewGitHubServer starts a fake API that answers every request with status and commits
func NewGitHubServer(t *testing.T, status int, commits []map[string]interface{}) *GitHubServer {
	t.Helper()
	s := &GitHubServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte(`{"message": "API rate limit exceeded"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(commits)
	}))
	t.Cleanup(s.Close)
	return s
}

// Requests returns "METHOD path" for every request received so far
func (s *GitHubServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

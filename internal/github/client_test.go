package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"commitnotes/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixBugCommit = `{
	"sha": "abc1234def5678abc1234def5678abc1234def56",
	"commit": {"message": "Fix bug\n\nDetails here", "author": {"name": "Jane", "email": "jane@example.com"}},
	"author": {"login": "jane", "id": 1}
}`

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var requests []*http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Clone(context.Background()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestFetchCommitsMapsRecord(t *testing.T) {
	server, requests := newTestServer(t, http.StatusOK, "["+fixBugCommit+"]")
	client := NewClient(server.URL, WithUserAgent("commitnotes/test"))

	records, err := client.FetchCommits(context.Background(), "devchat-ai", "gopool")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Fix bug", rec.Title)
	assert.Equal(t, "abc1234def5678abc1234def5678abc1234def56", rec.Hash)
	assert.Equal(t, "abc1234", rec.ShortHash())
	assert.Equal(t, "https://github.com/devchat-ai/gopool/commit/abc1234def5678abc1234def5678abc1234def56", rec.URL)
	assert.Equal(t, "Jane", rec.AuthorName)
	assert.Equal(t, "jane", rec.AuthorLogin)
	assert.Equal(t, "https://github.com/jane", rec.AuthorURL)
	assert.Equal(t, "./commits/abc1234.md", rec.PromptLink)
	assert.Equal(t, "./commits/abc1234_zh.md", rec.PromptLinkZh)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/repos/devchat-ai/gopool/commits", req.URL.Path)
	assert.Empty(t, req.URL.RawQuery)
	assert.Equal(t, "application/vnd.github+json", req.Header.Get("Accept"))
	assert.Equal(t, "commitnotes/test", req.Header.Get("User-Agent"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestFetchCommitsPreservesOrder(t *testing.T) {
	var entries []string
	for i := 0; i < 5; i++ {
		entries = append(entries, fmt.Sprintf(
			`{"sha": "%07d0000000", "commit": {"message": "commit %d\nbody", "author": {"name": "Dev %d"}}, "author": {"login": "dev%d"}}`,
			i, i, i, i))
	}
	server, _ := newTestServer(t, http.StatusOK, "["+strings.Join(entries, ",")+"]")

	records, err := NewClient(server.URL).FetchCommits(context.Background(), "org", "repo")
	require.NoError(t, err)
	require.Len(t, records, 5)

	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("commit %d", i), rec.Title)
		assert.Equal(t, fmt.Sprintf("%07d", i), rec.ShortHash())
		assert.Equal(t, fmt.Sprintf("dev%d", i), rec.AuthorLogin)
	}
}

func TestFetchCommitsEmptyList(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, "[]")

	records, err := NewClient(server.URL).FetchCommits(context.Background(), "org", "repo")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchCommitsCustomLinks(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, "["+fixBugCommit+"]")
	client := NewClient(server.URL+"/", WithWebURL("https://git.example.com/"), WithLinkPrefix("notes/"))

	records, err := client.FetchCommits(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "https://git.example.com/acme/widgets/commit/abc1234def5678abc1234def5678abc1234def56", records[0].URL)
	assert.Equal(t, "https://git.example.com/jane", records[0].AuthorURL)
	assert.Equal(t, "notes/abc1234.md", records[0].PromptLink)
}

func TestFetchCommitsHTTPError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"rate limited", http.StatusForbidden},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, requests := newTestServer(t, tt.status, `{"message": "nope"}`)

			records, err := NewClient(server.URL).FetchCommits(context.Background(), "org", "repo")
			require.Error(t, err)
			assert.Nil(t, records)
			assert.Equal(t, errors.ErrCodeResponseStatus, errors.GetErrorCode(err))
			assert.Contains(t, err.Error(), fmt.Sprintf("HTTP %d", tt.status))
			// Never retried
			assert.Len(t, *requests, 1)
		})
	}
}

func TestFetchCommitsMissingField(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		field string
	}{
		{"no sha", `{"commit": {"message": "m", "author": {"name": "n"}}, "author": {"login": "l"}}`, "sha"},
		{"no commit", `{"sha": "abc1234", "author": {"login": "l"}}`, "commit"},
		{"no message", `{"sha": "abc1234", "commit": {"author": {"name": "n"}}, "author": {"login": "l"}}`, "commit.message"},
		{"no commit author", `{"sha": "abc1234", "commit": {"message": "m"}, "author": {"login": "l"}}`, "commit.author"},
		{"no author name", `{"sha": "abc1234", "commit": {"message": "m", "author": {}}, "author": {"login": "l"}}`, "commit.author.name"},
		{"null author", `{"sha": "abc1234", "commit": {"message": "m", "author": {"name": "n"}}, "author": null}`, "author"},
		{"no login", `{"sha": "abc1234", "commit": {"message": "m", "author": {"name": "n"}}, "author": {}}`, "author.login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, http.StatusOK, "["+fixBugCommit+","+tt.entry+"]")

			records, err := NewClient(server.URL).FetchCommits(context.Background(), "org", "repo")
			require.Error(t, err)
			assert.Nil(t, records)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errors.ErrCodeMissingField, appErr.Code)
			assert.Equal(t, tt.field, appErr.Context["field"])
			assert.Equal(t, 1, appErr.Context["index"])
		})
	}
}

func TestFetchCommitsMalformedBody(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"message": "not a list"}`)

	_, err := NewClient(server.URL).FetchCommits(context.Background(), "org", "repo")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeResultParsing, errors.GetErrorCode(err))
}

func TestFetchCommitsNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).FetchCommits(context.Background(), "org", "repo")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRequestFailed, errors.GetErrorCode(err))
}

func TestFetchCommitsHonoursContextAndTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	_, err := client.FetchCommits(context.Background(), "org", "repo")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRequestFailed, errors.GetErrorCode(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewClient(server.URL).FetchCommits(ctx, "org", "repo")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommitsURL(t *testing.T) {
	client := NewClient("")
	assert.Equal(t, "https://api.github.com/repos/devchat-ai/gopool/commits", client.CommitsURL("devchat-ai", "gopool"))
}

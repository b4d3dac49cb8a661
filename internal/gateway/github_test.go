package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	gw := &GitHubGateway{
		restClient: restClient,
		logger:     log.New(io.Discard, "", 0),
	}
	return gw, server
}

// searchPage renders a search response with n synthetic PR items, numbered
// from the given base.
func searchPage(n, base int) string {
	items := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]interface{}{
			"id":             base + i,
			"number":         base + i,
			"title":          fmt.Sprintf("PR %d", base+i),
			"state":          "open",
			"created_at":     "2024-05-09T10:00:00Z",
			"updated_at":     "2024-05-09T12:00:00Z",
			"html_url":       fmt.Sprintf("https://github.com/org/repo/pull/%d", base+i),
			"repository_url": "https://api.github.com/repos/org/repo",
			"pull_request":   map[string]interface{}{"url": "https://api.github.com/repos/org/repo/pulls/1"},
			"user": map[string]interface{}{
				"login":      "alice",
				"avatar_url": "https://avatars.example/alice",
				"html_url":   "https://github.com/alice",
			},
		})
	}
	body, _ := json.Marshal(map[string]interface{}{
		"total_count":        n,
		"incomplete_results": false,
		"items":              items,
	})
	return string(body)
}

func TestGitHubGateway_SearchIssues(t *testing.T) {
	t.Run("happy path - maps summary fields", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.String(), "/search/issues")
			assert.Contains(t, r.URL.Query().Get("q"), "author:alice")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{"total_count": 1, "items": [{
				"id": 42, "number": 7, "title": "Add feature", "state": "closed",
				"created_at": "2024-05-09T10:00:00Z", "updated_at": "2024-05-10T10:00:00Z",
				"html_url": "https://github.com/org/repo/pull/7",
				"repository_url": "https://api.github.com/repos/org/repo",
				"pull_request": {"merged_at": "2024-05-10T09:00:00Z"},
				"user": {"login": "alice", "avatar_url": "https://a", "html_url": "https://github.com/alice"}
			}]}`)
		}
		gw, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		items, err := gw.SearchIssues(context.Background(), "type:pr author:alice", "", domain.SortDesc)
		require.NoError(t, err)
		require.Len(t, items, 1)

		item := items[0]
		assert.Equal(t, int64(42), item.ID)
		assert.Equal(t, 7, item.Number)
		assert.Equal(t, "Add feature", item.Title)
		assert.Equal(t, "closed", item.State)
		assert.Equal(t, "org/repo", item.RepoFullName)
		assert.True(t, item.IsPullRequest)
		require.NotNil(t, item.MergedAt)
		assert.Equal(t, time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC), item.MergedAt.UTC())
		assert.Equal(t, "alice", item.AuthorLogin)
	})

	t.Run("terminates on first empty page", func(t *testing.T) {
		requests := 0
		handler := func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{"total_count": 5000, "items": []}`)
		}
		gw, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		items, err := gw.SearchIssues(context.Background(), "type:pr", "", domain.SortDesc)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, 1, requests, "should stop after the first empty page")
	})

	t.Run("never exceeds the provider result cap", func(t *testing.T) {
		requests := 0
		var gwURL string
		handler := func(w http.ResponseWriter, r *http.Request) {
			requests++
			// Always advertise a next page: the provider claims far more
			// results than the cap allows.
			w.Header().Set("Link", fmt.Sprintf(`<%s/search/issues?q=type:pr&page=%d>; rel="next"`, gwURL, requests+1))
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, searchPage(100, requests*1000))
		}
		gw, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()
		gwURL = server.URL

		items, err := gw.SearchIssues(context.Background(), "type:pr", "", domain.SortDesc)
		require.NoError(t, err)
		assert.Len(t, items, 1000)
		assert.Equal(t, 10, requests, "should stop at page*pageSize >= 1000")
	})

	t.Run("error case - discards partial results", func(t *testing.T) {
		requests := 0
		var gwURL string
		handler := func(w http.ResponseWriter, r *http.Request) {
			requests++
			if requests > 1 {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
				return
			}
			w.Header().Set("Link", fmt.Sprintf(`<%s/search/issues?q=type:pr&page=2>; rel="next"`, gwURL))
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, searchPage(100, 0))
		}
		gw, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()
		gwURL = server.URL

		items, err := gw.SearchIssues(context.Background(), "type:pr", "", domain.SortDesc)
		assert.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.Contains(t, err.Error(), "failed to search issues")
		assert.Nil(t, items)
	})
}

func TestGitHubGateway_FetchPullRequest(t *testing.T) {
	t.Run("happy path - merged pull request", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/repos/org/repo/pulls/7"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{
				"id": 42, "number": 7, "title": "Add feature", "state": "closed",
				"created_at": "2024-05-09T10:00:00Z", "updated_at": "2024-05-10T10:00:00Z",
				"html_url": "https://github.com/org/repo/pull/7",
				"merged_at": "2024-05-10T09:00:00Z"
			}`)
		}
		gw, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		detail, err := gw.FetchPullRequest(context.Background(), "org", "repo", 7)
		require.NoError(t, err)
		assert.Equal(t, "closed", detail.State)
		require.NotNil(t, detail.MergedAt)
		assert.Equal(t, time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC), detail.MergedAt.UTC())
	})

	t.Run("happy path - unmerged pull request has nil MergedAt", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{"id": 43, "number": 8, "state": "open", "created_at": "2024-05-09T10:00:00Z"}`)
		}
		gw, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		detail, err := gw.FetchPullRequest(context.Background(), "org", "repo", 8)
		require.NoError(t, err)
		assert.Nil(t, detail.MergedAt)
	})

	t.Run("error case", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `{"message": "bad gateway"}`)
		}
		gw, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		_, err := gw.FetchPullRequest(context.Background(), "org", "repo", 9)
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})
}

func TestGitHubGateway_FetchCommits(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/repos/org/repo/commits"))
		assert.Equal(t, "alice", r.URL.Query().Get("author"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `[
			{"sha": "abc123", "html_url": "https://github.com/org/repo/commit/abc123",
			 "commit": {"message": "fix parser", "author": {"date": "2024-05-09T10:00:00Z"}}},
			{"sha": "def456", "html_url": "https://github.com/org/repo/commit/def456",
			 "commit": {"message": "add tests", "author": {"date": "2024-05-08T10:00:00Z"}}}
		]`)
	}
	gw, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	commits, err := gw.FetchCommits(context.Background(), "org", "repo", "alice")
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "abc123", commits[0].SHA)
	assert.Equal(t, "fix parser", commits[0].Message)
	assert.Equal(t, "def456", commits[1].SHA)
}

func TestGitHubGateway_FetchCommitDetail(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/repos/org/repo/commits/abc123"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"sha": "abc123", "stats": {"additions": 12, "deletions": 3, "total": 15}}`)
	}
	gw, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	detail, err := gw.FetchCommitDetail(context.Background(), "org", "repo", "abc123")
	require.NoError(t, err)
	assert.Equal(t, 12, detail.Additions)
	assert.Equal(t, 3, detail.Deletions)
}

func TestGitHubGateway_FetchOrgRepos(t *testing.T) {
	t.Run("walks every page", func(t *testing.T) {
		requests := 0
		var gwURL string
		handler := func(w http.ResponseWriter, r *http.Request) {
			requests++
			assert.True(t, strings.HasSuffix(r.URL.Path, "/orgs/org/repos"))
			if requests == 1 {
				w.Header().Set("Link", fmt.Sprintf(`<%s/orgs/org/repos?page=2>; rel="next"`, gwURL))
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `[{"name": "repo-a", "stargazers_count": 5, "updated_at": "2024-05-09T10:00:00Z"}]`)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `[{"name": "repo-b", "stargazers_count": 2, "updated_at": "2024-04-01T10:00:00Z"}]`)
		}
		gw, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()
		gwURL = server.URL

		repos, err := gw.FetchOrgRepos(context.Background(), "org")
		require.NoError(t, err)
		require.Len(t, repos, 2)
		assert.Equal(t, "repo-a", repos[0].Name)
		assert.Equal(t, 5, repos[0].Stars)
		assert.Equal(t, "repo-b", repos[1].Name)
	})
}

func TestGitHubGateway_FetchClosedIssues(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/repos/org/repo-a/issues"))
		assert.Equal(t, "closed", r.URL.Query().Get("state"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `[
			{"created_at": "2024-05-01T00:00:00Z", "closed_at": "2024-05-03T00:00:00Z",
			 "labels": [{"name": "High"}, {"name": "bug"}]},
			{"created_at": "2024-05-01T00:00:00Z", "closed_at": "2024-05-02T00:00:00Z",
			 "labels": [], "pull_request": {"url": "https://api.github.com/repos/org/repo-a/pulls/1"}}
		]`)
	}
	gw, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	issues, err := gw.FetchClosedIssues(context.Background(), "org", "repo-a")
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.False(t, issues[0].IsPullRequest)
	assert.Equal(t, []string{"High", "bug"}, issues[0].Labels)
	require.NotNil(t, issues[0].ClosedAt)
	assert.True(t, issues[1].IsPullRequest)
}

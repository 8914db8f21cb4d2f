package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"

	"github.com/google/go-github/v53/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMockGitHubServer 创建一个模拟的 GitHub API 服务器
func setupMockGitHubServer(t *testing.T, mux *http.ServeMux) *Source {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL

	return newSourceWithClient(client, Options{MaxRetries: 2, InitialDelay: time.Millisecond})
}

func repoJSON(id int, fullName string) map[string]any {
	parts := strings.SplitN(fullName, "/", 2)
	return map[string]any{
		"id":                id,
		"name":              parts[1],
		"full_name":         fullName,
		"owner":             map[string]any{"login": parts[0]},
		"html_url":          "https://github.com/" + fullName,
		"description":       "repo " + fullName,
		"language":          "Go",
		"stargazers_count":  120,
		"forks_count":       7,
		"watchers_count":    120,
		"open_issues_count": 4,
		"has_issues":        true,
		"has_wiki":          false,
		"topics":            []string{"cli"},
		"created_at":        "2024-01-02T03:04:05Z",
		"updated_at":        "2026-10-10T00:00:00Z",
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestSource_UserRepos(t *testing.T) {
	t.Run("分页直到不足一页", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "owner", r.URL.Query().Get("affiliation"))
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))

			count := 100
			if r.URL.Query().Get("page") == "2" {
				count = 3
			}
			items := make([]map[string]any, 0, count)
			for i := 0; i < count; i++ {
				items = append(items, repoJSON(i, fmt.Sprintf("me/repo-%d", i)))
			}
			writeJSON(t, w, items)
		})
		src := setupMockGitHubServer(t, mux)

		repos, err := src.UserRepos(context.Background(), "")

		require.NoError(t, err)
		assert.Len(t, repos, 103)
		first := repos[0]
		assert.Equal(t, "me/repo-0", first.FullName)
		assert.Equal(t, "repo-0", first.Name)
		assert.Equal(t, "me", first.Owner)
		assert.Equal(t, 120, first.Stars)
		assert.Equal(t, 4, first.OpenIssues)
		assert.True(t, first.HasIssues)
		assert.Equal(t, []string{"cli"}, first.Topics)
		assert.Equal(t, time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC), first.UpdatedAt.UTC())
	})

	t.Run("指定用户名", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo/repos", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "owner", r.URL.Query().Get("type"))
			writeJSON(t, w, []map[string]any{repoJSON(1, "octo/hello")})
		})
		src := setupMockGitHubServer(t, mux)

		repos, err := src.UserRepos(context.Background(), "octo")

		require.NoError(t, err)
		require.Len(t, repos, 1)
		assert.Equal(t, "octo/hello", repos[0].FullName)
	})

	t.Run("上游错误返回 UPSTREAM_UNAVAILABLE", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Bad credentials"}`)
		})
		src := setupMockGitHubServer(t, mux)

		_, err := src.UserRepos(context.Background(), "")

		require.Error(t, err)
		assert.Equal(t, common.ErrCodeUpstream, common.CodeOf(err))
	})
}

func TestSource_UserEvents(t *testing.T) {
	t.Run("解析 push 的 commit 数", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo/events/public", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[
				{"type":"PushEvent","created_at":"2026-10-15T10:00:00Z","payload":{"commits":[{"sha":"a"},{"sha":"b"}]}},
				{"type":"PushEvent","created_at":"2026-10-14T10:00:00Z","payload":{}},
				{"type":"WatchEvent","created_at":"2026-10-13T10:00:00Z","payload":{"action":"started"}}
			]`)
		})
		src := setupMockGitHubServer(t, mux)

		events, err := src.UserEvents(context.Background(), "octo")

		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, domain.EventPush, events[0].Type)
		assert.True(t, events[0].HasCommits)
		assert.Equal(t, 2, events[0].CommitCount)
		assert.False(t, events[1].HasCommits)
		assert.Equal(t, 1, events[1].Weight())
		assert.Equal(t, domain.EventType("WatchEvent"), events[2].Type)
	})

	t.Run("404 视为没有事件且不重试", func(t *testing.T) {
		var calls int32
		mux := http.NewServeMux()
		mux.HandleFunc("/users/ghost/events/public", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Not Found"}`)
		})
		src := setupMockGitHubServer(t, mux)

		events, err := src.UserEvents(context.Background(), "ghost")

		require.NoError(t, err)
		assert.Empty(t, events)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("用户名为空时先查当前用户", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"login":"octo"}`)
		})
		mux.HandleFunc("/users/octo/events/public", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[]`)
		})
		src := setupMockGitHubServer(t, mux)

		events, err := src.UserEvents(context.Background(), "")

		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name    string
		filters domain.SearchFilters
		want    string
	}{
		{"空条件", domain.SearchFilters{}, "stars:>100"},
		{
			name:    "全部条件",
			filters: domain.SearchFilters{Query: " cli ", Language: "Go", Topics: []string{"devops", " "}, MinStars: 100, GoodFirstIssue: true, HelpWanted: true},
			want:    "cli language:Go topic:devops stars:>=100 good-first-issues:>0 help-wanted-issues:>0",
		},
		{"只有语言", domain.SearchFilters{Language: "Rust"}, "language:Rust"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSearchQuery(tt.filters))
		})
	}
}

func TestSource_SearchRepos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "language:Go stars:>=100 good-first-issues:>0", q.Get("q"))
		assert.Equal(t, "stars", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("order"))
		assert.Equal(t, "100", q.Get("per_page"))
		writeJSON(t, w, map[string]any{
			"total_count": 2,
			"items":       []map[string]any{repoJSON(1, "a/one"), repoJSON(2, "b/two")},
		})
	})
	src := setupMockGitHubServer(t, mux)

	repos, err := src.SearchRepos(context.Background(), domain.SearchFilters{
		Language: "Go", MinStars: 100, GoodFirstIssue: true, Limit: 500,
	})

	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "b/two", repos[1].FullName)
}

func TestSource_Issues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/a/one/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		assert.Empty(t, r.URL.Query().Get("labels"))
		_, _ = io.WriteString(w, `[
			{"id":11,"number":1,"title":"fix typo","state":"open","comments":2,
			 "labels":[{"name":"good first issue","color":"7057ff"}],
			 "user":{"login":"alice","avatar_url":"https://a/x.png"},
			 "created_at":"2026-10-10T00:00:00Z","updated_at":"2026-10-11T00:00:00Z"},
			{"id":12,"number":2,"title":"a PR","state":"open","pull_request":{"url":"https://api.github.com/repos/a/one/pulls/2"}}
		]`)
	})
	src := setupMockGitHubServer(t, mux)

	issues, err := src.Issues(context.Background(), "a", "one", nil)

	require.NoError(t, err)
	require.Len(t, issues, 1)
	got := issues[0]
	assert.Equal(t, 1, got.Number)
	assert.Equal(t, "good first issue", got.Labels[0].Name)
	assert.Equal(t, "alice", got.User.Login)
	assert.Equal(t, 2, got.Comments)
	assert.False(t, got.IsPullRequest)
}

func TestSource_Languages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/a/one/languages", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"Shell":200,"Go":9000,"Makefile":200}`)
	})
	src := setupMockGitHubServer(t, mux)

	langs, err := src.Languages(context.Background(), "a", "one")

	require.NoError(t, err)
	assert.Equal(t, []domain.LanguageShare{
		{Name: "Go", Value: 9000},
		{Name: "Makefile", Value: 200},
		{Name: "Shell", Value: 200},
	}, langs)
}

func TestSource_Retry(t *testing.T) {
	t.Run("5xx 重试后成功", func(t *testing.T) {
		var calls int32
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/a/one", func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, `{"message":"bad gateway"}`)
				return
			}
			writeJSON(t, w, repoJSON(1, "a/one"))
		})
		src := setupMockGitHubServer(t, mux)

		repo, err := src.Repo(context.Background(), "a", "one")

		require.NoError(t, err)
		assert.Equal(t, "a/one", repo.FullName)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("422 不重试", func(t *testing.T) {
		var calls int32
		mux := http.NewServeMux()
		mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"message":"Validation Failed"}`)
		})
		src := setupMockGitHubServer(t, mux)

		_, err := src.SearchRepos(context.Background(), domain.SearchFilters{Query: "x"})

		require.Error(t, err)
		assert.Equal(t, common.ErrCodeUpstream, common.CodeOf(err))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestFactory_ForUser(t *testing.T) {
	f := NewFactory(Options{BaseURL: "https://ghe.example.com/api/v3"})

	src, ok := f.ForUser(&domain.User{AccessToken: "tok"}).(*Source)

	require.True(t, ok)
	assert.Equal(t, "https://ghe.example.com/api/v3/", src.client.BaseURL.String())
	assert.NotNil(t, f.ForUser(nil))
}

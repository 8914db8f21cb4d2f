package github

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"oss-matchmaker/internal/domain"

	"github.com/google/go-github/v53/github"
)

const (
	perPage          = 100
	maxRepoPages     = 10
	issuesPerPage    = 50
	defaultSearchCap = 30
	defaultQuery     = "stars:>100"
)

// UserRepos 分页获取用户的仓库，最多 10 页。username 为空时取 token 对应的用户
func (s *Source) UserRepos(ctx context.Context, username string) ([]domain.Repo, error) {
	opts := &github.RepositoryListOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	if username == "" {
		opts.Affiliation = "owner"
	} else {
		opts.Type = "owner"
	}

	var repos []domain.Repo
	for page := 1; page <= maxRepoPages; page++ {
		opts.Page = page

		var items []*github.Repository
		err := s.call(ctx, "list_repos", func() (*github.Response, error) {
			var resp *github.Response
			var err error
			items, resp, err = s.client.Repositories.List(ctx, username, opts)
			return resp, err
		})
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			repos = append(repos, toRepo(item))
		}
		if len(items) < perPage {
			break
		}
	}
	return repos, nil
}

// UserEvents 获取用户最近的公开事件。用户没有事件 (404) 时返回空列表
func (s *Source) UserEvents(ctx context.Context, username string) ([]domain.Event, error) {
	if username == "" {
		login, err := s.login(ctx)
		if err != nil {
			return nil, err
		}
		username = login
	}

	var items []*github.Event
	err := s.call(ctx, "list_events", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		items, resp, err = s.client.Activity.ListEventsPerformedByUser(ctx, username, true, &github.ListOptions{PerPage: perPage})
		return resp, err
	})
	if err != nil {
		if isNotFound(err) {
			return []domain.Event{}, nil
		}
		return nil, err
	}

	events := make([]domain.Event, 0, len(items))
	for _, item := range items {
		events = append(events, toEvent(item))
	}
	return events, nil
}

// SearchRepos 搜索仓库。条件全空时退化为 stars:>100
func (s *Source) SearchRepos(ctx context.Context, filters domain.SearchFilters) ([]domain.Repo, error) {
	query := BuildSearchQuery(filters)

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultSearchCap
	}
	if limit > perPage {
		limit = perPage
	}
	sortBy := filters.Sort
	if sortBy == "" {
		sortBy = "stars"
	}
	opts := &github.SearchOptions{
		Sort:        sortBy,
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: limit},
	}

	var result *github.RepositoriesSearchResult
	err := s.call(ctx, "search_repos", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		result, resp, err = s.client.Search.Repositories(ctx, query, opts)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	repos := make([]domain.Repo, 0, len(result.Repositories))
	for _, item := range result.Repositories {
		repos = append(repos, toRepo(item))
	}
	return repos, nil
}

// BuildSearchQuery 把搜索条件拼成 GitHub 搜索语法
func BuildSearchQuery(filters domain.SearchFilters) string {
	var parts []string
	if q := strings.TrimSpace(filters.Query); q != "" {
		parts = append(parts, q)
	}
	if filters.Language != "" {
		parts = append(parts, "language:"+filters.Language)
	}
	for _, topic := range filters.Topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			parts = append(parts, "topic:"+topic)
		}
	}
	if filters.MinStars > 0 {
		parts = append(parts, fmt.Sprintf("stars:>=%d", filters.MinStars))
	}
	if filters.GoodFirstIssue {
		parts = append(parts, "good-first-issues:>0")
	}
	if filters.HelpWanted {
		parts = append(parts, "help-wanted-issues:>0")
	}

	if len(parts) == 0 {
		return defaultQuery
	}
	return strings.Join(parts, " ")
}

// Repo 获取单个仓库详情
func (s *Source) Repo(ctx context.Context, owner, name string) (*domain.Repo, error) {
	var item *github.Repository
	err := s.call(ctx, "get_repo", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		item, resp, err = s.client.Repositories.Get(ctx, owner, name)
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	repo := toRepo(item)
	return &repo, nil
}

// Languages 仓库的语言字节数，按字节数降序
func (s *Source) Languages(ctx context.Context, owner, name string) ([]domain.LanguageShare, error) {
	var langs map[string]int
	err := s.call(ctx, "list_languages", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		langs, resp, err = s.client.Repositories.ListLanguages(ctx, owner, name)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	shares := make([]domain.LanguageShare, 0, len(langs))
	for lang, bytes := range langs {
		shares = append(shares, domain.LanguageShare{Name: lang, Value: bytes})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Value != shares[j].Value {
			return shares[i].Value > shares[j].Value
		}
		return shares[i].Name < shares[j].Name
	})
	return shares, nil
}

// Issues 获取仓库的 open issue，并丢弃 PR
func (s *Source) Issues(ctx context.Context, owner, name string, labels []string) ([]domain.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		Labels:      labels,
		ListOptions: github.ListOptions{PerPage: issuesPerPage},
	}

	var items []*github.Issue
	err := s.call(ctx, "list_issues", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		items, resp, err = s.client.Issues.ListByRepo(ctx, owner, name, opts)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	issues := make([]domain.Issue, 0, len(items))
	for _, item := range items {
		if item.IsPullRequest() {
			continue
		}
		issues = append(issues, toIssue(item))
	}
	return issues, nil
}

// login 返回 token 对应用户的登录名
func (s *Source) login(ctx context.Context) (string, error) {
	var user *github.User
	err := s.call(ctx, "get_user", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		user, resp, err = s.client.Users.Get(ctx, "")
		return resp, err
	})
	if err != nil {
		return "", err
	}
	return user.GetLogin(), nil
}

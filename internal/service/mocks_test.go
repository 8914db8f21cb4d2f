package service

import (
	"context"
	"sync"
	"time"

	"oss-matchmaker/internal/domain"
	"oss-matchmaker/internal/port"

	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// Mock implementations for testing
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) SaveProfile(ctx context.Context, userID string, profile domain.Profile) error {
	args := m.Called(ctx, userID, profile)
	return args.Error(0)
}

func (m *MockUserStore) SaveCustomTech(ctx context.Context, userID string, techs []domain.CustomTech) error {
	args := m.Called(ctx, userID, techs)
	return args.Error(0)
}

type MockSource struct {
	mock.Mock
}

func (m *MockSource) UserRepos(ctx context.Context, username string) ([]domain.Repo, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]domain.Repo), args.Error(1)
}

func (m *MockSource) UserEvents(ctx context.Context, username string) ([]domain.Event, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockSource) SearchRepos(ctx context.Context, filters domain.SearchFilters) ([]domain.Repo, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]domain.Repo), args.Error(1)
}

func (m *MockSource) Repo(ctx context.Context, owner, name string) (*domain.Repo, error) {
	args := m.Called(ctx, owner, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repo), args.Error(1)
}

func (m *MockSource) Languages(ctx context.Context, owner, name string) ([]domain.LanguageShare, error) {
	args := m.Called(ctx, owner, name)
	return args.Get(0).([]domain.LanguageShare), args.Error(1)
}

func (m *MockSource) Issues(ctx context.Context, owner, name string, labels []string) ([]domain.Issue, error) {
	args := m.Called(ctx, owner, name, labels)
	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *MockSource) ContributionCalendar(ctx context.Context, username string) (*domain.ContributionCalendar, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContributionCalendar), args.Error(1)
}

// staticFactory 所有用户共用同一个 Source
type staticFactory struct {
	source port.Source
}

func (f staticFactory) ForUser(*domain.User) port.Source { return f.source }

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Lookup(ctx context.Context, userID string, now time.Time, limit int) ([]domain.CacheEntry, error) {
	args := m.Called(ctx, userID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CacheEntry), args.Error(1)
}

func (m *MockCache) Replace(ctx context.Context, userID string, entries []domain.CacheEntry) error {
	args := m.Called(ctx, userID, entries)
	return args.Error(0)
}

// memCache 内存版推荐缓存，用来测往返
type memCache struct {
	mu      sync.Mutex
	entries map[string][]domain.CacheEntry
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]domain.CacheEntry)}
}

func (c *memCache) Lookup(_ context.Context, userID string, now time.Time, limit int) ([]domain.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []domain.CacheEntry
	for _, e := range c.entries[userID] {
		if e.ExpiresAt.After(now) {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *memCache) Replace(_ context.Context, userID string, entries []domain.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = append([]domain.CacheEntry(nil), entries...)
	return nil
}

type MockSavedStore struct {
	mock.Mock
}

func (m *MockSavedStore) Add(ctx context.Context, saved *domain.SavedRepo) error {
	args := m.Called(ctx, saved)
	return args.Error(0)
}

func (m *MockSavedStore) Remove(ctx context.Context, userID, repoFullName string) error {
	args := m.Called(ctx, userID, repoFullName)
	return args.Error(0)
}

func (m *MockSavedStore) List(ctx context.Context, userID string, opts domain.SavedListOptions) ([]domain.SavedRepo, error) {
	args := m.Called(ctx, userID, opts)
	return args.Get(0).([]domain.SavedRepo), args.Error(1)
}

func (m *MockSavedStore) UpdateNotes(ctx context.Context, userID, repoFullName, notes string) (*domain.SavedRepo, error) {
	args := m.Called(ctx, userID, repoFullName, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedRepo), args.Error(1)
}

type MockAppraiser struct {
	mock.Mock
}

func (m *MockAppraiser) Summarize(ctx context.Context, analysis *domain.RepoAnalysis) (string, error) {
	args := m.Called(ctx, analysis)
	return args.String(0), args.Error(1)
}

func readyUser() *domain.User {
	return &domain.User{
		ID:             "u1",
		GitHubUsername: "octocat",
		Email:          "octo@example.com",
		AvatarURL:      "https://avatars.example.com/octocat",
		AccessToken:    "token",
		ProfileStatus:  domain.ProfileReady,
		Profile: domain.Profile{
			TechStack: []domain.TechStackEntry{{Language: "Go", RepoCount: 5, Percentage: 50}},
		},
	}
}

func candidate(fullName, language string, stars int) domain.Repo {
	return domain.Repo{
		Name:       fullName,
		FullName:   fullName,
		Language:   language,
		Stars:      stars,
		Forks:      100,
		Watchers:   50,
		HasIssues:  true,
		OpenIssues: 10,
		UpdatedAt:  fixedNow.Add(-48 * time.Hour),
	}
}

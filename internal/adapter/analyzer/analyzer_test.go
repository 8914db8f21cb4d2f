package analyzer

import (
	"fmt"
	"testing"
	"time"

	"oss-matchmaker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func langRepo(lang string, stars int) domain.Repo {
	return domain.Repo{Name: "r-" + lang, Language: lang, Stars: stars}
}

func TestTechStack(t *testing.T) {
	tests := []struct {
		name   string
		repos  []domain.Repo
		verify func(*testing.T, []domain.TechStackEntry)
	}{
		{
			name: "按仓库数降序，分母包含无语言仓库",
			repos: []domain.Repo{
				langRepo("Go", 0), langRepo("Go", 0), langRepo("Rust", 0), langRepo("", 0),
				langRepo("Python", 0), langRepo("Rust", 0), langRepo("Go", 0),
			},
			verify: func(t *testing.T, stack []domain.TechStackEntry) {
				require.Len(t, stack, 3)
				assert.Equal(t, domain.TechStackEntry{Language: "Go", RepoCount: 3, Percentage: 42.86}, stack[0])
				assert.Equal(t, domain.TechStackEntry{Language: "Rust", RepoCount: 2, Percentage: 28.57}, stack[1])
				assert.Equal(t, domain.TechStackEntry{Language: "Python", RepoCount: 1, Percentage: 14.29}, stack[2])
			},
		},
		{
			name:  "同数量保持发现顺序",
			repos: []domain.Repo{langRepo("Python", 0), langRepo("Go", 0), langRepo("", 0), langRepo("", 0)},
			verify: func(t *testing.T, stack []domain.TechStackEntry) {
				require.Len(t, stack, 2)
				assert.Equal(t, "Python", stack[0].Language)
				assert.Equal(t, "Go", stack[1].Language)
				assert.Equal(t, 25.0, stack[0].Percentage)
			},
		},
		{
			name: "最多 10 种语言",
			repos: func() []domain.Repo {
				var repos []domain.Repo
				for i := 0; i < 12; i++ {
					repos = append(repos, langRepo(fmt.Sprintf("L%d", i), 0))
				}
				return repos
			}(),
			verify: func(t *testing.T, stack []domain.TechStackEntry) {
				require.Len(t, stack, 10)
				assert.Equal(t, "L0", stack[0].Language)
				assert.Equal(t, "L9", stack[9].Language)
			},
		},
		{
			name:  "空列表",
			repos: nil,
			verify: func(t *testing.T, stack []domain.TechStackEntry) {
				assert.Empty(t, stack)
			},
		},
		{
			name:  "全部没有语言",
			repos: []domain.Repo{langRepo("", 0)},
			verify: func(t *testing.T, stack []domain.TechStackEntry) {
				assert.Empty(t, stack)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, TechStack(tt.repos))
		})
	}
}

func TestActivity(t *testing.T) {
	day := 24 * time.Hour
	repos := []domain.Repo{
		{UpdatedAt: fixedNow.Add(-1 * day)},
		{UpdatedAt: fixedNow.Add(-10 * day)},
		{UpdatedAt: fixedNow.Add(-40 * day)},
		{},
	}
	events := []domain.Event{
		{CreatedAt: time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 10, 15, 11, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 9, 20, 12, 0, 0, 0, time.UTC)},
		{CreatedAt: fixedNow.Add(-30 * day)}, // 恰好 30 天前，不算近期
		{CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	got := Activity(repos, events, fixedNow)

	assert.Equal(t, domain.ActivityScore{
		Score:            20, // 2*5 + 5*2
		RecentRepos:      2,
		RecentEvents:     5,
		ContributionDays: 6,
	}, got)
}

func TestActivity_Capped(t *testing.T) {
	repos := make([]domain.Repo, 30)
	for i := range repos {
		repos[i].UpdatedAt = fixedNow.Add(-time.Hour)
	}

	got := Activity(repos, nil, fixedNow)

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, 30, got.RecentRepos)
	assert.Equal(t, 0, got.ContributionDays)
}

func TestIdentifyDomains(t *testing.T) {
	t.Run("按命中数排序", func(t *testing.T) {
		repos := []domain.Repo{
			{Name: "react-dashboard", Description: "Web frontend"},
			{Name: "pytorch-models", Topics: []string{"deep-learning"}},
			{Name: "vue-store", Description: "Vue web shop"},
			{Name: "kube-tools", Topics: []string{"kubernetes", "docker"}},
			{Name: "misc"},
		}

		got := IdentifyDomains(repos)

		assert.Equal(t, []domain.DomainCount{
			{Domain: "web", RepoCount: 2},
			{Domain: "ai", RepoCount: 1},
			{Domain: "devops", RepoCount: 1},
		}, got)
	})

	t.Run("最多 5 个，同分保持发现顺序", func(t *testing.T) {
		repos := []domain.Repo{
			{Name: "encryption-kit"},
			{Name: "react-ui"},
			{Name: "flutter-app"},
			{Name: "pytorch-lab"},
			{Name: "solidity-lib"},
			{Name: "godot-demo"},
		}

		got := IdentifyDomains(repos)

		require.Len(t, got, 5)
		assert.Equal(t, "security", got[0].Domain)
		assert.Equal(t, "web", got[1].Domain)
		assert.Equal(t, "mobile", got[2].Domain)
		assert.Equal(t, "ai", got[3].Domain)
		assert.Equal(t, "blockchain", got[4].Domain)
	})

	t.Run("一个仓库对同一领域只计一次", func(t *testing.T) {
		repos := []domain.Repo{{Name: "react-vue-angular", Description: "web frontend backend"}}
		assert.Equal(t, []domain.DomainCount{{Domain: "web", RepoCount: 1}}, IdentifyDomains(repos))
	})
}

func TestSkillStrength(t *testing.T) {
	repos := []domain.Repo{langRepo("Go", 10), langRepo("Go", 0), langRepo("Rust", 4), langRepo("", 50)}
	stack := TechStack(repos)

	got := SkillStrength(repos, stack)

	// Go: 50*0.5 + 5*2 + 2*3 = 41; Rust: 25*0.5 + 4*2 + 3 = 23.5 -> 24
	assert.Equal(t, map[string]int{"Go": 41, "Rust": 24}, got)
}

func TestSkillStrength_Capped(t *testing.T) {
	repos := []domain.Repo{langRepo("Go", 1000)}
	got := SkillStrength(repos, TechStack(repos))
	assert.Equal(t, 100, got["Go"])
}

func TestProfileAnalyzer_AnalyzeProfile(t *testing.T) {
	a := NewProfileAnalyzer().WithNow(func() time.Time { return fixedNow })
	repos := []domain.Repo{
		{Name: "api", Language: "Go", Stars: 12, Forks: 3, UpdatedAt: fixedNow.Add(-time.Hour), Description: "backend service"},
		{Name: "notes", Stars: 1, Forks: 1},
	}
	events := []domain.Event{{Type: domain.EventPush, CreatedAt: fixedNow.Add(-time.Hour)}}

	p := a.AnalyzeProfile(repos, events)

	assert.Equal(t, 2, p.TotalRepos)
	assert.Equal(t, 13, p.TotalStars)
	assert.Equal(t, 4, p.TotalForks)
	require.Len(t, p.TechStack, 1)
	assert.Equal(t, 50.0, p.TechStack[0].Percentage)
	assert.Equal(t, 7, p.ActivityScore.Score)
	assert.Equal(t, []domain.DomainCount{{Domain: "web", RepoCount: 1}}, p.Domains)
	assert.Equal(t, map[string]int{"Go": 52}, p.SkillStrength) // 25 + 24 + 3
}

func TestProfileAnalyzer_EmptyInput(t *testing.T) {
	p := NewProfileAnalyzer().AnalyzeProfile(nil, nil)

	assert.Equal(t, 0, p.TotalRepos)
	assert.Empty(t, p.TechStack)
	assert.Empty(t, p.Domains)
	assert.Empty(t, p.SkillStrength)
	assert.Equal(t, 0, p.ActivityScore.Score)
}

func TestContributionsFromEvents(t *testing.T) {
	events := []domain.Event{
		{Type: domain.EventPush, HasCommits: true, CommitCount: 3, CreatedAt: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)},
		{Type: domain.EventIssueComment, CreatedAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)},
		{Type: domain.EventType("WatchEvent"), CreatedAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)},
		{Type: domain.EventPush, CreatedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		{Type: domain.EventCreate, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	cal := ContributionsFromEvents(events, fixedNow)

	assert.Len(t, cal.ByDate, 365)
	assert.Equal(t, 4, cal.ByDate["2026-10-15"])
	assert.Equal(t, 1, cal.ByDate["2026-10-01"])
	assert.Equal(t, 0, cal.ByDate["2026-10-16"])
	assert.Contains(t, cal.ByDate, "2025-10-17")
	assert.NotContains(t, cal.ByDate, "2025-10-16")
	assert.Equal(t, 5, cal.TotalContributions)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 76, Round(75.75))
	assert.Equal(t, 24, Round(23.5))
	assert.Equal(t, 23, Round(23.49))
	assert.Equal(t, 0, Round(0))
}

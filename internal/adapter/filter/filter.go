// Package filter 实现推荐流程中的硬过滤。每个过滤器都返回新切片，不修改输入
package filter

import (
	"strings"
	"time"

	"oss-matchmaker/internal/domain"
)

const (
	beginnerMaxStars     = 5000
	intermediateMinStars = 1000
	intermediateMaxStars = 20000
	advancedMinStars     = 10000
	dayDuration          = 24 * time.Hour

	// DefaultActivityDays 活跃度过滤的默认窗口
	DefaultActivityDays = 90
)

// RepoCriteria 仓库过滤条件，零值表示不过滤
type RepoCriteria struct {
	Difficulty   domain.Difficulty
	ActivityDays int
	MaxStars     int
	Domain       string
}

// RepoFilter 仓库过滤器
type RepoFilter struct {
	nowFunc func() time.Time
}

// NewRepoFilter 创建新的过滤器实例
func NewRepoFilter() *RepoFilter {
	return &RepoFilter{nowFunc: time.Now}
}

// WithNow 替换时钟，测试用
func (f *RepoFilter) WithNow(now func() time.Time) *RepoFilter {
	f.nowFunc = now
	return f
}

func (f *RepoFilter) now() time.Time {
	if f != nil && f.nowFunc != nil {
		return f.nowFunc()
	}
	return time.Now()
}

// Apply 依次执行 难度 -> 活跃度 -> 贡献者友好 -> maxStars -> domain，顺序不能调换
func (f *RepoFilter) Apply(repos []domain.Repo, c RepoCriteria) []domain.Repo {
	out := f.ByDifficulty(repos, c.Difficulty)

	days := c.ActivityDays
	if days <= 0 {
		days = DefaultActivityDays
	}
	out = f.ByActivity(out, days)
	out = f.ByContributorFriendliness(out)

	if c.MaxStars > 0 {
		out = f.ByMaxStars(out, c.MaxStars)
	}
	if c.Domain != "" {
		out = f.ByDomain(out, c.Domain)
	}
	return out
}

// ByDifficulty 按难度过滤。all 或空值原样返回；advanced 与 expert 等价
func (f *RepoFilter) ByDifficulty(repos []domain.Repo, d domain.Difficulty) []domain.Repo {
	switch {
	case d == domain.DifficultyBeginner:
		return keep(repos, func(r *domain.Repo) bool {
			return r.Stars < beginnerMaxStars || hasBeginnerTopic(r)
		})
	case d == domain.DifficultyIntermediate:
		return keep(repos, func(r *domain.Repo) bool {
			return r.Stars >= intermediateMinStars && r.Stars < intermediateMaxStars
		})
	case d.IsAdvanced():
		return keep(repos, func(r *domain.Repo) bool {
			return r.Stars >= advancedMinStars
		})
	default:
		return keep(repos, func(*domain.Repo) bool { return true })
	}
}

// ByActivity 只保留最近 days 天内更新过的仓库 (含边界)
func (f *RepoFilter) ByActivity(repos []domain.Repo, days int) []domain.Repo {
	cutoff := f.now().Add(-time.Duration(days) * dayDuration)
	return keep(repos, func(r *domain.Repo) bool {
		return !r.UpdatedAt.IsZero() && !r.UpdatedAt.Before(cutoff)
	})
}

// ByContributorFriendliness 只保留开启了 issue 且有未关闭 issue 的仓库
func (f *RepoFilter) ByContributorFriendliness(repos []domain.Repo) []domain.Repo {
	return keep(repos, func(r *domain.Repo) bool {
		return r.HasIssues && r.OpenIssues > 0
	})
}

// ByMaxStars stars <= max
func (f *RepoFilter) ByMaxStars(repos []domain.Repo, max int) []domain.Repo {
	return keep(repos, func(r *domain.Repo) bool { return r.Stars <= max })
}

// ByDomain topic 或描述包含给定字符串，大小写不敏感
func (f *RepoFilter) ByDomain(repos []domain.Repo, name string) []domain.Repo {
	needle := strings.ToLower(name)
	return keep(repos, func(r *domain.Repo) bool {
		if strings.Contains(strings.ToLower(r.Description), needle) {
			return true
		}
		for _, t := range r.Topics {
			if strings.Contains(strings.ToLower(t), needle) {
				return true
			}
		}
		return false
	})
}

func hasBeginnerTopic(r *domain.Repo) bool {
	for _, t := range r.Topics {
		lt := strings.ToLower(t)
		if strings.Contains(lt, "good-first-issue") || strings.Contains(lt, "beginner") {
			return true
		}
	}
	return false
}

func keep(repos []domain.Repo, pred func(*domain.Repo) bool) []domain.Repo {
	out := make([]domain.Repo, 0, len(repos))
	for i := range repos {
		if pred(&repos[i]) {
			out = append(out, repos[i])
		}
	}
	return out
}

package port

import (
	"context"
	"time"

	"oss-matchmaker/internal/domain"
)

// Source (数据源): 以某个用户的身份访问 GitHub。
// 所有方法失败时返回 UPSTREAM_UNAVAILABLE 类 AppError
type Source interface {
	// UserRepos 用户名下的全部仓库 (分页拉取)
	UserRepos(ctx context.Context, username string) ([]domain.Repo, error)

	// UserEvents 用户最近的公开事件
	UserEvents(ctx context.Context, username string) ([]domain.Event, error)

	// SearchRepos 按条件搜索仓库，最多返回 filters.Limit 个
	SearchRepos(ctx context.Context, filters domain.SearchFilters) ([]domain.Repo, error)

	Repo(ctx context.Context, owner, name string) (*domain.Repo, error)
	Languages(ctx context.Context, owner, name string) ([]domain.LanguageShare, error)

	// Issues 仓库的 open issue，PR 已经剔除。labels 为空时不按标签过滤
	Issues(ctx context.Context, owner, name string, labels []string) ([]domain.Issue, error)

	// ContributionCalendar 通过 GraphQL 获取近一年的贡献日历
	ContributionCalendar(ctx context.Context, username string) (*domain.ContributionCalendar, error)
}

// SourceFactory 按用户的 access token 构造 Source
type SourceFactory interface {
	ForUser(user *domain.User) Source
}

// UserStore (用户档案): 用户记录和画像的读写
type UserStore interface {
	// GetUser 不存在时返回 NOT_FOUND
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	SaveProfile(ctx context.Context, userID string, profile domain.Profile) error
	SaveCustomTech(ctx context.Context, userID string, techs []domain.CustomTech) error
}

// RecommendationCache (推荐缓存): 按用户整批替换，从不原地更新
type RecommendationCache interface {
	// Lookup 返回 now 时刻未过期的条目，按分数降序，最多 limit 个
	Lookup(ctx context.Context, userID string, now time.Time, limit int) ([]domain.CacheEntry, error)

	// Replace 删除该用户的全部条目再写入 entries
	Replace(ctx context.Context, userID string, entries []domain.CacheEntry) error
}

// SavedStore (收藏夹)
type SavedStore interface {
	// Add 重复收藏返回 CONFLICT
	Add(ctx context.Context, saved *domain.SavedRepo) error
	Remove(ctx context.Context, userID, repoFullName string) error
	List(ctx context.Context, userID string, opts domain.SavedListOptions) ([]domain.SavedRepo, error)
	// UpdateNotes 收藏不存在时返回 NOT_FOUND
	UpdateNotes(ctx context.Context, userID, repoFullName, notes string) (*domain.SavedRepo, error)
}

// Appraiser (鉴定师): 负责调用 LLM 给仓库分析写一段总结
type Appraiser interface {
	Summarize(ctx context.Context, analysis *domain.RepoAnalysis) (string, error)
}

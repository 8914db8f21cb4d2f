package domain

import "time"

// Breakdown 子分项名 -> 0-100 的整数分
type Breakdown map[string]int

// Score 一次打分的结果
type Score struct {
	Total     int       `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
}

// ScoredRepo 带匹配分的仓库
type ScoredRepo struct {
	Repo
	MatchScore     int       `json:"matchScore"`
	ScoreBreakdown Breakdown `json:"scoreBreakdown"`

	// ScoreError 非空表示打分时出错，分数被置为 0
	ScoreError string `json:"scoreError,omitempty"`
}

// ScoredIssue 带匹配分的 issue
type ScoredIssue struct {
	Issue
	MatchScore     int       `json:"matchScore"`
	ScoreBreakdown Breakdown `json:"scoreBreakdown"`
	ScoreError     string    `json:"scoreError,omitempty"`
}

// CacheEntry 推荐缓存中的一行，只会整批写入，从不原地更新
type CacheEntry struct {
	UserID       string     `json:"userId"`
	RepoFullName string     `json:"repoFullName"`
	MatchScore   int        `json:"matchScore"`
	Snapshot     ScoredRepo `json:"snapshot"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// SavedRepo 用户收藏的仓库
type SavedRepo struct {
	ID           string         `json:"savedId"`
	UserID       string         `json:"userId"`
	RepoFullName string         `json:"repoFullName"`
	RepoData     map[string]any `json:"repoData"`
	MatchScore   int            `json:"matchScore"`
	Notes        string         `json:"notes"`
	CreatedAt    time.Time      `json:"savedAt"`
}

// RepoQuery 仓库推荐请求参数。数值为 0 表示未传
type RepoQuery struct {
	Difficulty Difficulty `query:"difficulty" validate:"omitempty,oneof=all beginner intermediate advanced expert"`
	Language   string     `query:"language"`
	MinStars   int        `query:"minStars" validate:"gte=0"`
	MaxStars   int        `query:"maxStars" validate:"gte=0"`
	Domain     string     `query:"domain"`
	Limit      int        `query:"limit" validate:"gte=0,lte=100"`
	Refresh    bool       `query:"refresh"`
}

// HasFilters 任何过滤参数都会绕过缓存读取
func (q RepoQuery) HasFilters() bool {
	return q.Language != "" || q.MinStars > 0 || q.MaxStars > 0 || q.Domain != "" || q.Difficulty != ""
}

// IssueQuery issue 推荐请求参数
type IssueQuery struct {
	Difficulty Difficulty `query:"difficulty" validate:"omitempty,oneof=all beginner intermediate advanced expert"`
	Language   string     `query:"language"`
	Labels     []string   `query:"-"`
	Limit      int        `query:"limit" validate:"gte=0,lte=100"`
	Refresh    bool       `query:"refresh"`
}

// SearchFilters 上游仓库搜索条件
type SearchFilters struct {
	Query          string
	Language       string
	Topics         []string
	MinStars       int
	GoodFirstIssue bool
	HelpWanted     bool
	Sort           string
	Limit          int
}

// RepoRecommendations 仓库推荐的返回结果
type RepoRecommendations struct {
	Items  []ScoredRepo
	Cached bool
	// CachedAt 仅在命中缓存时有值
	CachedAt time.Time
}

// RepoAnalysis 单个仓库的分析结果
type RepoAnalysis struct {
	Repository              Repo            `json:"repository"`
	Languages               []LanguageShare `json:"languages"`
	RecencyScore            int             `json:"recencyScore"`
	PopularityScore         int             `json:"popularityScore"`
	ContributorFriendliness int             `json:"contributorFriendliness"`
	OverallScore            int             `json:"overallScore"`
	Insights                []Insight       `json:"insights"`
	Summary                 string          `json:"summary"`
	BeginnerIssues          []Issue         `json:"beginnerIssues"`
}

// LanguageShare 仓库中某语言的字节数
type LanguageShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Insight 一条仓库洞察
type Insight struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SavedListOptions 收藏列表的排序和分页
type SavedListOptions struct {
	SortBy string `query:"sortBy" validate:"omitempty,oneof=created_at match_score repo_full_name"`
	Order  string `query:"order" validate:"omitempty,oneof=asc desc"`
	Limit  int    `query:"limit" validate:"gte=0,lte=200"`
}

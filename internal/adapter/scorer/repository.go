package scorer

import (
	"strings"
	"time"

	"oss-matchmaker/internal/adapter/analyzer"
	"oss-matchmaker/internal/domain"
)

// 仓库匹配分的子项名
const (
	TechMatch           = "techMatch"
	Recency             = "recency"
	Popularity          = "popularity"
	ContributorFriendly = "contributorFriendly"
	DomainMatch         = "domainMatch"
)

// RepositoryScorer 计算用户与仓库的匹配分
type RepositoryScorer struct {
	nowFunc func() time.Time
}

// NewRepositoryScorer 创建仓库打分器
func NewRepositoryScorer() *RepositoryScorer {
	return &RepositoryScorer{nowFunc: time.Now}
}

// WithNow 替换时钟，测试用
func (s *RepositoryScorer) WithNow(now func() time.Time) *RepositoryScorer {
	s.nowFunc = now
	return s
}

// Score 返回总分和五个子项:
// techMatch 0.35, recency 0.20, popularity 0.10, contributorFriendly 0.25, domainMatch 0.10
func (s *RepositoryScorer) Score(profile *domain.Profile, repo *domain.Repo) domain.Score {
	return combine([]weighted{
		{TechMatch, 0.35, languageTier(profile, repo.Language)},
		{Recency, 0.20, analyzer.RecencyScore(repo.UpdatedAt, s.nowFunc())},
		{Popularity, 0.10, analyzer.PopularityScore(repo.Stars, repo.Forks, repo.Watchers)},
		{ContributorFriendly, 0.25, analyzer.ContributorFriendliness(repo)},
		{DomainMatch, 0.10, domainMatch(profile, repo)},
	})
}

// ScoreAll 逐个打分，单个候选失败不影响其他候选。返回顺序与输入一致
func (s *RepositoryScorer) ScoreAll(profile *domain.Profile, repos []domain.Repo) []domain.ScoredRepo {
	scored := make([]domain.ScoredRepo, 0, len(repos))
	for i := range repos {
		repo := &repos[i]
		score, failure := safely(func() domain.Score { return s.Score(profile, repo) })
		scored = append(scored, domain.ScoredRepo{
			Repo:           *repo,
			MatchScore:     score.Total,
			ScoreBreakdown: score.Breakdown,
			ScoreError:     failure,
		})
	}
	return scored
}

// domainMatch 统计画像中有多少个领域名出现在仓库文本里
func domainMatch(profile *domain.Profile, repo *domain.Repo) int {
	if len(profile.Domains) == 0 {
		return neutralScore
	}

	text := repo.SearchText()
	matches := 0
	for _, d := range profile.Domains {
		if strings.Contains(text, strings.ToLower(d.Domain)) {
			matches++
		}
	}

	switch matches {
	case 0:
		return 30
	case 1:
		return 60
	case 2:
		return 80
	default:
		return 100
	}
}

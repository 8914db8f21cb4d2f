package analyzer

import (
	"math"
	"strings"
	"time"

	"oss-matchmaker/internal/domain"
)

// RecencyScore 按距上次更新的天数分档：<7 天 100，<30 天 80，<90 天 60，<180 天 40，<365 天 20，其余 10。
// 缺失的时间戳视为很久以前。
func RecencyScore(updatedAt, now time.Time) int {
	days := DaysSince(updatedAt, now)
	switch {
	case days < 7:
		return 100
	case days < 30:
		return 80
	case days < 90:
		return 60
	case days < 180:
		return 40
	case days < 365:
		return 20
	default:
		return 10
	}
}

// DaysSince 返回小数天数；零值时间返回 +Inf
func DaysSince(t, now time.Time) float64 {
	if t.IsZero() {
		return math.Inf(1)
	}
	return now.Sub(t).Hours() / 24
}

// PopularityScore stars/forks/watchers 各取 log10 并分别封顶 50/30/20
func PopularityScore(stars, forks, watchers int) int {
	starScore := math.Min(50, math.Log10(float64(stars)+1)*10)
	forkScore := math.Min(30, math.Log10(float64(forks)+1)*10)
	watcherScore := math.Min(20, math.Log10(float64(watchers)+1)*10)
	return Round(starScore + forkScore + watcherScore)
}

// ContributorFriendliness 估计仓库对新贡献者的友好程度，封顶 100
func ContributorFriendliness(repo *domain.Repo) int {
	score := 0

	if repo.HasIssues {
		score += 20
	}
	if repo.OpenIssues > 0 {
		score += 20
	}
	if repo.HasWiki {
		score += 10
	}

	description := strings.ToLower(repo.Description)
	if strings.Contains(description, "beginner") || strings.Contains(description, "first-time") {
		score += 15
	}
	if strings.Contains(description, "contribution") || strings.Contains(description, "contributor") {
		score += 15
	}

	topics := make(map[string]struct{}, len(repo.Topics))
	for _, t := range repo.Topics {
		topics[strings.ToLower(t)] = struct{}{}
	}
	if _, ok := topics["good-first-issue"]; ok {
		score += 20
	}
	if _, ok := topics["help-wanted"]; ok {
		score += 15
	}
	if _, ok := topics["hacktoberfest"]; ok {
		score += 10
	}

	if score > 100 {
		return 100
	}
	return score
}

// RepoHealth 单个仓库与用户无关的健康度
type RepoHealth struct {
	Recency      int
	Popularity   int
	Friendliness int
	Overall      float64
}

// AnalyzeRepository 计算仓库健康度，overall = 0.3*recency + 0.3*popularity + 0.4*friendliness
func AnalyzeRepository(repo *domain.Repo, now time.Time) RepoHealth {
	h := RepoHealth{
		Recency:      RecencyScore(repo.UpdatedAt, now),
		Popularity:   PopularityScore(repo.Stars, repo.Forks, repo.Watchers),
		Friendliness: ContributorFriendliness(repo),
	}
	h.Overall = float64(h.Recency)*0.3 + float64(h.Popularity)*0.3 + float64(h.Friendliness)*0.4
	return h
}

package analyzer

import (
	"math"
	"sort"
	"strings"
	"time"

	"oss-matchmaker/internal/domain"
)

const (
	maxTechStack  = 10
	maxDomains    = 5
	recentWindow  = 30 * 24 * time.Hour
	activityCap   = 100
	repoWeight    = 5
	eventWeight   = 2
	skillCap      = 100
	dayDuration   = 24 * time.Hour
	calendarDays  = 365
	dateKeyLayout = "2006-01-02"
)

// ProfileAnalyzer 把用户的仓库和事件历史转换为画像。无副作用，无 I/O
type ProfileAnalyzer struct {
	nowFunc func() time.Time
}

// NewProfileAnalyzer 创建新的分析器实例
func NewProfileAnalyzer() *ProfileAnalyzer {
	return &ProfileAnalyzer{
		nowFunc: time.Now, // 便于测试注入当前时间
	}
}

// WithNow 替换时钟，测试用
func (a *ProfileAnalyzer) WithNow(now func() time.Time) *ProfileAnalyzer {
	a.nowFunc = now
	return a
}

func (a *ProfileAnalyzer) now() time.Time {
	if a != nil && a.nowFunc != nil {
		return a.nowFunc()
	}
	return time.Now()
}

// AnalyzeProfile 生成用户画像
func (a *ProfileAnalyzer) AnalyzeProfile(repos []domain.Repo, events []domain.Event) domain.Profile {
	now := a.now()
	techStack := TechStack(repos)

	profile := domain.Profile{
		TechStack:     techStack,
		ActivityScore: Activity(repos, events, now),
		Domains:       IdentifyDomains(repos),
		SkillStrength: SkillStrength(repos, techStack),
		TotalRepos:    len(repos),
	}
	for _, r := range repos {
		profile.TotalStars += r.Stars
		profile.TotalForks += r.Forks
	}
	return profile
}

// counter 记录首次发现的顺序，排序时作为稳定的并列次序
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) inc(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// ranked 按计数降序返回，计数相同保持发现顺序
func (c *counter) ranked(limit int) []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

// TechStack 统计每种语言的仓库数，取前 10。
// 百分比的分母是全部仓库数 (包括没有语言的仓库)，因此总和可能不足 100。
func TechStack(repos []domain.Repo) []domain.TechStackEntry {
	c := newCounter()
	for _, r := range repos {
		if r.HasLanguage() {
			c.inc(r.Language)
		}
	}

	entries := make([]domain.TechStackEntry, 0, len(c.order))
	for _, lang := range c.ranked(maxTechStack) {
		count := c.counts[lang]
		entries = append(entries, domain.TechStackEntry{
			Language:   lang,
			RepoCount:  count,
			Percentage: round2(float64(count) / float64(len(repos)) * 100),
		})
	}
	return entries
}

// Activity 计算近 30 天活跃度。contributionDays 统计的是全部事件，不只是近 30 天
func Activity(repos []domain.Repo, events []domain.Event, now time.Time) domain.ActivityScore {
	cutoff := now.Add(-recentWindow)

	recentRepos := 0
	for _, r := range repos {
		if r.UpdatedAt.After(cutoff) {
			recentRepos++
		}
	}

	recentEvents := 0
	for _, e := range events {
		if e.CreatedAt.After(cutoff) {
			recentEvents++
		}
	}

	score := math.Min(activityCap, float64(recentRepos*repoWeight+recentEvents*eventWeight))
	return domain.ActivityScore{
		Score:            Round(score),
		RecentRepos:      recentRepos,
		RecentEvents:     recentEvents,
		ContributionDays: countUniqueDays(events),
	}
}

// countUniqueDays 按 UTC 日期去重，时间戳缺失的事件不计
func countUniqueDays(events []domain.Event) int {
	days := make(map[string]struct{})
	for _, e := range events {
		if e.CreatedAt.IsZero() {
			continue
		}
		days[e.CreatedAt.UTC().Format(dateKeyLayout)] = struct{}{}
	}
	return len(days)
}

// IdentifyDomains 按关键词表识别领域，每个仓库对每个领域最多计一次
func IdentifyDomains(repos []domain.Repo) []domain.DomainCount {
	c := newCounter()
	for i := range repos {
		text := repos[i].SearchText()
		for _, d := range domainKeywords {
			if containsAny(text, d.keywords) {
				c.inc(d.domain)
			}
		}
	}

	result := make([]domain.DomainCount, 0, maxDomains)
	for _, d := range c.ranked(maxDomains) {
		result = append(result, domain.DomainCount{Domain: d, RepoCount: c.counts[d]})
	}
	return result
}

// SkillStrength 计算技术栈中每种语言的熟练度 (0-100)。
// 百分比先取整再乘 0.5，avgStars 只统计语言完全一致的仓库。
func SkillStrength(repos []domain.Repo, techStack []domain.TechStackEntry) map[string]int {
	skills := make(map[string]int, len(techStack))
	for _, entry := range techStack {
		totalStars := 0
		for _, r := range repos {
			if r.Language == entry.Language {
				totalStars += r.Stars
			}
		}

		avgStars := 0.0
		if entry.RepoCount > 0 {
			avgStars = float64(totalStars) / float64(entry.RepoCount)
		}

		score := math.Trunc(entry.Percentage)*0.5 + avgStars*2 + float64(entry.RepoCount*3)
		skills[entry.Language] = Round(math.Min(skillCap, score))
	}
	return skills
}

// ContributionsFromEvents 用事件拼出近 365 天的贡献日历。
// GraphQL 日历不可用时作为降级数据源。
func ContributionsFromEvents(events []domain.Event, now time.Time) domain.ContributionCalendar {
	byDate := make(map[string]int, calendarDays)
	today := now.UTC()
	for i := 0; i < calendarDays; i++ {
		byDate[today.Add(-time.Duration(i)*dayDuration).Format(dateKeyLayout)] = 0
	}

	total := 0
	for i := range events {
		e := &events[i]
		if !e.Type.IsContribution() {
			continue
		}
		key := e.CreatedAt.UTC().Format(dateKeyLayout)
		if _, ok := byDate[key]; !ok {
			continue
		}
		byDate[key] += e.Weight()
		total += e.Weight()
	}

	return domain.ContributionCalendar{TotalContributions: total, ByDate: byDate}
}

// Round 四舍五入 (.5 向上)，分数都是非负数
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

package filter

import (
	"strings"

	"oss-matchmaker/internal/domain"
)

// DefaultIncludeLabels issue 至少要带其中一个标签才会进入候选
var DefaultIncludeLabels = []string{"good first issue", "help wanted", "bug", "enhancement"}

// IssueCriteria issue 过滤条件
type IssueCriteria struct {
	Difficulty domain.Difficulty
	Language   string
	Labels     []string
}

// ApplyIssues 依次执行 语言 -> 标签 -> 难度
func ApplyIssues(issues []domain.Issue, c IssueCriteria) []domain.Issue {
	out := issues
	if c.Language != "" {
		out = IssuesByLanguage(out, c.Language)
	}
	if len(c.Labels) > 0 {
		out = IssuesByLabels(out, c.Labels)
	}
	return IssuesByDifficulty(out, c.Difficulty)
}

// IncludeLabeled 只保留带有任一 include 标签的 issue (子串匹配，兼容连字符写法)
func IncludeLabeled(issues []domain.Issue, include []string) []domain.Issue {
	needles := make([]string, 0, len(include)*2)
	for _, l := range include {
		l = strings.ToLower(l)
		needles = append(needles, l, strings.ReplaceAll(l, " ", "-"))
	}
	return keepIssues(issues, func(i *domain.Issue) bool {
		return i.HasLabelContaining(needles...)
	})
}

// IssuesByLanguage 仓库语言与给定语言相同，大小写不敏感
func IssuesByLanguage(issues []domain.Issue, language string) []domain.Issue {
	return keepIssues(issues, func(i *domain.Issue) bool {
		return strings.EqualFold(i.Repository.Language, language)
	})
}

// IssuesByLabels 任一标签与给定标签完全相同 (忽略大小写)
func IssuesByLabels(issues []domain.Issue, labels []string) []domain.Issue {
	wanted := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		wanted[strings.ToLower(strings.TrimSpace(l))] = struct{}{}
	}
	return keepIssues(issues, func(i *domain.Issue) bool {
		for _, name := range i.LabelNames() {
			if _, ok := wanted[name]; ok {
				return true
			}
		}
		return false
	})
}

// IssuesByDifficulty 按标签估计难度。all 或空值原样返回；advanced 与 expert 等价
func IssuesByDifficulty(issues []domain.Issue, d domain.Difficulty) []domain.Issue {
	switch {
	case d == domain.DifficultyBeginner:
		return keepIssues(issues, func(i *domain.Issue) bool {
			return i.HasLabelContaining("good first issue", "good-first-issue", "beginner", "easy", "starter")
		})
	case d == domain.DifficultyIntermediate:
		return keepIssues(issues, func(i *domain.Issue) bool {
			return !i.HasLabelContaining("good first issue", "good-first-issue", "expert", "advanced")
		})
	case d.IsAdvanced():
		return keepIssues(issues, func(i *domain.Issue) bool {
			return i.HasLabelContaining("expert", "advanced", "architecture")
		})
	default:
		return keepIssues(issues, func(*domain.Issue) bool { return true })
	}
}

func keepIssues(issues []domain.Issue, pred func(*domain.Issue) bool) []domain.Issue {
	out := make([]domain.Issue, 0, len(issues))
	for i := range issues {
		if pred(&issues[i]) {
			out = append(out, issues[i])
		}
	}
	return out
}

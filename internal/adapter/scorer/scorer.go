// Package scorer 把候选仓库和 issue 按用户画像打成 0-100 的匹配分。
// 打分器本身无状态、无 I/O，可并发使用。
package scorer

import (
	"fmt"
	"strings"

	"oss-matchmaker/internal/adapter/analyzer"
	"oss-matchmaker/internal/domain"
)

// 未知或缺失信息时的中性分
const (
	neutralScore     = 50
	noLanguageScore  = 30
	noMatchScore     = 25
	anyLanguageScore = 50
	topThreeScore    = 75
	primaryScore     = 100
)

// languageTier 按技术栈排位给语言打分，大小写不敏感
func languageTier(profile *domain.Profile, language string) int {
	if len(profile.TechStack) == 0 {
		return neutralScore
	}
	lang := strings.ToLower(language)
	if lang == "" {
		return noLanguageScore
	}

	for i, entry := range profile.TechStack {
		if strings.ToLower(entry.Language) != lang {
			continue
		}
		switch {
		case i == 0:
			return primaryScore
		case i < 3:
			return topThreeScore
		default:
			return anyLanguageScore
		}
	}
	return noMatchScore
}

type weighted struct {
	name   string
	weight float64
	score  int
}

// combine 计算加权总分并生成 breakdown
func combine(parts []weighted) domain.Score {
	total := 0.0
	breakdown := make(domain.Breakdown, len(parts))
	for _, p := range parts {
		total += p.weight * float64(p.score)
		breakdown[p.name] = p.score
	}
	return domain.Score{Total: analyzer.Round(total), Breakdown: breakdown}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// safely 隔离单个候选的打分。panic 时返回 0 分、空 breakdown 和错误描述
func safely(fn func() domain.Score) (score domain.Score, failure string) {
	defer func() {
		if r := recover(); r != nil {
			score = domain.Score{Total: 0, Breakdown: domain.Breakdown{}}
			failure = fmt.Sprintf("scoring failed: %v", r)
		}
	}()
	return fn(), ""
}

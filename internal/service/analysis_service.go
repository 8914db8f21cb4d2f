package service

import (
	"context"
	"fmt"
	"time"

	"oss-matchmaker/internal/adapter/analyzer"
	"oss-matchmaker/internal/adapter/filter"
	"oss-matchmaker/internal/domain"
	"oss-matchmaker/internal/port"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const maxBeginnerIssues = 5

var beginnerLabels = []string{"good first issue", "help wanted"}

// AnalysisService 单个仓库的分析
type AnalysisService struct {
	users     port.UserStore
	sources   port.SourceFactory
	appraiser port.Appraiser // 可以为 nil，此时只用规则生成总结
	logger    *logrus.Logger
	nowFunc   func() time.Time
}

// NewAnalysisService 创建仓库分析服务
func NewAnalysisService(users port.UserStore, sources port.SourceFactory, appraiser port.Appraiser, logger *logrus.Logger) *AnalysisService {
	return &AnalysisService{
		users:     users,
		sources:   sources,
		appraiser: appraiser,
		logger:    logger,
		nowFunc:   time.Now,
	}
}

// WithNow 替换时钟，测试用
func (s *AnalysisService) WithNow(now func() time.Time) *AnalysisService {
	s.nowFunc = now
	return s
}

// Analyze 并发拉取详情、语言和 issue，详情失败则整体失败，其余降级为空
func (s *AnalysisService) Analyze(ctx context.Context, userID, owner, name string) (*domain.RepoAnalysis, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	source := s.sources.ForUser(user)
	log := s.logger.WithFields(logrus.Fields{"user": userID, "repo": owner + "/" + name})

	var (
		repo      *domain.Repo
		languages []domain.LanguageShare
		issues    []domain.Issue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		repo, err = source.Repo(gctx, owner, name)
		return err
	})
	g.Go(func() error {
		var err error
		if languages, err = source.Languages(gctx, owner, name); err != nil {
			log.WithError(err).Warn("拉取语言分布失败")
			languages = []domain.LanguageShare{}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if issues, err = source.Issues(gctx, owner, name, nil); err != nil {
			log.WithError(err).Warn("拉取 issue 失败")
			issues = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	health := analyzer.AnalyzeRepository(repo, s.nowFunc())
	analysis := &domain.RepoAnalysis{
		Repository:              *repo,
		Languages:               languages,
		RecencyScore:            health.Recency,
		PopularityScore:         health.Popularity,
		ContributorFriendliness: health.Friendliness,
		OverallScore:            analyzer.Round(health.Overall),
		Insights:                Insights(repo, health),
		BeginnerIssues:          beginnerIssues(issues),
	}
	analysis.Summary = HeuristicSummary(repo, health)

	if s.appraiser != nil {
		summary, err := s.appraiser.Summarize(ctx, analysis)
		if err != nil {
			log.WithError(err).Warn("AI 总结失败，使用规则总结")
		} else {
			analysis.Summary = summary
		}
	}
	return analysis, nil
}

func beginnerIssues(issues []domain.Issue) []domain.Issue {
	out := filter.IncludeLabeled(issues, beginnerLabels)
	if len(out) > maxBeginnerIssues {
		out = out[:maxBeginnerIssues]
	}
	return out
}

// Insights 根据健康度给出几条规则洞察
func Insights(repo *domain.Repo, h analyzer.RepoHealth) []domain.Insight {
	insights := make([]domain.Insight, 0, 5)

	switch {
	case h.Friendliness > 70:
		insights = append(insights, domain.Insight{
			Type:        "beginner-friendly",
			Title:       "Great for Beginners",
			Description: "This repository has excellent documentation and actively welcomes new contributors with beginner-friendly issues.",
		})
	case h.Friendliness < 40:
		insights = append(insights, domain.Insight{
			Type:        "advanced",
			Title:       "Advanced Project",
			Description: "This project may require more experience. Consider starting with smaller contributions to familiarize yourself with the codebase.",
		})
	}

	switch {
	case h.Recency > 80:
		insights = append(insights, domain.Insight{
			Type:        "active",
			Title:       "Highly Active",
			Description: "This repository is actively maintained with recent updates, making it a great choice for contributions.",
		})
	case h.Recency < 40:
		insights = append(insights, domain.Insight{
			Type:        "inactive",
			Title:       "Less Active",
			Description: "This repository hasn't been updated recently. Check if the project is still maintained before contributing.",
		})
	}

	switch {
	case repo.Stars > 10000:
		insights = append(insights, domain.Insight{
			Type:        "popular",
			Title:       "Highly Popular",
			Description: fmt.Sprintf("With %d stars, this is a well-established project in the community.", repo.Stars),
		})
	case repo.Stars > 1000:
		insights = append(insights, domain.Insight{
			Type:        "growing",
			Title:       "Growing Community",
			Description: "This project has a solid community and is gaining traction.",
		})
	}

	if repo.OpenIssues > 0 {
		insights = append(insights, domain.Insight{
			Type:        "opportunities",
			Title:       "Contribution Opportunities",
			Description: fmt.Sprintf(`There are %d open issues. Look for ones labeled "good first issue" or "help wanted".`, repo.OpenIssues),
		})
	}

	if repo.HasLanguage() {
		insights = append(insights, domain.Insight{
			Type:        "technology",
			Title:       "Primary Language: " + repo.Language,
			Description: fmt.Sprintf("This project is primarily written in %s. Make sure you're comfortable with this technology.", repo.Language),
		})
	}
	return insights
}

// HeuristicSummary 没有 AI 时的三句话总结
func HeuristicSummary(repo *domain.Repo, h analyzer.RepoHealth) string {
	friendliness := "better suited for experienced developers"
	switch {
	case h.Friendliness > 70:
		friendliness = "very welcoming to new contributors"
	case h.Friendliness > 40:
		friendliness = "moderately accessible for contributors"
	}

	activity := "not recently updated"
	switch {
	case h.Recency > 70:
		activity = "actively maintained"
	case h.Recency > 40:
		activity = "occasionally updated"
	}

	popularity := "growing"
	switch {
	case repo.Stars > 5000:
		popularity = "highly popular"
	case repo.Stars > 1000:
		popularity = "well-established"
	}

	language := repo.Language
	if language == "" {
		language = "multi-language"
	}

	return fmt.Sprintf("%s is a %s %s project that is %s. "+
		"The repository is %s, with %d open issues available for contribution. "+
		"Overall, this project scores %d/100 for open-source contribution opportunities.",
		repo.Name, popularity, language, activity, friendliness, repo.OpenIssues, analyzer.Round(h.Overall))
}

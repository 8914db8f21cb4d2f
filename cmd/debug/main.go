package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"oss-matchmaker/internal/adapter/github"
	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"
	"oss-matchmaker/internal/service"
)

const debugUserID = "debug"

// memoryUsers 单用户的内存存储，画像分析后直接写回
type memoryUsers struct {
	mu   sync.Mutex
	user domain.User
}

func (m *memoryUsers) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user
	return &u, nil
}

func (m *memoryUsers) SaveProfile(ctx context.Context, userID string, profile domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user.Profile = profile
	m.user.ProfileStatus = domain.ProfileReady
	m.user.UpdatedAt = time.Now()
	return nil
}

func (m *memoryUsers) SaveCustomTech(ctx context.Context, userID string, techs []domain.CustomTech) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user.CustomTech = techs
	return nil
}

// noCache 调试时总是走完整流程
type noCache struct{}

func (noCache) Lookup(ctx context.Context, userID string, now time.Time, limit int) ([]domain.CacheEntry, error) {
	return nil, nil
}

func (noCache) Replace(ctx context.Context, userID string, entries []domain.CacheEntry) error {
	return nil
}

func main() {
	username := flag.String("user", "", "GitHub 用户名 (GITHUB_TOKEN 需要属于该用户)")
	mode := flag.String("mode", "repos", "运行模式: repos 或 issues")
	top := flag.Int("top", 10, "输出前 N 条")
	language := flag.String("lang", "", "语言过滤，默认用画像的主语言")
	difficulty := flag.String("difficulty", "", "难度: beginner / intermediate / advanced")
	flag.Parse()

	token := os.Getenv("GITHUB_TOKEN")
	if *username == "" || token == "" {
		fmt.Println("⚠️ 用法: GITHUB_TOKEN=xxx debug -user octocat [-mode issues] [-top 10]")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	logger := common.NewLogger(os.Getenv("LOG_LEVEL"), "text")
	users := &memoryUsers{user: domain.User{ID: debugUserID, GitHubUsername: *username, AccessToken: token}}
	sources := github.NewFactory(github.Options{BaseURL: os.Getenv("GITHUB_API_URL")})

	fmt.Printf("🔍 分析 %s 的画像...\n", *username)
	summary, err := service.NewProfileService(users, sources, logger).Summary(ctx, debugUserID)
	if err != nil {
		log.Fatalf("❌ 画像分析失败: %v", err)
	}
	printProfile(summary)

	rec := service.NewRecommendationService(users, sources, noCache{}, logger, service.DefaultOptions())
	switch *mode {
	case "repos":
		res, err := rec.RecommendRepos(ctx, debugUserID, domain.RepoQuery{
			Language:   *language,
			Difficulty: domain.Difficulty(*difficulty),
			Limit:      *top,
			Refresh:    true,
		})
		if err != nil {
			log.Fatalf("❌ 仓库推荐失败: %v", err)
		}
		printRepos(res.Items)
	case "issues":
		issues, err := rec.RecommendIssues(ctx, debugUserID, domain.IssueQuery{
			Language:   *language,
			Difficulty: domain.Difficulty(*difficulty),
			Limit:      *top,
		})
		if err != nil {
			log.Fatalf("❌ issue 推荐失败: %v", err)
		}
		printIssues(issues)
	default:
		fmt.Println("❌ 未知模式，请使用 -mode=repos 或 -mode=issues")
		os.Exit(2)
	}
}

func printProfile(s *domain.ProfileSummary) {
	langs := make([]string, 0, len(s.TechStack))
	for _, t := range s.TechStack {
		langs = append(langs, fmt.Sprintf("%s(%.0f%%)", t.Language, t.Percentage))
	}
	domains := make([]string, 0, len(s.Domains))
	for _, d := range s.Domains {
		domains = append(domains, d.Domain)
	}
	fmt.Printf("✅ 仓库 %d 个, star %d, 活跃度 %d (近期仓库 %d, 近期事件 %d)\n",
		s.TotalRepos, s.TotalStars, s.ActivityScore.Score, s.ActivityScore.RecentRepos, s.ActivityScore.RecentEvents)
	fmt.Printf("   技术栈: %s\n", strings.Join(langs, ", "))
	fmt.Printf("   领域: %s\n\n", strings.Join(domains, ", "))
}

func printRepos(items []domain.ScoredRepo) {
	fmt.Printf("🏆 推荐仓库 (%d):\n", len(items))
	for i, r := range items {
		fmt.Printf("  #%d %-40s %3d  ★%-6d %s\n", i+1, r.FullName, r.MatchScore, r.Stars, r.Language)
		fmt.Printf("      %v\n", r.ScoreBreakdown)
	}
}

func printIssues(issues []domain.ScoredIssue) {
	fmt.Printf("🏆 推荐 issue (%d):\n", len(issues))
	for i, is := range issues {
		fmt.Printf("  #%d [%3d] %s\n", i+1, is.MatchScore, is.Title)
		fmt.Printf("      %s  %v\n", is.HTMLURL, is.LabelNames())
	}
}

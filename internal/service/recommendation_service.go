package service

import (
	"context"
	"sort"
	"time"

	"oss-matchmaker/internal/adapter/filter"
	"oss-matchmaker/internal/adapter/scorer"
	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"
	"oss-matchmaker/internal/port"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RecommendationService 仓库和 issue 两条推荐流水线
type RecommendationService struct {
	users       port.UserStore
	sources     port.SourceFactory
	cache       port.RecommendationCache
	filter      *filter.RepoFilter
	repoScorer  *scorer.RepositoryScorer
	issueScorer *scorer.IssueScorer
	logger      *logrus.Logger
	opts        Options
	nowFunc     func() time.Time
}

// NewRecommendationService 创建推荐服务
func NewRecommendationService(
	users port.UserStore,
	sources port.SourceFactory,
	cache port.RecommendationCache,
	logger *logrus.Logger,
	opts Options,
) *RecommendationService {
	return &RecommendationService{
		users:       users,
		sources:     sources,
		cache:       cache,
		filter:      filter.NewRepoFilter(),
		repoScorer:  scorer.NewRepositoryScorer(),
		issueScorer: scorer.NewIssueScorer(),
		logger:      logger,
		opts:        opts,
		nowFunc:     time.Now,
	}
}

// WithNow 替换时钟，过滤器和打分器共用同一个时钟
func (s *RecommendationService) WithNow(now func() time.Time) *RecommendationService {
	s.nowFunc = now
	s.filter.WithNow(now)
	s.repoScorer.WithNow(now)
	s.issueScorer.WithNow(now)
	return s
}

// RecommendRepos 仓库推荐：
// 查缓存 -> 搜索 -> 过滤 -> 打分 -> 排序 -> 截断 -> 写缓存
func (s *RecommendationService) RecommendRepos(ctx context.Context, userID string, q domain.RepoQuery) (*domain.RepoRecommendations, error) {
	defer observe("repos", time.Now())

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	limit := s.opts.limit(q.Limit)
	log := s.logger.WithFields(logrus.Fields{"user": userID, "limit": limit})

	if !q.Refresh && !q.HasFilters() {
		if res := s.fromCache(ctx, userID, limit, log); res != nil {
			return res, nil
		}
	} else if q.HasFilters() {
		log.WithField("query", q).Info("带过滤参数，跳过缓存")
	}

	if err := requireProfile(user); err != nil {
		return nil, err
	}

	search := domain.SearchFilters{
		Language:       q.Language,
		MinStars:       q.MinStars,
		GoodFirstIssue: q.Difficulty == domain.DifficultyBeginner,
		HelpWanted:     true,
		Limit:          s.opts.RepoFetchCap,
	}
	if search.Language == "" {
		search.Language = user.Profile.PrimaryLanguage()
	}
	if search.MinStars <= 0 {
		search.MinStars = s.opts.MinStars
	}

	candidates, err := s.sources.ForUser(user).SearchRepos(ctx, search)
	if err != nil {
		return nil, err
	}

	filtered := s.filter.Apply(candidates, filter.RepoCriteria{
		Difficulty:   q.Difficulty,
		ActivityDays: s.opts.ActivityDays,
		MaxStars:     q.MaxStars,
		Domain:       q.Domain,
	})
	log.Infof("候选仓库 %d -> %d", len(candidates), len(filtered))

	scored := s.repoScorer.ScoreAll(&user.Profile, filtered)
	for _, r := range scored {
		if r.ScoreError != "" {
			common.ScoringFailures.WithLabelValues("repo").Inc()
			log.WithField("repo", r.FullName).Warn(r.ScoreError)
		}
	}
	sortRepos(scored)
	if len(scored) > limit {
		scored = scored[:limit]
	}

	s.persist(ctx, userID, scored, log)

	common.RecommendationsServed.WithLabelValues("repos", "false").Inc()
	return &domain.RepoRecommendations{Items: scored}, nil
}

// fromCache 命中时返回缓存结果，未命中或读取失败返回 nil
func (s *RecommendationService) fromCache(ctx context.Context, userID string, limit int, log *logrus.Entry) *domain.RepoRecommendations {
	entries, err := s.cache.Lookup(ctx, userID, s.nowFunc(), limit)
	if err != nil {
		log.WithError(err).Warn("读取推荐缓存失败，重新计算")
		return nil
	}
	if len(entries) == 0 {
		return nil
	}

	items := make([]domain.ScoredRepo, 0, len(entries))
	for _, e := range entries {
		item := e.Snapshot
		item.MatchScore = e.MatchScore
		items = append(items, item)
	}
	log.Infof("返回 %d 条缓存推荐", len(items))
	common.RecommendationsServed.WithLabelValues("repos", "true").Inc()
	return &domain.RepoRecommendations{Items: items, Cached: true, CachedAt: entries[0].CreatedAt}
}

// persist 整批替换该用户的缓存。
// 带过滤参数的请求也会覆盖缓存，并发的无过滤请求可能因此读到过滤后的结果
func (s *RecommendationService) persist(ctx context.Context, userID string, scored []domain.ScoredRepo, log *logrus.Entry) {
	batch := scored
	if len(batch) > s.opts.CacheBatch {
		batch = batch[:s.opts.CacheBatch]
	}
	if len(batch) == 0 {
		return
	}

	now := s.nowFunc()
	entries := make([]domain.CacheEntry, 0, len(batch))
	for _, r := range batch {
		entries = append(entries, domain.CacheEntry{
			UserID:       userID,
			RepoFullName: r.FullName,
			MatchScore:   r.MatchScore,
			Snapshot:     r,
			ExpiresAt:    now.Add(s.opts.CacheTTL),
			CreatedAt:    now,
		})
	}
	if err := s.cache.Replace(ctx, userID, entries); err != nil {
		common.CachePersistFailures.Inc()
		log.WithError(err).Warn("写入推荐缓存失败")
	}
}

// RecommendIssues issue 推荐：
// 搜索仓库 -> 活跃度/友好度过滤 -> 并发拉 issue -> 过滤 -> 打分 -> 排序 -> 截断
func (s *RecommendationService) RecommendIssues(ctx context.Context, userID string, q domain.IssueQuery) ([]domain.ScoredIssue, error) {
	defer observe("issues", time.Now())

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := requireProfile(user); err != nil {
		return nil, err
	}
	log := s.logger.WithField("user", userID)

	search := domain.SearchFilters{
		Language:       q.Language,
		MinStars:       s.opts.MinStars,
		GoodFirstIssue: q.Difficulty == domain.DifficultyBeginner,
		HelpWanted:     true,
		Limit:          s.opts.IssueRepoFetchCap,
	}
	if search.Language == "" {
		search.Language = user.Profile.PrimaryLanguage()
	}

	source := s.sources.ForUser(user)
	candidates, err := source.SearchRepos(ctx, search)
	if err != nil {
		return nil, err
	}
	repos := s.filter.ByActivity(candidates, s.opts.ActivityDays)
	repos = s.filter.ByContributorFriendliness(repos)

	issues := s.fetchIssues(ctx, source, repos, log)
	log.Infof("从 %d 个仓库拿到 %d 个 issue", min(len(repos), s.opts.IssueRepoFanout), len(issues))

	issues = filter.ApplyIssues(issues, filter.IssueCriteria{
		Difficulty: q.Difficulty,
		Language:   q.Language,
		Labels:     q.Labels,
	})

	scored := s.issueScorer.ScoreAll(&user.Profile, issues)
	for _, i := range scored {
		if i.ScoreError != "" {
			common.ScoringFailures.WithLabelValues("issue").Inc()
			log.WithField("issue", i.HTMLURL).Warn(i.ScoreError)
		}
	}
	sortIssues(scored)

	if limit := s.opts.limit(q.Limit); len(scored) > limit {
		scored = scored[:limit]
	}
	common.RecommendationsServed.WithLabelValues("issues", "false").Inc()
	return scored, nil
}

// fetchIssues 并发拉取前 IssueRepoFanout 个仓库的 issue。
// 单个仓库失败只记日志，结果按仓库顺序拼接
func (s *RecommendationService) fetchIssues(ctx context.Context, source port.Source, repos []domain.Repo, log *logrus.Entry) []domain.Issue {
	if len(repos) > s.opts.IssueRepoFanout {
		repos = repos[:s.opts.IssueRepoFanout]
	}

	results := make([][]domain.Issue, len(repos))
	var g errgroup.Group
	for i := range repos {
		i := i
		repo := &repos[i]
		g.Go(func() error {
			owner, name, ok := splitFullName(repo.FullName)
			if !ok {
				return nil
			}
			issues, err := source.Issues(ctx, owner, name, nil)
			if err != nil {
				log.WithError(err).WithField("repo", repo.FullName).Warn("拉取 issue 失败，跳过")
				return nil
			}
			issues = filter.IncludeLabeled(issues, filter.DefaultIncludeLabels)
			for j := range issues {
				issues[j].Repository = domain.IssueRepoOf(repo)
			}
			results[i] = issues
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.Issue
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// SearchRepos 直接透传的仓库搜索
func (s *RecommendationService) SearchRepos(ctx context.Context, userID string, filters domain.SearchFilters) ([]domain.Repo, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if filters.Limit <= 0 {
		filters.Limit = s.opts.DefaultLimit
	}
	s.logger.WithFields(logrus.Fields{"user": userID, "query": filters.Query, "language": filters.Language}).Info("搜索仓库")
	return s.sources.ForUser(user).SearchRepos(ctx, filters)
}

// 分数降序，同分保持输入顺序
func sortRepos(repos []domain.ScoredRepo) {
	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].MatchScore > repos[j].MatchScore
	})
}

func sortIssues(issues []domain.ScoredIssue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].MatchScore > issues[j].MatchScore
	})
}

func observe(kind string, start time.Time) {
	common.PipelineDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

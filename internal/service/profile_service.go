package service

import (
	"context"
	"time"

	"oss-matchmaker/internal/adapter/analyzer"
	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"
	"oss-matchmaker/internal/port"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ProfileService 用户画像相关操作
type ProfileService struct {
	users    port.UserStore
	sources  port.SourceFactory
	analyzer *analyzer.ProfileAnalyzer
	validate *validator.Validate
	logger   *logrus.Logger
	nowFunc  func() time.Time
}

// NewProfileService 创建画像服务
func NewProfileService(users port.UserStore, sources port.SourceFactory, logger *logrus.Logger) *ProfileService {
	return &ProfileService{
		users:    users,
		sources:  sources,
		analyzer: analyzer.NewProfileAnalyzer(),
		validate: validator.New(),
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// WithNow 替换时钟，测试用
func (s *ProfileService) WithNow(now func() time.Time) *ProfileService {
	s.nowFunc = now
	s.analyzer.WithNow(now)
	return s
}

// Summary 并发拉取仓库和事件，重新分析画像并保存。
// 仓库拉取失败直接返回错误；事件失败按空列表处理
func (s *ProfileService) Summary(ctx context.Context, userID string) (*domain.ProfileSummary, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	source := s.sources.ForUser(user)
	log := s.logger.WithField("user", userID)

	var repos []domain.Repo
	var events []domain.Event
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		repos, err = source.UserRepos(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		events, err = source.UserEvents(gctx, user.GitHubUsername)
		if err != nil {
			log.WithError(err).Warn("拉取用户事件失败 (非关键)")
			events = []domain.Event{}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := s.analyzer.AnalyzeProfile(repos, events)
	log.WithFields(logrus.Fields{
		"repos":     profile.TotalRepos,
		"techStack": len(profile.TechStack),
		"domains":   len(profile.Domains),
	}).Info("画像分析完成")

	if err := s.users.SaveProfile(ctx, userID, profile); err != nil {
		log.WithError(err).Warn("保存画像失败")
	}

	return &domain.ProfileSummary{
		Username:  user.GitHubUsername,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Profile:   profile,
	}, nil
}

// Repos 用户自己的仓库
func (s *ProfileService) Repos(ctx context.Context, userID string) ([]domain.Repo, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.sources.ForUser(user).UserRepos(ctx, "")
}

// Stats 已保存的画像
func (s *ProfileService) Stats(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := requireProfile(user); err != nil {
		return nil, err
	}
	return &user.Profile, nil
}

// Contributions 优先用 GraphQL 日历，失败时用公开事件拼一个
func (s *ProfileService) Contributions(ctx context.Context, userID string) (*domain.ContributionCalendar, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	source := s.sources.ForUser(user)
	log := s.logger.WithField("user", userID)

	calendar, err := source.ContributionCalendar(ctx, user.GitHubUsername)
	if err == nil {
		log.Infof("GraphQL 返回 %d 次贡献", calendar.TotalContributions)
		return calendar, nil
	}
	log.WithError(err).Warn("GraphQL 贡献日历不可用，改用事件统计")

	events, eventsErr := source.UserEvents(ctx, user.GitHubUsername)
	if eventsErr != nil {
		return nil, eventsErr
	}
	fallback := analyzer.ContributionsFromEvents(events, s.nowFunc())
	return &fallback, nil
}

// TechStack 检测到的技术栈和自定义技术
func (s *ProfileService) TechStack(ctx context.Context, userID string) (*domain.TechStackView, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var detected []domain.TechStackEntry
	if user.ProfileStatus == domain.ProfileReady {
		detected = user.Profile.TechStack
	}
	view := domain.NewTechStackView(detected, user.CustomTech)
	return &view, nil
}

// UpdateTechStack 整体替换自定义技术列表
func (s *ProfileService) UpdateTechStack(ctx context.Context, userID string, techs []domain.CustomTech) ([]domain.CustomTech, error) {
	if techs == nil {
		return nil, common.NewError(common.ErrCodeValidation, "customTech must be an array")
	}
	for i := range techs {
		if err := s.validate.Struct(&techs[i]); err != nil {
			return nil, common.WrapError(common.ErrCodeValidation, "invalid technology entry", err)
		}
	}

	if err := s.users.SaveCustomTech(ctx, userID, techs); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"user": userID, "count": len(techs)}).Info("自定义技术栈已更新")
	return techs, nil
}

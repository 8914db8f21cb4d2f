package service

import (
	"context"
	"strings"

	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"
	"oss-matchmaker/internal/port"

	"github.com/sirupsen/logrus"
)

const defaultSavedLimit = 50

// SavedService 收藏夹
type SavedService struct {
	store  port.SavedStore
	logger *logrus.Logger
}

func NewSavedService(store port.SavedStore, logger *logrus.Logger) *SavedService {
	return &SavedService{store: store, logger: logger}
}

// Add 收藏一个仓库，重复收藏返回 CONFLICT
func (s *SavedService) Add(ctx context.Context, userID string, saved domain.SavedRepo) (*domain.SavedRepo, error) {
	if strings.TrimSpace(saved.RepoFullName) == "" {
		return nil, common.NewError(common.ErrCodeValidation, "Repository full name is required")
	}
	saved.UserID = userID
	if err := s.store.Add(ctx, &saved); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"user": userID, "repo": saved.RepoFullName}).Info("已收藏")
	return &saved, nil
}

// Remove 删除收藏，不存在也视为成功
func (s *SavedService) Remove(ctx context.Context, userID, repoFullName string) error {
	if strings.TrimSpace(repoFullName) == "" {
		return common.NewError(common.ErrCodeValidation, "Repository full name is required")
	}
	return s.store.Remove(ctx, userID, repoFullName)
}

func (s *SavedService) List(ctx context.Context, userID string, opts domain.SavedListOptions) ([]domain.SavedRepo, error) {
	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultSavedLimit
	}
	return s.store.List(ctx, userID, opts)
}

// UpdateNotes 修改收藏备注
func (s *SavedService) UpdateNotes(ctx context.Context, userID, repoFullName, notes string) (*domain.SavedRepo, error) {
	if strings.TrimSpace(repoFullName) == "" {
		return nil, common.NewError(common.ErrCodeValidation, "Repository full name is required")
	}
	return s.store.UpdateNotes(ctx, userID, repoFullName, notes)
}

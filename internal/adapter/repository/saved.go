package repository

import (
	"context"
	"errors"

	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultSavedLimit = 50

// 允许排序的列
var savedSortColumns = map[string]string{
	"created_at":     "created_at",
	"match_score":    "match_score",
	"repo_full_name": "repo_full_name",
}

// Add 收藏仓库，重复收藏返回 CONFLICT。成功后回填 ID 和 CreatedAt
func (r *PostgresRepo) Add(ctx context.Context, saved *domain.SavedRepo) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&savedRecord{}).
		Where("user_id = ? AND repo_full_name = ?", saved.UserID, saved.RepoFullName).
		Count(&count).Error
	if err != nil {
		return common.WrapError(common.ErrCodeDatabase, "检查收藏失败", err)
	}
	if count > 0 {
		return common.NewError(common.ErrCodeConflict, "repository already saved")
	}

	rec := savedRecord{
		ID:           uuid.NewString(),
		UserID:       saved.UserID,
		RepoFullName: saved.RepoFullName,
		RepoData:     saved.RepoData,
		MatchScore:   saved.MatchScore,
		Notes:        saved.Notes,
		CreatedAt:    r.nowFunc(),
	}
	if rec.RepoData == nil {
		rec.RepoData = map[string]any{}
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return common.WrapError(common.ErrCodeDatabase, "保存收藏失败", err)
	}

	saved.ID = rec.ID
	saved.CreatedAt = rec.CreatedAt
	saved.RepoData = rec.RepoData
	return nil
}

// Remove 取消收藏，不存在时也视为成功
func (r *PostgresRepo) Remove(ctx context.Context, userID, repoFullName string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND repo_full_name = ?", userID, repoFullName).
		Delete(&savedRecord{}).Error
	if err != nil {
		return common.WrapError(common.ErrCodeDatabase, "删除收藏失败", err)
	}
	return nil
}

// List 列出收藏。未知排序列退回 created_at，默认降序，默认最多 50 条
func (r *PostgresRepo) List(ctx context.Context, userID string, opts domain.SavedListOptions) ([]domain.SavedRepo, error) {
	column, ok := savedSortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if opts.Order == "asc" {
		direction = "ASC"
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSavedLimit
	}

	var recs []savedRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(column + " " + direction).
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "查询收藏失败", err)
	}

	out := make([]domain.SavedRepo, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}

// UpdateNotes 更新收藏备注，返回更新后的记录
func (r *PostgresRepo) UpdateNotes(ctx context.Context, userID, repoFullName, notes string) (*domain.SavedRepo, error) {
	result := r.db.WithContext(ctx).
		Model(&savedRecord{}).
		Where("user_id = ? AND repo_full_name = ?", userID, repoFullName).
		Update("notes", notes)
	if result.Error != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "更新收藏失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, common.NewError(common.ErrCodeNotFound, "saved repository not found")
	}

	var rec savedRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND repo_full_name = ?", userID, repoFullName).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NewError(common.ErrCodeNotFound, "saved repository not found")
	}
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "查询收藏失败", err)
	}

	saved := rec.toDomain()
	return &saved, nil
}

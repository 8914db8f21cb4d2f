package repository

import (
	"context"
	"time"

	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"

	"gorm.io/gorm"
)

const insertBatchSize = 100

// Lookup 读取未过期的缓存，分数降序，同分按写入顺序
func (r *PostgresRepo) Lookup(ctx context.Context, userID string, now time.Time, limit int) ([]domain.CacheEntry, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("match_score DESC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recs []recommendationRecord
	if err := query.Find(&recs).Error; err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "读取推荐缓存失败", err)
	}

	entries := make([]domain.CacheEntry, 0, len(recs))
	for i := range recs {
		entries = append(entries, recs[i].toDomain())
	}
	return entries, nil
}

// Replace 在一个事务里删除该用户的全部缓存再批量写入
func (r *PostgresRepo) Replace(ctx context.Context, userID string, entries []domain.CacheEntry) error {
	recs := make([]recommendationRecord, 0, len(entries))
	for _, e := range entries {
		recs = append(recs, recommendationRecord{
			UserID:       userID,
			RepoFullName: e.RepoFullName,
			MatchScore:   e.MatchScore,
			RepoData:     e.Snapshot,
			ExpiresAt:    e.ExpiresAt,
			CreatedAt:    e.CreatedAt,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&recommendationRecord{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return tx.CreateInBatches(recs, insertBatchSize).Error
	})
	if err != nil {
		return common.WrapError(common.ErrCodeCachePersist, "写入推荐缓存失败", err)
	}
	return nil
}

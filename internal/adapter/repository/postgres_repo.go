package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresRepo 实现了 port.UserStore、port.RecommendationCache 和 port.SavedStore 接口
type PostgresRepo struct {
	db      *gorm.DB
	nowFunc func() time.Time
}

// NewPostgresRepo 初始化数据库连接并自动迁移表结构
func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	if err := db.AutoMigrate(&userRecord{}, &recommendationRecord{}, &savedRecord{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return newWithDB(db), nil
}

func newWithDB(db *gorm.DB) *PostgresRepo {
	return &PostgresRepo{db: db, nowFunc: time.Now}
}

// Close 关闭底层连接池
func (r *PostgresRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetUser 读取用户记录，画像为空时 ProfileStatus 为 Missing
func (r *PostgresRepo) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NewError(common.ErrCodeNotFound, "user not found")
	}
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "查询用户失败", err)
	}
	return rec.toDomain(), nil
}

// SaveProfile 覆盖保存用户画像
func (r *PostgresRepo) SaveProfile(ctx context.Context, userID string, profile domain.Profile) error {
	now := r.nowFunc()
	result := r.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("id = ?", userID).
		Select("profile", "profile_updated_at", "updated_at").
		Updates(&userRecord{Profile: &profile, ProfileUpdatedAt: &now, UpdatedAt: now})
	return checkUpdate(result, "保存画像失败")
}

// SaveCustomTech 整体替换用户的自定义技术栈
func (r *PostgresRepo) SaveCustomTech(ctx context.Context, userID string, techs []domain.CustomTech) error {
	if techs == nil {
		techs = []domain.CustomTech{}
	}
	result := r.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("id = ?", userID).
		Select("custom_tech", "updated_at").
		Updates(&userRecord{CustomTech: techs, UpdatedAt: r.nowFunc()})
	return checkUpdate(result, "保存自定义技术栈失败")
}

// checkUpdate 没有命中任何行时返回 NOT_FOUND
func checkUpdate(result *gorm.DB, message string) error {
	if result.Error != nil {
		return common.WrapError(common.ErrCodeDatabase, message, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.NewError(common.ErrCodeNotFound, "user not found")
	}
	return nil
}

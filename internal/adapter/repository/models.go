package repository

import (
	"time"

	"oss-matchmaker/internal/domain"
)

// userRecord 用户表。profile 为 NULL 表示还没有分析过
type userRecord struct {
	ID               string              `gorm:"primaryKey;type:text"`
	GitHubUsername   string              `gorm:"column:github_username;index"`
	Email            string
	AvatarURL        string
	AccessToken      string
	Profile          *domain.Profile     `gorm:"serializer:json"`
	CustomTech       []domain.CustomTech `gorm:"serializer:json"`
	ProfileUpdatedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toDomain() *domain.User {
	u := &domain.User{
		ID:             r.ID,
		GitHubUsername: r.GitHubUsername,
		Email:          r.Email,
		AvatarURL:      r.AvatarURL,
		AccessToken:    r.AccessToken,
		ProfileStatus:  domain.ProfileMissing,
		CustomTech:     r.CustomTech,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Profile != nil {
		u.ProfileStatus = domain.ProfileReady
		u.Profile = *r.Profile
	}
	if u.CustomTech == nil {
		u.CustomTech = []domain.CustomTech{}
	}
	return u
}

// recommendationRecord 推荐缓存表，一行一个 (用户, 仓库)
type recommendationRecord struct {
	ID           uint              `gorm:"primaryKey"`
	UserID       string            `gorm:"index;not null"`
	RepoFullName string            `gorm:"not null"`
	MatchScore   int               `gorm:"index"`
	RepoData     domain.ScoredRepo `gorm:"serializer:json"`
	ExpiresAt    time.Time         `gorm:"index"`
	CreatedAt    time.Time
}

func (recommendationRecord) TableName() string { return "recommendations" }

func (r *recommendationRecord) toDomain() domain.CacheEntry {
	return domain.CacheEntry{
		UserID:       r.UserID,
		RepoFullName: r.RepoFullName,
		MatchScore:   r.MatchScore,
		Snapshot:     r.RepoData,
		ExpiresAt:    r.ExpiresAt,
		CreatedAt:    r.CreatedAt,
	}
}

// savedRecord 收藏表，(user_id, repo_full_name) 唯一
type savedRecord struct {
	ID           string         `gorm:"primaryKey;type:uuid"`
	UserID       string         `gorm:"uniqueIndex:idx_saved_user_repo;not null"`
	RepoFullName string         `gorm:"uniqueIndex:idx_saved_user_repo;not null"`
	RepoData     map[string]any `gorm:"serializer:json"`
	MatchScore   int
	Notes        string
	CreatedAt    time.Time
}

func (savedRecord) TableName() string { return "saved_repositories" }

func (r *savedRecord) toDomain() domain.SavedRepo {
	data := r.RepoData
	if data == nil {
		data = map[string]any{}
	}
	return domain.SavedRepo{
		ID:           r.ID,
		UserID:       r.UserID,
		RepoFullName: r.RepoFullName,
		RepoData:     data,
		MatchScore:   r.MatchScore,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
	}
}

package service

import (
	"strings"
	"time"

	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"
)

// Options 推荐流程的可调参数
type Options struct {
	DefaultLimit      int
	CacheBatch        int
	CacheTTL          time.Duration
	ActivityDays      int
	MinStars          int
	RepoFetchCap      int
	IssueRepoFetchCap int
	IssueRepoFanout   int
}

// DefaultOptions 返回默认参数
func DefaultOptions() Options {
	return Options{
		DefaultLimit:      30,
		CacheBatch:        50,
		CacheTTL:          24 * time.Hour,
		ActivityDays:      90,
		MinStars:          100,
		RepoFetchCap:      100,
		IssueRepoFetchCap: 50,
		IssueRepoFanout:   20,
	}
}

func (o Options) limit(requested int) int {
	if requested > 0 {
		return requested
	}
	return o.DefaultLimit
}

// requireProfile 画像还没分析过时返回 PROFILE_NOT_READY
func requireProfile(user *domain.User) error {
	if user.ProfileStatus != domain.ProfileReady {
		return common.NewError(common.ErrCodeProfileNotReady,
			"Profile not analyzed yet. Please visit /profile/summary first.")
	}
	return nil
}

// splitFullName "owner/name" -> owner, name
func splitFullName(fullName string) (string, string, bool) {
	owner, name, ok := strings.Cut(fullName, "/")
	return owner, name, ok && owner != "" && name != ""
}

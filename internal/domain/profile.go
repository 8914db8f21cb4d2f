package domain

import "time"

// TechStackEntry 技术栈中的一门语言
type TechStackEntry struct {
	Language   string  `json:"language"`
	RepoCount  int     `json:"repoCount"`
	Percentage float64 `json:"percentage"` // 保留两位小数，分母是全部仓库数
}

// ActivityScore 近 30 天活跃度
type ActivityScore struct {
	Score            int `json:"score"`
	RecentRepos      int `json:"recentRepos"`
	RecentEvents     int `json:"recentEvents"`
	ContributionDays int `json:"contributionDays"`
}

// DomainCount 领域标签及命中的仓库数
type DomainCount struct {
	Domain    string `json:"domain"`
	RepoCount int    `json:"repoCount"`
}

// Profile 由用户的仓库和事件推导出的画像，是两个打分器的输入
type Profile struct {
	TechStack     []TechStackEntry `json:"techStack"`
	ActivityScore ActivityScore    `json:"activityScore"`
	Domains       []DomainCount    `json:"domains"`
	SkillStrength map[string]int   `json:"skillStrength"`
	TotalRepos    int              `json:"totalRepos"`
	TotalStars    int              `json:"totalStars"`
	TotalForks    int              `json:"totalForks"`
}

// PrimaryLanguage 返回技术栈第一位的语言，没有则返回空字符串
func (p *Profile) PrimaryLanguage() string {
	if len(p.TechStack) == 0 {
		return ""
	}
	return p.TechStack[0].Language
}

// ProfileStatus 画像是否已经分析过
type ProfileStatus int

const (
	ProfileMissing ProfileStatus = iota
	ProfileReady
)

func (s ProfileStatus) String() string {
	if s == ProfileReady {
		return "ready"
	}
	return "missing"
}

// Proficiency 自定义技术的熟练度
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "Beginner"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyAdvanced     Proficiency = "Advanced"
	ProficiencyExpert       Proficiency = "Expert"
)

// CustomTech 用户手动添加的技术
type CustomTech struct {
	Name        string      `json:"name" validate:"required"`
	Proficiency Proficiency `json:"proficiency" validate:"required,oneof=Beginner Intermediate Advanced Expert"`
	Category    string      `json:"category" validate:"required"`
}

// User 存储中的用户记录
type User struct {
	ID             string
	GitHubUsername string
	Email          string
	AvatarURL      string
	AccessToken    string

	// ProfileStatus 由存储层给出；只有 ProfileReady 时 Profile 才有意义
	ProfileStatus ProfileStatus
	Profile       Profile

	CustomTech []CustomTech
	UpdatedAt  time.Time
}

// ContributionCalendar 按日期 (YYYY-MM-DD) 统计的贡献数
type ContributionCalendar struct {
	TotalContributions int            `json:"totalContributions"`
	ByDate             map[string]int `json:"contributions"`
}

// ProfileSummary 画像加上用户的基本信息
type ProfileSummary struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
	Profile
}

// CombinedTech 合并后的技术栈条目，自定义技术带 IsCustom
type CombinedTech struct {
	Language    string      `json:"language"`
	RepoCount   int         `json:"repoCount,omitempty"`
	Percentage  float64     `json:"percentage,omitempty"`
	Proficiency Proficiency `json:"proficiency,omitempty"`
	Category    string      `json:"category,omitempty"`
	IsCustom    bool        `json:"isCustom,omitempty"`
}

// TechStackView 检测到的技术栈和自定义技术
type TechStackView struct {
	GitHubDetected     []TechStackEntry `json:"githubDetected"`
	CustomTechnologies []CustomTech     `json:"customTechnologies"`
	Combined           []CombinedTech   `json:"combined"`
}

// NewTechStackView 检测结果在前，自定义技术在后
func NewTechStackView(detected []TechStackEntry, custom []CustomTech) TechStackView {
	if detected == nil {
		detected = []TechStackEntry{}
	}
	if custom == nil {
		custom = []CustomTech{}
	}
	combined := make([]CombinedTech, 0, len(detected)+len(custom))
	for _, t := range detected {
		combined = append(combined, CombinedTech{Language: t.Language, RepoCount: t.RepoCount, Percentage: t.Percentage})
	}
	for _, c := range custom {
		combined = append(combined, CombinedTech{Language: c.Name, Proficiency: c.Proficiency, Category: c.Category, IsCustom: true})
	}
	return TechStackView{GitHubDetected: detected, CustomTechnologies: custom, Combined: combined}
}

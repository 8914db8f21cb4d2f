package domain

import (
	"strings"
	"time"
)

// Repo 代表一个来自 GitHub 的仓库快照，核心流程只读不改
type Repo struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"` // 例如 "gohugoio/hugo"
	Description string    `json:"description"`
	Language    string    `json:"language"` // 空字符串表示 GitHub 未识别出语言
	Stars       int       `json:"stargazersCount"`
	Forks       int       `json:"forksCount"`
	OpenIssues  int       `json:"openIssuesCount"`
	Watchers    int       `json:"watchersCount"`
	Topics      []string  `json:"topics"`
	HasIssues   bool      `json:"hasIssues"`
	HasWiki     bool      `json:"hasWiki"`
	Size        int       `json:"size"`
	HTMLURL     string    `json:"htmlUrl"`
	Owner       string    `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SearchText 返回 name + description + topics 的小写拼接，用于关键词匹配
func (r *Repo) SearchText() string {
	parts := make([]string, 0, len(r.Topics)+2)
	parts = append(parts, r.Name, r.Description)
	parts = append(parts, r.Topics...)
	return strings.ToLower(strings.Join(parts, " "))
}

// HasLanguage 判断仓库是否有主语言
func (r *Repo) HasLanguage() bool {
	return r.Language != ""
}

// Label 是 issue 上的一个标签
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// IssueRepo 是附加在 issue 上的父仓库信息 (反范式)
type IssueRepo struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Language    string `json:"language"`
	Stars       int    `json:"stargazers_count"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
}

// IssueRepoOf 从仓库快照生成附加在 issue 上的仓库信息
func IssueRepoOf(r *Repo) IssueRepo {
	return IssueRepo{
		Name:        r.Name,
		FullName:    r.FullName,
		Language:    r.Language,
		Stars:       r.Stars,
		HTMLURL:     r.HTMLURL,
		Description: r.Description,
	}
}

// IssueAuthor issue 作者
type IssueAuthor struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Issue 代表一个候选 issue
type Issue struct {
	ID         int64       `json:"id"`
	Number     int         `json:"number"`
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	State      string      `json:"state"`
	Labels     []Label     `json:"labels"`
	Comments   int         `json:"comments"`
	HTMLURL    string      `json:"htmlUrl"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	Repository IssueRepo   `json:"repository"`
	User       IssueAuthor `json:"user"`

	// IsPullRequest 为 true 的条目在抓取阶段就会被丢弃，永远不会进入打分
	IsPullRequest bool `json:"-"`
}

// LabelNames 返回小写后的标签名
func (i *Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, strings.ToLower(l.Name))
	}
	return names
}

// HasLabelContaining 任一标签 (小写后) 包含任一关键字
func (i *Issue) HasLabelContaining(needles ...string) bool {
	for _, name := range i.LabelNames() {
		for _, n := range needles {
			if strings.Contains(name, n) {
				return true
			}
		}
	}
	return false
}

// EventType GitHub 事件类型
type EventType string

const (
	EventPush                     EventType = "PushEvent"
	EventPullRequest              EventType = "PullRequestEvent"
	EventIssues                   EventType = "IssuesEvent"
	EventIssueComment             EventType = "IssueCommentEvent"
	EventPullRequestReview        EventType = "PullRequestReviewEvent"
	EventPullRequestReviewComment EventType = "PullRequestReviewCommentEvent"
	EventCreate                   EventType = "CreateEvent"
	EventCommitComment            EventType = "CommitCommentEvent"
)

// IsContribution 判断事件是否计入贡献，其余类型忽略
func (t EventType) IsContribution() bool {
	switch t {
	case EventPush, EventPullRequest, EventIssues, EventIssueComment,
		EventPullRequestReview, EventPullRequestReviewComment, EventCreate, EventCommitComment:
		return true
	}
	return false
}

// Event 用户的一条公开活动
type Event struct {
	Type      EventType `json:"type"`
	CreatedAt time.Time `json:"createdAt"`

	// HasCommits 表示 payload 里带有 commits 列表 (仅 PushEvent)
	HasCommits  bool `json:"hasCommits,omitempty"`
	CommitCount int  `json:"commitCount,omitempty"`
}

// Weight 返回该事件的贡献权重：PushEvent 按 commit 数计，其余计 1
func (e *Event) Weight() int {
	if e.Type == EventPush && e.HasCommits {
		return e.CommitCount
	}
	return 1
}

// Difficulty 推荐难度
type Difficulty string

const (
	DifficultyAll          Difficulty = "all"
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// IsAdvanced advanced 和 expert 是同一档
func (d Difficulty) IsAdvanced() bool {
	return d == DifficultyAdvanced || d == DifficultyExpert
}

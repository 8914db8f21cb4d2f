package github

import (
	"oss-matchmaker/internal/domain"

	"github.com/google/go-github/v53/github"
)

// toRepo 将 GitHub 的数据结构转换为 Domain 实体
func toRepo(item *github.Repository) domain.Repo {
	topics := item.Topics
	if topics == nil {
		topics = []string{}
	}
	return domain.Repo{
		ID:          item.GetID(),
		Name:        item.GetName(),
		FullName:    item.GetFullName(),
		Description: item.GetDescription(),
		Language:    item.GetLanguage(),
		Stars:       item.GetStargazersCount(),
		Forks:       item.GetForksCount(),
		OpenIssues:  item.GetOpenIssuesCount(),
		Watchers:    item.GetWatchersCount(),
		Topics:      topics,
		HasIssues:   item.GetHasIssues(),
		HasWiki:     item.GetHasWiki(),
		Size:        item.GetSize(),
		HTMLURL:     item.GetHTMLURL(),
		Owner:       item.GetOwner().GetLogin(),
		CreatedAt:   item.GetCreatedAt().Time,
		UpdatedAt:   item.GetUpdatedAt().Time,
	}
}

func toIssue(item *github.Issue) domain.Issue {
	labels := make([]domain.Label, 0, len(item.Labels))
	for _, l := range item.Labels {
		labels = append(labels, domain.Label{Name: l.GetName(), Color: l.GetColor()})
	}
	return domain.Issue{
		ID:        item.GetID(),
		Number:    item.GetNumber(),
		Title:     item.GetTitle(),
		Body:      item.GetBody(),
		State:     item.GetState(),
		Labels:    labels,
		Comments:  item.GetComments(),
		HTMLURL:   item.GetHTMLURL(),
		CreatedAt: item.GetCreatedAt().Time,
		UpdatedAt: item.GetUpdatedAt().Time,
		User: domain.IssueAuthor{
			Login:     item.GetUser().GetLogin(),
			AvatarURL: item.GetUser().GetAvatarURL(),
		},
		IsPullRequest: item.IsPullRequest(),
	}
}

// toEvent 只保留打分需要的字段；PushEvent 额外解析 commit 数
func toEvent(item *github.Event) domain.Event {
	e := domain.Event{
		Type:      domain.EventType(item.GetType()),
		CreatedAt: item.GetCreatedAt().Time,
	}
	if e.Type != domain.EventPush || item.RawPayload == nil {
		return e
	}

	payload, err := item.ParsePayload()
	if err != nil {
		return e
	}
	if push, ok := payload.(*github.PushEvent); ok && push.Commits != nil {
		e.HasCommits = true
		e.CommitCount = len(push.Commits)
	}
	return e
}

package github

import (
	"context"
	"errors"
	"strings"
	"time"

	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"

	"github.com/google/go-github/v53/github"
)

const contributionQuery = `query($username: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $username) {
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            contributionCount
            date
          }
        }
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type calendarResponse struct {
	Data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar *struct {
					TotalContributions int `json:"totalContributions"`
					Weeks              []struct {
						ContributionDays []struct {
							ContributionCount int    `json:"contributionCount"`
							Date              string `json:"date"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// ContributionCalendar 通过 GraphQL 获取近一年的贡献日历。
// 需要 token；username 为空时取 token 对应的用户
func (s *Source) ContributionCalendar(ctx context.Context, username string) (*domain.ContributionCalendar, error) {
	if username == "" {
		login, err := s.login(ctx)
		if err != nil {
			return nil, err
		}
		username = login
	}

	to := time.Now().UTC()
	body := &graphqlRequest{
		Query: contributionQuery,
		Variables: map[string]any{
			"username": username,
			"from":     to.AddDate(-1, 0, 0).Format(time.RFC3339),
			"to":       to.Format(time.RFC3339),
		},
	}

	var out calendarResponse
	err := s.call(ctx, "contribution_calendar", func() (*github.Response, error) {
		req, err := s.client.NewRequest("POST", "graphql", body)
		if err != nil {
			return nil, common.Permanent(err)
		}
		out = calendarResponse{}
		return s.client.Do(ctx, req, &out)
	})
	if err != nil {
		return nil, err
	}

	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, common.WrapError(common.ErrCodeUpstream, "GraphQL 返回错误",
			errors.New(strings.Join(msgs, "; ")))
	}

	cal := &domain.ContributionCalendar{ByDate: map[string]int{}}
	if out.Data.User == nil || out.Data.User.ContributionsCollection.ContributionCalendar == nil {
		return cal, nil
	}

	raw := out.Data.User.ContributionsCollection.ContributionCalendar
	cal.TotalContributions = raw.TotalContributions
	for _, week := range raw.Weeks {
		for _, day := range week.ContributionDays {
			cal.ByDate[day.Date] = day.ContributionCount
		}
	}
	return cal, nil
}


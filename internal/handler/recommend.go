package handler

import (
	"net/http"
	"strings"
	"time"

	"oss-matchmaker/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type repoRecommendation struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	FullName        string           `json:"fullName"`
	Description     string           `json:"description"`
	Language        string           `json:"language"`
	StargazersCount int              `json:"stargazersCount"`
	ForksCount      int              `json:"forksCount"`
	OpenIssuesCount int              `json:"openIssuesCount"`
	Topics          []string         `json:"topics"`
	HTMLURL         string           `json:"htmlUrl"`
	MatchScore      int              `json:"matchScore"`
	ScoreBreakdown  domain.Breakdown `json:"scoreBreakdown"`
	ScoreError      string           `json:"scoreError,omitempty"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	CachedAt        *time.Time       `json:"cachedAt,omitempty"`
}

func toRepoRecommendations(res *domain.RepoRecommendations) []repoRecommendation {
	out := make([]repoRecommendation, 0, len(res.Items))
	for _, r := range res.Items {
		rec := repoRecommendation{
			ID:              r.ID,
			Name:            r.Name,
			FullName:        r.FullName,
			Description:     r.Description,
			Language:        r.Language,
			StargazersCount: r.Stars,
			ForksCount:      r.Forks,
			OpenIssuesCount: r.OpenIssues,
			Topics:          r.Topics,
			HTMLURL:         r.HTMLURL,
			MatchScore:      r.MatchScore,
			ScoreBreakdown:  r.ScoreBreakdown,
			ScoreError:      r.ScoreError,
			UpdatedAt:       r.UpdatedAt,
		}
		if res.Cached {
			cachedAt := res.CachedAt
			rec.CachedAt = &cachedAt
		}
		out = append(out, rec)
	}
	return out
}

// RecommendRepos GET /recommend/repos
func (h *Handler) RecommendRepos(c echo.Context) error {
	var q domain.RepoQuery
	if err := bindAndValidate(c, &q); err != nil {
		return h.fail(c, "recommend_repos", err)
	}

	res, err := h.recommend.RecommendRepos(c.Request().Context(), userID(c), q)
	if err != nil {
		return h.fail(c, "recommend_repos", err)
	}

	h.logRequest(c, "recommend_repos").WithFields(logrus.Fields{
		"count":  len(res.Items),
		"cached": res.Cached,
	}).Info("recommendations served")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"recommendations": toRepoRecommendations(res),
		"cached":          res.Cached,
	})
}

// RecommendIssues GET /issues/recommendations
func (h *Handler) RecommendIssues(c echo.Context) error {
	var q domain.IssueQuery
	if err := bindAndValidate(c, &q); err != nil {
		return h.fail(c, "recommend_issues", err)
	}
	q.Labels = splitList(c.QueryParam("labels"))

	issues, err := h.recommend.RecommendIssues(c.Request().Context(), userID(c), q)
	if err != nil {
		return h.fail(c, "recommend_issues", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"issues": issues,
		"cached": false,
		"total":  len(issues),
	})
}

type searchRequest struct {
	Query    string `query:"query"`
	Language string `query:"language"`
	Topics   string `query:"topics"`
	MinStars int    `query:"minStars" validate:"gte=0"`
	Sort     string `query:"sort" validate:"omitempty,oneof=stars forks updated help-wanted-issues"`
	Limit    int    `query:"limit" validate:"gte=0,lte=100"`
}

// SearchRepos GET /search/repos
func (h *Handler) SearchRepos(c echo.Context) error {
	var req searchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, "search_repos", err)
	}

	repos, err := h.recommend.SearchRepos(c.Request().Context(), userID(c), domain.SearchFilters{
		Query:    req.Query,
		Language: req.Language,
		Topics:   splitList(req.Topics),
		MinStars: req.MinStars,
		Sort:     req.Sort,
		Limit:    req.Limit,
	})
	if err != nil {
		return h.fail(c, "search_repos", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"repositories": repos})
}

// AnalyzeRepo GET /recommend/repos/:owner/:repo/analyze
func (h *Handler) AnalyzeRepo(c echo.Context) error {
	analysis, err := h.analysis.Analyze(c.Request().Context(), userID(c), c.Param("owner"), c.Param("repo"))
	if err != nil {
		return h.fail(c, "analyze_repo", err)
	}
	return c.JSON(http.StatusOK, analysis)
}

// splitList 逗号分隔，去掉空项
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

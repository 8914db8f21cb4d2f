package handler

import (
	"net/http"

	"oss-matchmaker/internal/domain"

	"github.com/labstack/echo/v4"
)

// ProfileSummary GET /profile/summary
func (h *Handler) ProfileSummary(c echo.Context) error {
	summary, err := h.profile.Summary(c.Request().Context(), userID(c))
	if err != nil {
		return h.fail(c, "profile_summary", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"profile": summary})
}

// ProfileRepos GET /profile/repos
func (h *Handler) ProfileRepos(c echo.Context) error {
	repos, err := h.profile.Repos(c.Request().Context(), userID(c))
	if err != nil {
		return h.fail(c, "profile_repos", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"repositories": repos})
}

// ProfileStats GET /profile/stats
func (h *Handler) ProfileStats(c echo.Context) error {
	stats, err := h.profile.Stats(c.Request().Context(), userID(c))
	if err != nil {
		return h.fail(c, "profile_stats", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"stats": stats})
}

// ProfileContributions GET /profile/contributions
func (h *Handler) ProfileContributions(c echo.Context) error {
	calendar, err := h.profile.Contributions(c.Request().Context(), userID(c))
	if err != nil {
		return h.fail(c, "profile_contributions", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"contributions":      calendar.ByDate,
		"totalDays":          len(calendar.ByDate),
		"totalContributions": calendar.TotalContributions,
	})
}

// GetTechStack GET /profile/techstack
func (h *Handler) GetTechStack(c echo.Context) error {
	view, err := h.profile.TechStack(c.Request().Context(), userID(c))
	if err != nil {
		return h.fail(c, "get_techstack", err)
	}
	return c.JSON(http.StatusOK, view)
}

type techStackRequest struct {
	CustomTech []domain.CustomTech `json:"customTech"`
}

// UpdateTechStack PUT /profile/techstack
func (h *Handler) UpdateTechStack(c echo.Context) error {
	var req techStackRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "update_techstack", invalid(err))
	}

	techs, err := h.profile.UpdateTechStack(c.Request().Context(), userID(c), req.CustomTech)
	if err != nil {
		return h.fail(c, "update_techstack", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":            "Tech stack updated successfully",
		"customTechnologies": techs,
	})
}

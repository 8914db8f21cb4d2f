package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter 创建挂好中间件和全部路由的 echo 实例
func NewRouter(h *Handler, logger *logrus.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(LoggingMiddleware(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authed := e.Group("", RequireUser())

	profile := authed.Group("/profile")
	profile.GET("/summary", h.ProfileSummary)
	profile.GET("/repos", h.ProfileRepos)
	profile.GET("/stats", h.ProfileStats)
	profile.GET("/contributions", h.ProfileContributions)
	profile.GET("/techstack", h.GetTechStack)
	profile.PUT("/techstack", h.UpdateTechStack)

	authed.GET("/recommend/repos", h.RecommendRepos)
	authed.GET("/recommend/repos/:owner/:repo/analyze", h.AnalyzeRepo)
	authed.GET("/issues/recommendations", h.RecommendIssues)
	authed.GET("/search/repos", h.SearchRepos)

	saved := authed.Group("/saved")
	saved.POST("/add", h.AddSaved)
	saved.POST("/remove", h.RemoveSaved)
	saved.GET("/list", h.ListSaved)
	saved.PUT("/update", h.UpdateSaved)

	return e
}

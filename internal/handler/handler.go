// Package handler 是 echo 的 HTTP 接口层
package handler

import (
	"context"
	"net/http"

	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RecommendationUseCase 仓库/issue 推荐和搜索
type RecommendationUseCase interface {
	RecommendRepos(ctx context.Context, userID string, q domain.RepoQuery) (*domain.RepoRecommendations, error)
	RecommendIssues(ctx context.Context, userID string, q domain.IssueQuery) ([]domain.ScoredIssue, error)
	SearchRepos(ctx context.Context, userID string, filters domain.SearchFilters) ([]domain.Repo, error)
}

type ProfileUseCase interface {
	Summary(ctx context.Context, userID string) (*domain.ProfileSummary, error)
	Repos(ctx context.Context, userID string) ([]domain.Repo, error)
	Stats(ctx context.Context, userID string) (*domain.Profile, error)
	Contributions(ctx context.Context, userID string) (*domain.ContributionCalendar, error)
	TechStack(ctx context.Context, userID string) (*domain.TechStackView, error)
	UpdateTechStack(ctx context.Context, userID string, techs []domain.CustomTech) ([]domain.CustomTech, error)
}

type AnalysisUseCase interface {
	Analyze(ctx context.Context, userID, owner, name string) (*domain.RepoAnalysis, error)
}

type SavedUseCase interface {
	Add(ctx context.Context, userID string, saved domain.SavedRepo) (*domain.SavedRepo, error)
	Remove(ctx context.Context, userID, repoFullName string) error
	List(ctx context.Context, userID string, opts domain.SavedListOptions) ([]domain.SavedRepo, error)
	UpdateNotes(ctx context.Context, userID, repoFullName, notes string) (*domain.SavedRepo, error)
}

// Handler 汇总所有路由的处理函数
type Handler struct {
	recommend RecommendationUseCase
	profile   ProfileUseCase
	analysis  AnalysisUseCase
	saved     SavedUseCase
	logger    *logrus.Logger
}

func New(
	recommend RecommendationUseCase,
	profile ProfileUseCase,
	analysis AnalysisUseCase,
	saved SavedUseCase,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		recommend: recommend,
		profile:   profile,
		analysis:  analysis,
		saved:     saved,
		logger:    logger,
	}
}

// CustomValidator 把 validator 挂到 echo 上
type CustomValidator struct {
	validate *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validate: validator.New()}
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return common.WrapError(common.ErrCodeValidation, err.Error(), err)
	}
	return nil
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func toErrorResponse(code, message string) errorResponse {
	return errorResponse{Error: errorBody{Code: code, Message: message}}
}

// statusOf 错误码 -> HTTP 状态码
func statusOf(code string) int {
	switch code {
	case common.ErrCodeValidation, common.ErrCodeProfileNotReady:
		return http.StatusBadRequest
	case common.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case common.ErrCodeNotFound:
		return http.StatusNotFound
	case common.ErrCodeConflict:
		return http.StatusConflict
	case common.ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail 记录日志并按错误码返回错误响应。5xx 不把内部信息返回给调用方
func (h *Handler) fail(c echo.Context, operation string, err error) error {
	code := common.CodeOf(err)
	status := statusOf(code)
	entry := h.logRequest(c, operation).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	message := common.MessageOf(err)
	if code == common.ErrCodeInternal {
		message = "internal error"
	}
	return c.JSON(status, toErrorResponse(code, message))
}

func (h *Handler) logRequest(c echo.Context, operation string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"operation": operation,
		"method":    c.Request().Method,
		"path":      c.Request().URL.Path,
		"user":      userID(c),
	})
}

func invalid(err error) error {
	return common.WrapError(common.ErrCodeValidation, "invalid request", err)
}

// bindAndValidate 绑定请求并校验，失败时返回 VALIDATION_ERROR
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return invalid(err)
	}
	return c.Validate(dst)
}

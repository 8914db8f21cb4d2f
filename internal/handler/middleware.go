package handler

import (
	"net/http"
	"strings"
	"time"

	"oss-matchmaker/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	// UserIDHeader 网关写入的调用方身份
	UserIDHeader = "X-User-ID"
	userIDKey    = "userID"
)

// LoggingMiddleware 结构化请求日志
func LoggingMiddleware(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			entry := logger.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"uri":        c.Request().URL.Path,
				"status":     status,
				"latency":    time.Since(start),
				"ip":         c.RealIP(),
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			})
			if err != nil {
				entry = entry.WithField("error", err.Error())
			}

			switch {
			case status >= 500:
				entry.Error("Server error")
			case status >= 400:
				entry.Warn("Client error")
			default:
				entry.Info("Request processed")
			}
			return nil
		}
	}
}

// RequireUser 从 X-User-ID 取调用方身份，缺失时返回 401
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(UserIDHeader))
			if id == "" {
				return c.JSON(http.StatusUnauthorized,
					toErrorResponse(common.ErrCodeUnauthorized, "missing "+UserIDHeader+" header"))
			}
			c.Set(userIDKey, id)
			return next(c)
		}
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

package common

import (
	"errors"
	"fmt"
)

// AppError 应用级错误结构
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code, message string, err error) error {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewError 创建新错误
func NewError(code, message string) error {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// CodeOf 沿着包装链取出错误码，非 AppError 返回 ErrCodeInternal
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// MessageOf 取出面向调用方的错误信息
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

// IsCode 判断错误链上是否带有指定错误码
func IsCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// 错误码常量
const (
	ErrCodeUpstream        = "UPSTREAM_UNAVAILABLE"
	ErrCodeProfileNotReady = "PROFILE_NOT_READY"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeCachePersist    = "CACHE_PERSIST_FAILURE"
	ErrCodeDatabase        = "DATABASE_ERROR"
	ErrCodeAIProcessing    = "AI_PROCESSING_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

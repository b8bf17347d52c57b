package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ApiError 自定义API错误
type ApiError struct {
	StatusCode int
	Message    string
	ErrorCode  string
}

// Error 实现error接口
func (e *ApiError) Error() string {
	return e.Message
}

// NewApiError 创建API错误
func NewApiError(message string, statusCode int, errorCode string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		ErrorCode:  errorCode,
	}
}

// CreateNotFoundError 创建资源不存在错误
func CreateNotFoundError(resource string) *ApiError {
	return NewApiError(resource+" not found", http.StatusNotFound, "RESOURCE_NOT_FOUND")
}

// CreateUnauthorizedError 创建未授权错误
func CreateUnauthorizedError(message string) *ApiError {
	return NewApiError(message, http.StatusUnauthorized, "UNAUTHORIZED")
}

// CreateForbiddenError 创建权限不足错误
func CreateForbiddenError(message string) *ApiError {
	return NewApiError(message, http.StatusForbidden, "FORBIDDEN")
}

// CreateBadRequestError 创建错误请求错误
func CreateBadRequestError(message string) *ApiError {
	return NewApiError(message, http.StatusBadRequest, "BAD_REQUEST")
}

// CreateServiceUnavailableError 外部依赖未配置
func CreateServiceUnavailableError(message string) *ApiError {
	return NewApiError(message, http.StatusServiceUnavailable, "NOT_CONFIGURED")
}

// StatusOf 返回错误对应的 HTTP 状态码
func StatusOf(err error) int {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

// HandleError 处理错误并返回适当的响应
func HandleError(c *gin.Context, err error) {
	if c == nil || err == nil {
		return
	}

	status := StatusOf(err)
	message := err.Error()
	if message == "" {
		message = "Server error"
	}

	event := Logger.Warn()
	if status >= http.StatusInternalServerError {
		event = Logger.Error()
	}
	event.Err(err).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Int("status", status).
		Msg("api error")

	ErrorResponse(c, message, status)
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, message string, statusCode int) {
	c.AbortWithStatusJSON(statusCode, gin.H{"message": message})
}

// MessageResponse 只包含提示信息的成功响应
func MessageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

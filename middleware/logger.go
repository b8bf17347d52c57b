package middleware

import (
	"net/http"
	"time"

	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求 ID 头
const RequestIDHeader = "X-Request-ID"

// Logger 日志中间件，为每个请求分配请求 ID
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestId", requestID)
		c.Header(RequestIDHeader, requestID)

		utils.LogApiRequest(requestID, method, path, c.Request.URL.Query(), c.GetHeader("Authorization"))

		c.Next()

		utils.LogApiResponse(requestID, method, path, c.Writer.Status(), time.Since(start))
	}
}

// Recovery 恢复中间件
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		utils.Logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("服务崩溃")

		utils.ErrorResponse(c, "Internal Server Error", http.StatusInternalServerError)
	})
}

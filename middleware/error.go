package middleware

import (
	"net/http"

	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes JSON 请求体上限
const MaxBodyBytes = 10 << 20

// ErrorHandler 全局错误处理中间件
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 如果已经存在错误响应，不重复处理
		if c.Writer.Written() || c.Writer.Status() >= 400 {
			return
		}

		if len(c.Errors) > 0 {
			utils.HandleError(c, c.Errors.Last().Err)
		}
	}
}

// BodyLimit 限制请求体大小
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// ValidateObjectID 校验路径参数是合法的 ObjectID
func ValidateObjectID(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.ParseObjectID(c.Param(param)); !ok {
			utils.ErrorResponse(c, "Invalid ID", http.StatusBadRequest)
			return
		}
		c.Next()
	}
}

// NotFound 未匹配的路由
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.ErrorResponse(c, "Not found", http.StatusNotFound)
	}
}

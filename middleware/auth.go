package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/repository"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenParser 解析 token 得到用户 ID
type TokenParser interface {
	ParseToken(token string) (primitive.ObjectID, error)
}

// UserFinder 按 ID 加载用户
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// AuthMiddleware 认证中间件，校验 Bearer token 并把当前用户放入上下文
func AuthMiddleware(tokens TokenParser, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Logger.Debug().Str("path", c.Request.URL.Path).Msg("缺少Authorization头或格式错误")
			utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized, no token"))
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized, no token"))
			return
		}

		userID, err := tokens.ParseToken(token)
		if err != nil {
			utils.Logger.Info().Err(err).Str("authorization", utils.ShortAuthHeader(authHeader)).Msg("Token验证失败")
			utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized, token failed"))
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if errors.Is(err, repository.ErrNotFound) {
			utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized, user not found"))
			return
		}
		if err != nil {
			utils.HandleError(c, err)
			return
		}

		c.Set(utils.ContextUserKey, user)
		c.Next()
	}
}

// AdminOnly 仅管理员可访问，必须放在 AuthMiddleware 之后
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized"))
			return
		}
		if !user.IsAdmin() {
			utils.Logger.Info().
				Str("userId", user.ID.Hex()).
				Str("role", string(user.Role)).
				Str("path", c.Request.URL.Path).
				Msg("权限不足")
			utils.HandleError(c, utils.CreateForbiddenError("Admin access required"))
			return
		}
		c.Next()
	}
}

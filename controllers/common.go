package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/repository"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityLogger 写入动态时间线
type ActivityLogger interface {
	Record(ctx context.Context, activityType models.ActivityType, ref models.EntityRef, description string, authorID primitive.ObjectID, metadata map[string]interface{})
}

// currentUser 取出当前用户，失败时已写入 401 响应
func currentUser(c *gin.Context) (*models.User, bool) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized"))
		return nil, false
	}
	return user, true
}

// pathID 解析路径中的 :id，路由上已有 ValidateObjectID 时不会失败
func pathID(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := utils.ParseObjectID(c.Param("id"))
	if !ok {
		utils.ErrorResponse(c, "Invalid ID", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}

// bindJSON 绑定请求体，失败时已写入响应
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &tooLarge):
		utils.ErrorResponse(c, "Request body too large", http.StatusRequestEntityTooLarge)
	case errors.As(err, &fieldErrs) && len(fieldErrs) > 0:
		utils.HandleError(c, utils.CreateBadRequestError("Invalid "+fieldErrs[0].Field()))
	default:
		utils.Logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("请求体解析失败")
		utils.HandleError(c, utils.CreateBadRequestError("Invalid request body"))
	}
	return false
}

// notFoundAs 将仓储层的 ErrNotFound 转为 404
func notFoundAs(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.CreateNotFoundError(resource)
	}
	return err
}

// queryObjectID 可选的查询参数 ID，非法时返回 400
func queryObjectID(c *gin.Context, key string) (*primitive.ObjectID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, ok := utils.ParseObjectID(raw)
	if !ok {
		return nil, utils.CreateBadRequestError("Invalid " + key)
	}
	return &id, nil
}

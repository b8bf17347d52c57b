package controllers

import (
	"context"
	"net/http"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityStore 动态查询
type ActivityStore interface {
	List(ctx context.Context, f models.ActivityFilter, p utils.Pagination) ([]models.Activity, int64, error)
	Recent(ctx context.Context, authorID *primitive.ObjectID, limit int64) ([]models.Activity, error)
}

// ActivityPopulator 展开动态的作者
type ActivityPopulator interface {
	Activities(ctx context.Context, activities []models.Activity) ([]models.ActivityView, error)
}

// ActivityController 当前用户的动态时间线
type ActivityController struct {
	store    ActivityStore
	expander ActivityPopulator
}

// NewActivityController 创建动态控制器
func NewActivityController(store ActivityStore, expander ActivityPopulator) *ActivityController {
	return &ActivityController{store: store, expander: expander}
}

// GetActivityList 动态列表，支持 entityType、entityId、type 筛选
func (ac *ActivityController) GetActivityList(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c, 20)

	filter := models.ActivityFilter{
		AuthorID:   user.ID,
		EntityType: models.EntityType(c.Query("entityType")),
		Type:       models.ActivityType(c.Query("type")),
	}
	var err error
	if filter.EntityID, err = queryObjectID(c, "entityId"); err != nil {
		utils.HandleError(c, err)
		return
	}

	activities, total, err := ac.store.List(c.Request.Context(), filter, p)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	views, err := ac.expander.Activities(c.Request.Context(), activities)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.PaginatedResponse(c, "activities", views, total, p)
}

// GetRecentActivities 最近的动态
func (ac *ActivityController) GetRecentActivities(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	limit := utils.ParseLimit(c.Query("limit"), 10)

	activities, err := ac.store.Recent(c.Request.Context(), &user.ID, limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	views, err := ac.expander.Activities(c.Request.Context(), activities)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

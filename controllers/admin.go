package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/repository"
	"github.com/BerniceZTT/clientiq/service"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// adminRecentActivities 管理后台展示的动态数
	adminRecentActivities = 15
	// growthWindowDays 新增统计的天数
	growthWindowDays = 7
)

// Counter 集合计数
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// GrowthCounter 集合计数及近期新增
type GrowthCounter interface {
	Counter
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// PlatformLeads 管理后台用到的线索查询
type PlatformLeads interface {
	GrowthCounter
	StatusStats(ctx context.Context) ([]models.FunnelStage, error)
}

// PlatformTasks 管理后台用到的任务查询
type PlatformTasks interface {
	Counter
	CountCompleted(ctx context.Context) (int64, error)
}

// PlatformActivities 管理后台用到的动态查询
type PlatformActivities interface {
	Counter
	Recent(ctx context.Context, authorID *primitive.ObjectID, limit int64) ([]models.Activity, error)
}

// PlatformSources 管理后台统计的数据来源
type PlatformSources struct {
	Users      GrowthCounter
	Customers  GrowthCounter
	Leads      PlatformLeads
	Activities PlatformActivities
	Emails     Counter
	Tasks      PlatformTasks
}

// AdminController 平台统计，仅管理员可访问
type AdminController struct {
	src      PlatformSources
	expander ActivityPopulator
	dbStatus func(ctx context.Context) map[string]repository.CollectionStatus
	now      func() time.Time
}

// NewAdminController 创建管理后台控制器
func NewAdminController(src PlatformSources, expander ActivityPopulator, dbStatus func(ctx context.Context) map[string]repository.CollectionStatus) *AdminController {
	return &AdminController{src: src, expander: expander, dbStatus: dbStatus, now: time.Now}
}

// GetPlatformStats 平台统计
func (ac *AdminController) GetPlatformStats(c *gin.Context) {
	ctx := c.Request.Context()
	since := service.RevenueWindowStart(ac.now(), growthWindowDays)

	var (
		stats models.PlatformStats
		err   error
	)
	ov := &stats.Overview
	counts := []struct {
		dst *int64
		fn  func(context.Context) (int64, error)
	}{
		{&ov.TotalUsers, ac.src.Users.Count},
		{&ov.TotalCustomers, ac.src.Customers.Count},
		{&ov.TotalLeads, ac.src.Leads.Count},
		{&ov.TotalActivities, ac.src.Activities.Count},
		{&ov.TotalEmails, ac.src.Emails.Count},
		{&ov.TotalTasks, ac.src.Tasks.Count},
		{&ov.TasksCompleted, ac.src.Tasks.CountCompleted},
	}
	for _, item := range counts {
		if *item.dst, err = item.fn(ctx); err != nil {
			utils.HandleError(c, err)
			return
		}
	}

	growth := []struct {
		dst *int64
		src GrowthCounter
	}{
		{&stats.Last7Days.NewUsers, ac.src.Users},
		{&stats.Last7Days.NewCustomers, ac.src.Customers},
		{&stats.Last7Days.NewLeads, ac.src.Leads},
	}
	for _, item := range growth {
		if *item.dst, err = item.src.CountSince(ctx, since); err != nil {
			utils.HandleError(c, err)
			return
		}
	}

	funnel, err := ac.src.Leads.StatusStats(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ov.TotalRevenue, _ = service.ClosedTotals(funnel)
	stats.LeadsByStatus = service.StatusCounts(funnel)
	stats.Funnel = service.FillFunnel(funnel)

	recent, err := ac.src.Activities.Recent(ctx, nil, adminRecentActivities)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	views, err := ac.expander.Activities(ctx, recent)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	stats.RecentActivities = make([]models.PlatformActivity, 0, len(views))
	for _, v := range views {
		item := models.PlatformActivity{
			ID:          v.ID,
			Type:        v.Type,
			Description: v.Description,
			EntityType:  v.EntityType,
			CreatedAt:   v.CreatedAt,
		}
		if v.Author != nil {
			item.CreatedBy = v.Author.Name
		}
		stats.RecentActivities = append(stats.RecentActivities, item)
	}

	c.JSON(http.StatusOK, stats)
}

// GetDatabaseStatus 各集合文档数
func (ac *AdminController) GetDatabaseStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"collections": ac.dbStatus(c.Request.Context()),
	})
}

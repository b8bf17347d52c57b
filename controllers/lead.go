package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/service"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dashboardRecentLeads 看板展示的最近线索数
const dashboardRecentLeads = 5

// LeadStore 线索数据访问
type LeadStore interface {
	List(ctx context.Context, status string, p utils.Pagination) ([]models.Lead, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error)
	Create(ctx context.Context, lead *models.Lead) error
	Save(ctx context.Context, lead *models.Lead) error
	AddNote(ctx context.Context, id primitive.ObjectID, note models.LeadNote) (*models.Lead, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Lead, error)
	Recent(ctx context.Context, n int64) ([]models.Lead, error)
	StatusStats(ctx context.Context) ([]models.FunnelStage, error)
	Count(ctx context.Context) (int64, error)
}

// OwnedCustomerCounter 统计当前用户的客户数
type OwnedCustomerCounter interface {
	CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
}

// LeadPopulator 展开线索的客户和负责人
type LeadPopulator interface {
	Leads(ctx context.Context, leads []models.Lead) ([]models.LeadView, error)
	Lead(ctx context.Context, lead *models.Lead) (*models.LeadView, error)
}

// LeadController 线索接口，线索全平台共享
type LeadController struct {
	store     LeadStore
	customers OwnedCustomerCounter
	expander  LeadPopulator
	activity  ActivityLogger
	now       func() time.Time
}

// NewLeadController 创建线索控制器
func NewLeadController(store LeadStore, customers OwnedCustomerCounter, expander LeadPopulator, activity ActivityLogger) *LeadController {
	return &LeadController{store: store, customers: customers, expander: expander, activity: activity, now: time.Now}
}

// GetLeadList 获取线索列表，status 仅在为合法状态时生效
func (lc *LeadController) GetLeadList(c *gin.Context) {
	p := utils.ParsePagination(c, 10)

	leads, total, err := lc.store.List(c.Request.Context(), c.Query("status"), p)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	views, err := lc.expander.Leads(c.Request.Context(), leads)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.PaginatedResponse(c, "leads", views, total, p)
}

// GetLeadDetail 获取线索详情
func (lc *LeadController) GetLeadDetail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	lead, err := lc.store.FindByID(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, notFoundAs(err, "Lead"))
		return
	}
	lc.respondView(c, http.StatusOK, lead)
}

// CreateLead 创建线索
func (lc *LeadController) CreateLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.LeadCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	lead, err := service.NewLead(req, user.ID, lc.now())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := lc.store.Create(c.Request.Context(), lead); err != nil {
		utils.HandleError(c, err)
		return
	}

	view, err := lc.expander.Lead(c.Request.Context(), lead)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var customerName string
	if view.Customer != nil {
		customerName = view.Customer.Name
	}
	lc.activity.Record(c.Request.Context(), models.ActivityLeadCreated, models.LeadRef{ID: lead.ID},
		fmt.Sprintf("Created lead \"%s\"", lead.Title), user.ID,
		map[string]interface{}{"title": lead.Title, "customer": customerName})
	c.JSON(http.StatusCreated, view)
}

// UpdateLead 更新线索，每次更新只记录一条动态
func (lc *LeadController) UpdateLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.LeadUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	lead, err := lc.store.FindByID(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, notFoundAs(err, "Lead"))
		return
	}
	change, err := service.ApplyLeadUpdate(lead, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := lc.store.Save(c.Request.Context(), lead); err != nil {
		utils.HandleError(c, notFoundAs(err, "Lead"))
		return
	}

	entry := service.LeadUpdateActivity(lead, change)
	lc.activity.Record(c.Request.Context(), entry.Type, models.LeadRef{ID: lead.ID}, entry.Description, user.ID, entry.Metadata)
	lc.respondView(c, http.StatusOK, lead)
}

// AddLeadNote 追加跟进备注
func (lc *LeadController) AddLeadNote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input models.CreateLeadNoteInput
	if !bindJSON(c, &input) {
		return
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		if _, err := lc.store.FindByID(c.Request.Context(), id); err != nil {
			utils.HandleError(c, notFoundAs(err, "Lead"))
			return
		}
		utils.ErrorResponse(c, "Note text is required", http.StatusBadRequest)
		return
	}

	lead, err := lc.store.AddNote(c.Request.Context(), id, models.NewLeadNote(text, user.ID, lc.now()))
	if err != nil {
		utils.HandleError(c, notFoundAs(err, "Lead"))
		return
	}

	lc.activity.Record(c.Request.Context(), models.ActivityLeadNoteAdded, models.LeadRef{ID: lead.ID},
		fmt.Sprintf("Added note to lead \"%s\"", lead.Title), user.ID, nil)
	lc.respondView(c, http.StatusOK, lead)
}

// DeleteLead 删除线索
func (lc *LeadController) DeleteLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	lead, err := lc.store.Delete(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, notFoundAs(err, "Lead"))
		return
	}

	lc.activity.Record(c.Request.Context(), models.ActivityLeadDeleted, models.LeadRef{ID: id},
		fmt.Sprintf("Deleted lead \"%s\"", lead.Title), user.ID, nil)
	utils.MessageResponse(c, "Lead removed")
}

// GetDashboardStats 首页看板
func (lc *LeadController) GetDashboardStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	totalCustomers, err := lc.customers.CountByOwner(ctx, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	totalLeads, err := lc.store.Count(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	stats, err := lc.store.StatusStats(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	recent, err := lc.store.Recent(ctx, dashboardRecentLeads)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	recentViews, err := lc.expander.Leads(ctx, recent)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	totalRevenue, _ := service.ClosedTotals(stats)
	c.JSON(http.StatusOK, models.DashboardStats{
		TotalCustomers: totalCustomers,
		TotalLeads:     totalLeads,
		TotalRevenue:   totalRevenue,
		LeadsByStatus:  service.StatusCounts(stats),
		RecentLeads:    recentViews,
	})
}

func (lc *LeadController) respondView(c *gin.Context, status int, lead *models.Lead) {
	view, err := lc.expander.Lead(c.Request.Context(), lead)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(status, view)
}

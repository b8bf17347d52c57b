package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/service"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportLeadSource 报表用到的线索查询
type ReportLeadSource interface {
	ClosedSince(ctx context.Context, since time.Time) ([]models.ClosedLeadValue, error)
	StatusStats(ctx context.Context) ([]models.FunnelStage, error)
	Count(ctx context.Context) (int64, error)
	ListForExport(ctx context.Context) ([]models.Lead, error)
}

// ReportCustomerSource 报表用到的客户查询
type ReportCustomerSource interface {
	CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
	ListForExport(ctx context.Context, ownerID primitive.ObjectID) ([]models.Customer, error)
}

// ReportController 收入、漏斗、汇总报表与 CSV 导出
type ReportController struct {
	leads     ReportLeadSource
	customers ReportCustomerSource
	expander  LeadPopulator
	now       func() time.Time
}

// NewReportController 创建报表控制器
func NewReportController(leads ReportLeadSource, customers ReportCustomerSource, expander LeadPopulator) *ReportController {
	return &ReportController{leads: leads, customers: customers, expander: expander, now: time.Now}
}

// GetRevenueReport 最近 N 天成交金额按天汇总
func (rc *ReportController) GetRevenueReport(c *gin.Context) {
	days := service.ParseRevenuePeriod(c.Query("period"))
	now := rc.now()

	leads, err := rc.leads.ClosedSince(c.Request.Context(), service.RevenueWindowStart(now, days))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.BuildRevenueReport(leads, days, now.Location()))
}

// GetFunnelReport 按固定顺序返回五个状态的数量和金额
func (rc *ReportController) GetFunnelReport(c *gin.Context) {
	stats, err := rc.leads.StatusStats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.FillFunnel(stats))
}

// GetSummaryReport 汇总数据
func (rc *ReportController) GetSummaryReport(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	totalCustomers, err := rc.customers.CountByOwner(ctx, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	totalLeads, err := rc.leads.Count(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	stats, err := rc.leads.StatusStats(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	totalRevenue, closedCount := service.ClosedTotals(stats)
	c.JSON(http.StatusOK, models.SummaryReport{
		TotalCustomers: totalCustomers,
		TotalLeads:     totalLeads,
		TotalRevenue:   totalRevenue,
		ClosedCount:    closedCount,
		LeadsByStatus:  service.StatusCounts(stats),
	})
}

// ExportLeads 导出全部线索
func (rc *ReportController) ExportLeads(c *gin.Context) {
	leads, err := rc.leads.ListForExport(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	views, err := rc.expander.Leads(c.Request.Context(), leads)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	sendCSV(c, "leads-export.csv", service.BuildCSV(service.LeadExportHeaders, service.LeadExportRows(views)))
}

// ExportCustomers 导出当前用户的客户
func (rc *ReportController) ExportCustomers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	customers, err := rc.customers.ListForExport(c.Request.Context(), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	sendCSV(c, "customers-export.csv", service.BuildCSV(service.CustomerExportHeaders, service.CustomerExportRows(customers)))
}

func sendCSV(c *gin.Context, filename, body string) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", []byte(body))
}

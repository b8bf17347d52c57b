package routes

import (
	"github.com/BerniceZTT/clientiq/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterReportRoutes 注册报表路由
func RegisterReportRoutes(api *gin.RouterGroup, ctrl *controllers.ReportController) {
	group := api.Group("/reports")
	group.GET("/revenue", ctrl.GetRevenueReport)
	group.GET("/funnel", ctrl.GetFunnelReport)
	group.GET("/summary", ctrl.GetSummaryReport)
	group.GET("/export/leads", ctrl.ExportLeads)
	group.GET("/export/customers", ctrl.ExportCustomers)
}

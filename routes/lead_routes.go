package routes

import (
	"github.com/BerniceZTT/clientiq/controllers"
	"github.com/BerniceZTT/clientiq/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterLeadRoutes 注册线索相关路由
func RegisterLeadRoutes(api *gin.RouterGroup, ctrl *controllers.LeadController) {
	group := api.Group("/leads")

	group.GET("/dashboard", ctrl.GetDashboardStats)
	group.GET("", ctrl.GetLeadList)
	group.POST("", ctrl.CreateLead)

	byID := group.Group("/:id", middleware.ValidateObjectID("id"))
	byID.GET("", ctrl.GetLeadDetail)
	byID.PUT("", ctrl.UpdateLead)
	byID.DELETE("", ctrl.DeleteLead)
	byID.POST("/notes", ctrl.AddLeadNote)
}

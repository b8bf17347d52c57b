package routes

import (
	"github.com/BerniceZTT/clientiq/controllers"
	"github.com/BerniceZTT/clientiq/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册管理员路由
func RegisterAdminRoutes(api *gin.RouterGroup, ctrl *controllers.AdminController) {
	admin := api.Group("", middleware.AdminOnly())
	admin.GET("/admin/stats", ctrl.GetPlatformStats)
	admin.GET("/db-status", ctrl.GetDatabaseStatus)
}

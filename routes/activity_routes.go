package routes

import (
	"github.com/BerniceZTT/clientiq/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterActivityRoutes 注册动态相关路由
func RegisterActivityRoutes(api *gin.RouterGroup, ctrl *controllers.ActivityController) {
	group := api.Group("/activities")
	group.GET("", ctrl.GetActivityList)
	group.GET("/recent", ctrl.GetRecentActivities)
}

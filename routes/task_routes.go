package routes

import (
	"github.com/BerniceZTT/clientiq/controllers"
	"github.com/BerniceZTT/clientiq/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterTaskRoutes 注册任务相关路由
func RegisterTaskRoutes(api *gin.RouterGroup, ctrl *controllers.TaskController) {
	group := api.Group("/tasks")

	group.GET("", ctrl.GetTaskList)
	group.GET("/upcoming", ctrl.GetUpcomingTasks)
	group.POST("", ctrl.CreateTask)

	byID := group.Group("/:id", middleware.ValidateObjectID("id"))
	byID.GET("", ctrl.GetTaskDetail)
	byID.PUT("", ctrl.UpdateTask)
	byID.DELETE("", ctrl.DeleteTask)
}

package routes

import (
	"github.com/BerniceZTT/clientiq/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterEmailRoutes 注册邮件相关路由
func RegisterEmailRoutes(api *gin.RouterGroup, ctrl *controllers.EmailController) {
	group := api.Group("/emails")
	group.POST("/send", ctrl.SendEmail)
	group.GET("", ctrl.GetEmailList)
}

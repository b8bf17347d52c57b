package routes

import (
	"github.com/BerniceZTT/clientiq/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterAIRoutes 注册 AI 路由
func RegisterAIRoutes(api *gin.RouterGroup, ctrl *controllers.AIController) {
	group := api.Group("/ai")
	group.POST("/draft-email", ctrl.DraftEmail)
	group.POST("/summarize", ctrl.Summarize)
}

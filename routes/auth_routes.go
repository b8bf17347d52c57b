package routes

import (
	"github.com/BerniceZTT/clientiq/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证路由
func RegisterAuthRoutes(api *gin.RouterGroup, ctrl *controllers.AuthController, auth gin.HandlerFunc) {
	group := api.Group("/auth")

	// 公开路由 - 不需要认证
	group.POST("/register", ctrl.Register)
	group.POST("/login", ctrl.Login)

	// 需要认证的路由
	group.GET("/me", auth, ctrl.GetMe)
	group.PUT("/me", auth, ctrl.UpdateProfile)
}

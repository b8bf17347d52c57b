package routes

import (
	"github.com/BerniceZTT/clientiq/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterUploadRoutes 注册上传路由，注册页上传头像时无需登录
func RegisterUploadRoutes(api *gin.RouterGroup, ctrl *controllers.UploadController, auth gin.HandlerFunc) {
	group := api.Group("/upload")
	group.POST("", auth, ctrl.UploadImage)
	group.POST("/register", ctrl.UploadImage)
}

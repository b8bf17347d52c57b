package routes

import (
	"github.com/BerniceZTT/clientiq/controllers"
	"github.com/BerniceZTT/clientiq/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCustomerRoutes 注册客户相关路由
func RegisterCustomerRoutes(api *gin.RouterGroup, ctrl *controllers.CustomerController) {
	group := api.Group("/customers")

	group.GET("", ctrl.GetCustomerList)
	group.POST("", ctrl.CreateCustomer)

	byID := group.Group("/:id", middleware.ValidateObjectID("id"))
	byID.GET("", ctrl.GetCustomerDetail)
	byID.PUT("", ctrl.UpdateCustomer)
	byID.DELETE("", ctrl.DeleteCustomer)
}

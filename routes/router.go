package routes

import (
	"github.com/BerniceZTT/clientiq/controllers"
	"github.com/BerniceZTT/clientiq/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由用到的控制器和鉴权依赖
type Handlers struct {
	Auth     *controllers.AuthController
	Customer *controllers.CustomerController
	Lead     *controllers.LeadController
	Task     *controllers.TaskController
	Email    *controllers.EmailController
	Activity *controllers.ActivityController
	Report   *controllers.ReportController
	Admin    *controllers.AdminController
	AI       *controllers.AIController
	Upload   *controllers.UploadController

	Tokens middleware.TokenParser
	Users  middleware.UserFinder
}

// NewRouter 创建 Gin 实例并挂载中间件和全部路由
func NewRouter(h *Handlers, corsOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(corsOrigins))
	router.Use(middleware.BodyLimit(middleware.MaxBodyBytes))
	router.Use(middleware.ErrorHandler())

	RegisterRoutes(router, h)
	router.NoRoute(middleware.NotFound())
	return router
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, h *Handlers) {
	api := router.Group("/api")
	auth := middleware.AuthMiddleware(h.Tokens, h.Users)

	RegisterAuthRoutes(api, h.Auth, auth)
	RegisterUploadRoutes(api, h.Upload, auth)

	// 以下路由均需登录
	protected := api.Group("", auth)
	RegisterCustomerRoutes(protected, h.Customer)
	RegisterLeadRoutes(protected, h.Lead)
	RegisterTaskRoutes(protected, h.Task)
	RegisterEmailRoutes(protected, h.Email)
	RegisterActivityRoutes(protected, h.Activity)
	RegisterReportRoutes(protected, h.Report)
	RegisterAIRoutes(protected, h.AI)
	RegisterAdminRoutes(protected, h.Admin)

	// 健康检查路由
	api.GET("/health", controllers.Health)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

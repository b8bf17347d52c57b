package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerniceZTT/clientiq/config"
	"github.com/BerniceZTT/clientiq/controllers"
	"github.com/BerniceZTT/clientiq/repository"
	"github.com/BerniceZTT/clientiq/routes"
	"github.com/BerniceZTT/clientiq/service"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.Logger.Fatal().Err(err).Msg("加载配置失败")
	}

	// 初始化日志
	utils.InitLogger(cfg.Debug, cfg.LogFile)
	utils.RegisterValidators()

	// 设置Gin模式
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化数据库
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	database, err := repository.InitMongoDB(initCtx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		utils.Logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	users := repository.NewUserRepository(database)
	customers := repository.NewCustomerRepository(database)
	leads := repository.NewLeadRepository(database)
	tasks := repository.NewTaskRepository(database)
	emails := repository.NewEmailRepository(database)
	activities := repository.NewActivityRepository(database)

	// 初始化系统数据
	utils.Logger.Info().Msg("开始系统初始化...")
	if err := repository.InitializeCollections(initCtx, database); err != nil {
		utils.LogError(err, map[string]interface{}{"database": cfg.MongoDB}, "初始化数据库集合失败")
	}
	if err := repository.InitializeAdminAccount(initCtx, users, "Admin", cfg.AdminEmail, cfg.AdminPassword); err != nil {
		utils.Logger.Error().Err(err).Msg("初始化管理员账户失败")
	}
	cancelInit()
	utils.Logger.Info().Msg("系统初始化完成")

	// 可选的外部依赖，未配置时保持 nil 接口
	var mailer controllers.Mailer
	if m := service.NewSMTPMailer(cfg.SMTP); m != nil {
		mailer = m
	}
	var generator controllers.TextGenerator
	if g := service.NewTextGenerator(cfg.AI); g != nil {
		generator = g
	}
	var images controllers.ImageStore
	store, err := service.NewObjectStore(cfg.Image)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("初始化图片存储失败，上传功能不可用")
	} else if store != nil {
		images = store
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpires)*time.Hour)
	recorder := service.NewActivityRecorder(activities)
	expander := &service.Expander{UserLookup: users, CustomerLookup: customers, LeadLookup: leads}
	contacts := &service.ContactAggregator{
		Customers:  customers,
		Leads:      leads,
		Activities: activities,
		Emails:     emails,
		Tasks:      tasks,
	}

	router := routes.NewRouter(&routes.Handlers{
		Auth:     controllers.NewAuthController(users, tokens),
		Customer: controllers.NewCustomerController(customers, expander, recorder),
		Lead:     controllers.NewLeadController(leads, customers, expander, recorder),
		Task:     controllers.NewTaskController(tasks, expander, recorder),
		Email:    controllers.NewEmailController(emails, mailer, recorder),
		Activity: controllers.NewActivityController(activities, expander),
		Report:   controllers.NewReportController(leads, customers, expander),
		Admin: controllers.NewAdminController(controllers.PlatformSources{
			Users:      users,
			Customers:  customers,
			Leads:      leads,
			Activities: activities,
			Emails:     emails,
			Tasks:      tasks,
		}, expander, func(ctx context.Context) map[string]repository.CollectionStatus {
			return repository.GetDatabaseStatus(ctx, database)
		}),
		AI:     controllers.NewAIController(contacts, generator),
		Upload: controllers.NewUploadController(images),
		Tokens: tokens,
		Users:  users,
	}, cfg.CORSOrigins())

	// 设置HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 启动服务器
	go func() {
		utils.Logger.Info().Msgf("服务器启动，监听端口: %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal().Err(err).Msg("启动服务器失败")
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("服务器关闭异常")
	}
	repository.CloseMongoDB(ctx)

	utils.Logger.Info().Msg("服务器已优雅关闭")
}

package router

import (
	"time"

	"expensetracker/api"
	"expensetracker/config"
	"expensetracker/database"
	_ "expensetracker/docs"
	"expensetracker/middleware"
	"expensetracker/repository"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// 唯一的领域服务实例，所有处理器共用
	repo := repository.NewExpenseRepository(database.GetDB())
	svc := service.NewExpenseService(repo)

	expenseHandler := api.NewExpenseHandler(svc)
	analyticsHandler := api.NewAnalyticsHandler(svc)
	categoryHandler := api.NewCategoryHandler(svc)
	exportHandler := api.NewExportHandler(svc)

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 消费类别（只读，预算在初始化时配置）
		v1.GET("/categories", categoryHandler.List)
		v1.GET("/categories/:id", categoryHandler.Get)

		// 消费记录相关
		expenses := v1.Group("/expenses")
		{
			expenses.POST("", expenseHandler.Create)
			expenses.GET("", expenseHandler.List)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		// 统计相关
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/total-expenses", analyticsHandler.TotalExpenses)
			analytics.GET("/most-expensive", analyticsHandler.MostExpensive)
			analytics.GET("/least-expensive", analyticsHandler.LeastExpensive)
			analytics.GET("/average-daily", analyticsHandler.AverageDaily)
			analytics.GET("/average-monthly", analyticsHandler.AverageMonthly)
			analytics.GET("/average-yearly", analyticsHandler.AverageYearly)
		}

		// 导出相关（限流）
		export := v1.Group("/export")
		export.Use(middleware.RateLimit(cfg.Export.RateLimit, time.Duration(cfg.Export.RateWindowSecs)*time.Second))
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/json", exportHandler.ExportJSON)
			export.GET("/excel", exportHandler.ExportExcel)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

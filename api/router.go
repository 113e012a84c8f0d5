package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flowread/api/handler"
	"flowread/api/middleware"
	"flowread/api/model"
)

// Version 服务版本号
const Version = "1.0.0"

// SetupRouter 配置API路由
func SetupRouter(
	documentHandler *handler.DocumentHandler,
	sessionHandler *handler.SessionHandler,
	statsHandler *handler.StatsHandler,
) *gin.Engine {
	router := gin.New()

	// 全局中间件
	router.Use(middleware.SetTraceID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorMiddleware())
	router.Use(Cors())

	// 在debug模式下记录请求体
	if gin.Mode() == gin.DebugMode {
		router.Use(middleware.RequestBodyLog())
	}

	// API路由组
	apiGroup := router.Group("/api")
	{
		// 文档管理
		documents := apiGroup.Group("/documents")
		{
			documents.POST("", documentHandler.UploadDocument)
			documents.GET("", documentHandler.ListDocuments)
			documents.GET("/:id", documentHandler.GetDocument)
			documents.GET("/:id/words", documentHandler.GetDocumentWords)
			documents.DELETE("/:id", documentHandler.DeleteDocument)
		}

		// 阅读会话
		sessions := apiGroup.Group("/sessions")
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.PUT("/:id", sessionHandler.UpdateSession)
			sessions.GET("/document/:id", sessionHandler.GetLatestForDocument)
		}

		// 阅读统计
		apiGroup.GET("/stats", statsHandler.GetStats)

		// 健康检查
		apiGroup.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, model.HealthResponse{
				Status:  "ok",
				Version: Version,
			})
		})
	}

	return router
}

// Cors 跨域中间件
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-Trace-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

package handler

import (
	"abhishek-coaching-go/internal/metrics"
	"abhishek-coaching-go/internal/middleware"
	"abhishek-coaching-go/internal/repository"
	"abhishek-coaching-go/pkg/token"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps 汇总注册路由所需的 handler 和鉴权依赖。
type RouterDeps struct {
	Admissions *AdmissionHandler
	Courses    *CourseHandler
	Events     *EventHandler
	Resources  *ResourceHandler
	Admin      *AdminHandler
	Chat       *ChatHandler

	JWT          *token.JWTManager
	Blacklist    repository.TokenBlacklist
	AllowOrigins []string
	// RequestLog 为 false 时不挂载请求日志中间件，测试中使用。
	RequestLog bool
}

// NewRouter 创建路由引擎并注册全部路由。
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New() // 不带默认中间件
	if d.RequestLog {
		r.Use(middleware.RequestLogger())
	}
	r.Use(gin.Recovery(), middleware.CORS(d.AllowOrigins), metrics.GinMiddleware())

	authed := []gin.HandlerFunc{middleware.AuthMiddleware(d.JWT, d.Blacklist), middleware.AdminAuthMiddleware()}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "ok"})
	})
	r.GET("/chat", d.Chat.Handle)

	api := r.Group("/api")
	{
		admissions := api.Group("/admissions")
		{
			// 公开：访客提交咨询
			admissions.POST("", d.Admissions.Submit)

			admin := admissions.Group("", authed...)
			admin.GET("", d.Admissions.List)
			admin.GET("/search", d.Admissions.Search)
			admin.GET("/:id", d.Admissions.Get)
			admin.PUT("/:id", d.Admissions.UpdateStatus)
		}

		courses := api.Group("/courses")
		{
			courses.GET("", d.Courses.List)
			courses.GET("/:id", d.Courses.Get)
			admin := courses.Group("", authed...)
			admin.POST("", d.Courses.Create)
			admin.PUT("/:id", d.Courses.Update)
			admin.DELETE("/:id", d.Courses.Delete)
		}

		events := api.Group("/events")
		{
			events.GET("", d.Events.List)
			events.GET("/:id", d.Events.Get)
			admin := events.Group("", authed...)
			admin.POST("", d.Events.Create)
			admin.PUT("/:id", d.Events.Update)
			admin.DELETE("/:id", d.Events.Delete)
		}

		resources := api.Group("/resources")
		{
			resources.GET("", d.Resources.List)
			resources.GET("/category/:category", d.Resources.ListByCategory)
			resources.GET("/:id", d.Resources.Get)
			resources.GET("/:id/download", d.Resources.Download)
			admin := resources.Group("", authed...)
			admin.POST("", d.Resources.Create)
			admin.PUT("/:id", d.Resources.Update)
			admin.DELETE("/:id", d.Resources.Delete)
		}

		adminGroup := api.Group("/admin")
		{
			adminGroup.POST("/login", d.Admin.Login)
			adminGroup.POST("/reset-password", d.Admin.ResetPassword)
			authedAdmin := adminGroup.Group("", authed...)
			authedAdmin.POST("/logout", d.Admin.Logout)
			authedAdmin.GET("/me", d.Admin.Me)
			authedAdmin.GET("/dashboard", d.Admin.Dashboard)
		}

		chat := api.Group("/chat")
		{
			chat.POST("/reply", d.Chat.Reply)
			chat.GET("/faq", d.Chat.FAQ)
		}
	}
	return r
}

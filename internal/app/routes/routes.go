package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/hudaazehraa/neighborly/docs"
	"github.com/hudaazehraa/neighborly/internal/app/controllers"
	"github.com/hudaazehraa/neighborly/internal/app/middleware"
	"github.com/hudaazehraa/neighborly/internal/domain/services/container"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *gin.Engine {
	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	return SetupRouterWithContainer(serviceContainer)
}

// SetupRouterWithContainer 用现有的服务容器初始化路由，测试时可注入假服务
func SetupRouterWithContainer(serviceContainer *container.ServiceContainer) *gin.Engine {
	cfg := serviceContainer.GetConfig()

	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		origin := cfg.BaseURL
		if origin == "" {
			origin = "*"
		}
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// 初始化中间件
	middleware.InitAuthMiddleware(cfg, serviceContainer.GetDB())

	// 页面模板和静态资源
	r.LoadHTMLGlob("web/templates/*.html")
	r.Static("/static", "./web/static")
	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerWebRoutes(r, serviceContainer)
	registerAPIRoutes(r, serviceContainer)

	// 未匹配的路径返回404页面
	r.NoRoute(controllers.NotFoundHandler)
	return r
}

// registerWebRoutes 注册门户页面路由
func registerWebRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// 公开页面，加IP限流 - 每秒10个请求，最多突发20个
	public := r.Group("/")
	public.Use(middleware.IPRateLimiter(10, 20))

	// 首页和静态页面走页面缓存
	public.GET("/", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandlePageFunc(container, "home"))
	public.GET("/about/", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Minute}), controllers.HandlePageFunc(container, "about"))
	public.GET("/community/", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Minute}), controllers.HandlePageFunc(container, "community"))

	// 联系表单
	public.GET("/contact/", controllers.HandleContactFunc(container, "showContactPage"))
	public.POST("/contact/", controllers.HandleContactFunc(container, "submitContact"))

	// 登录注册
	public.GET("/login/", controllers.HandleAuthFunc(container, "showLogin"))
	public.POST("/login/", controllers.HandleAuthFunc(container, "login"))
	public.GET("/signup/", controllers.HandleAuthFunc(container, "showSignup"))
	public.POST("/signup/", controllers.HandleAuthFunc(container, "signup"))
	public.GET("/logout/", controllers.HandleAuthFunc(container, "logout"))

	// Google社交登录
	public.GET("/auth/google/login/", controllers.HandleAuthFunc(container, "googleLogin"))
	public.GET("/auth/google/callback/", controllers.HandleAuthFunc(container, "googleCallback"))

	// 忘记密码
	public.GET("/forgot_password/", controllers.HandleAuthFunc(container, "showForgotPassword"))
	public.POST("/forgot_password/", controllers.HandleAuthFunc(container, "forgotPassword"))
	public.GET("/reset/:token/", controllers.HandleAuthFunc(container, "showResetPassword"))
	public.POST("/reset/:token/", controllers.HandleAuthFunc(container, "resetPassword"))

	// 业主页面，需要登录
	resident := r.Group("/")
	resident.Use(middleware.AuthenticateUser())
	resident.GET("/complaint/", controllers.HandleComplaintFunc(container, "showComplaintForm"))
	resident.POST("/complaint/", controllers.HandleComplaintFunc(container, "submitComplaint"))
	resident.GET("/complaints/status/", controllers.HandleComplaintFunc(container, "complaintStatus"))
	resident.POST("/complaints/:id/resolve/", controllers.HandleComplaintFunc(container, "resolveOwnComplaint"))
	resident.GET("/resident/dashboard/", controllers.HandleComplaintFunc(container, "residentDashboard"))
	resident.POST("/resident/dashboard/", controllers.HandleComplaintFunc(container, "submitComplaint"))
	resident.GET("/feedback/", controllers.HandleTestimonialFunc(container, "showFeedbackForm"))
	resident.POST("/feedback/", controllers.HandleTestimonialFunc(container, "submitFeedback"))

	// 管理后台，需要管理员身份
	admin := r.Group("/admin-dashboard")
	admin.Use(middleware.AuthenticateAdmin())
	admin.GET("/users/", controllers.HandleAdminFunc(container, "usersList"))
	admin.GET("/users/:id/", controllers.HandleAdminFunc(container, "userDetail"))
	admin.POST("/users/:id/", controllers.HandleAdminFunc(container, "userDetailAction"))
}

// registerAPIRoutes 注册API路由
func registerAPIRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	api := r.Group("/api")

	// 添加IP限流中间件 - 每秒10个请求，最多突发20个请求
	api.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	healthController := controllers.NewHealthCheckController()
	api.GET("/ping", healthController.Ping)
	api.GET("/health", healthController.Ping) // 兼容Docker健康检查的路由
	api.GET("/health/cache-stats", healthController.CacheStats)

	// 认证路由
	api.POST("/login/", controllers.HandleAuthFunc(container, "apiLogin"))
	api.POST("/signup/", controllers.HandleAuthFunc(container, "apiSignup"))

	// 需要登录的API
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateUser())
	auth.POST("/complaints/submit/", controllers.HandleComplaintFunc(container, "apiSubmitComplaint"))

	// 管理员API
	admin := api.Group("/")
	admin.Use(middleware.AuthenticateAdmin())
	admin.POST("/complaints/:id/status/", controllers.HandleAdminFunc(container, "apiUpdateComplaintStatus"))
}

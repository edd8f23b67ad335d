package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kairowan/users-api/internal/service"
	"github.com/kairowan/users-api/internal/transport/http/handler"
	mdw "github.com/kairowan/users-api/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, users *service.UserService, posts *service.PostService) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)
	r.Use(cors.Default())

	// 欢迎页 / 健康检查 / 指标
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Users CRUD API",
			"health":  "/health",
			"api_v1":  "/api/v1",
		})
	})
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "healthy"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	uh := handler.NewUserHandler(users)
	ph := handler.NewPostHandler(posts)

	ug := api.Group("/users")
	ug.GET("", uh.List)
	ug.POST("", uh.Create)
	ug.GET("/:id", uh.Get)
	ug.PUT("/:id", uh.Update)
	ug.DELETE("/:id", uh.Delete)

	// 嵌套帖子路由
	ug.GET("/:id/posts", ph.List)
	ug.POST("/:id/posts", ph.Create)
	ug.GET("/:id/posts/:pid", ph.Get)
	ug.PUT("/:id/posts/:pid", ph.Update)
	ug.DELETE("/:id/posts/:pid", ph.Delete)

	return r
}

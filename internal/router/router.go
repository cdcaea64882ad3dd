package router

import (
	"net/http"
	"time"

	"github.com/folio/internal/config"
	"github.com/folio/internal/handler"
	"github.com/folio/internal/logger"
	"github.com/folio/internal/metrics"
	"github.com/folio/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "folio_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig, store storage.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware())

	m := metrics.New()
	r.Use(m.Middleware())

	// 前端独立部署时才需要跨域，且需携带会话 cookie
	if origins := cfg.Server.Origins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
			ExposeHeaders:    []string{logger.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 配置会话中间件
	sessionStore := cookie.NewStore([]byte(cfg.Auth.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, sessionStore))

	// 本地存储时由服务自身提供上传文件
	if local, ok := store.(*storage.LocalStore); ok {
		r.Static(local.URLPath(), local.Dir())
	}

	r.GET("/healthz", api.HealthCheck)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/feed.xml", api.Feed)
	r.GET("/sitemap.xml", api.Sitemap)

	public := r.Group("/api")
	{
		public.GET("/posts", api.ListPublishedPosts)
		public.GET("/posts/:slug", api.GetPublishedPost)
		public.GET("/posts/:slug/related", api.GetRelatedPosts)
		public.GET("/slugs", api.ListPublishedSlugs)
		public.GET("/tags", api.GetTags)
		public.GET("/about", api.GetAbout)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("/api")
		auth.Use(api.AuthRequired())
		{
			auth.GET("/dashboard", api.Dashboard)
			auth.GET("/slugify", api.Slugify)

			auth.GET("/posts", api.ListPosts)
			auth.POST("/posts", api.CreatePost)
			auth.GET("/posts/:id", api.GetPost)
			auth.PUT("/posts/:id", api.UpdatePost)
			auth.DELETE("/posts/:id", api.DeletePost)
			auth.POST("/posts/:id/toggle", api.TogglePost)

			auth.GET("/tags", api.GetTags)
			auth.POST("/tags", api.CreateTag)
			auth.GET("/tags/check", api.CheckTag)
			auth.GET("/tags/:id/posts", api.GetTagPosts)
			auth.PUT("/tags/:id", api.UpdateTag)
			auth.DELETE("/tags/:id", api.DeleteTag)

			auth.GET("/media", api.ListMedia)
			auth.POST("/media", api.UploadMedia)
			auth.DELETE("/media/:name", api.DeleteMedia)

			auth.PUT("/about", api.UpdateAbout)
		}
	}

	return r
}

package router

import (
	"sekolahku/internal/cache"
	"sekolahku/internal/handlers"
	"sekolahku/internal/identity"
	"sekolahku/internal/middleware"
	"sekolahku/internal/models"
	"sekolahku/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the shared services the routes are built from.
type Deps struct {
	DB    *gorm.DB
	Pages *cache.PageCache
	Anon  identity.AnonymousIdentityProvider

	SiteURL  string
	SiteName string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	if d.Anon == nil {
		d.Anon = identity.NewCookieProvider()
	}
	likes := services.NewLikeService(d.DB)
	comments := services.NewCommentService(d.DB)
	resolver := identity.NewResolver(d.Anon)

	// Handlers
	authHandler := handlers.NewAuthHandler(d.DB)
	articleHandler := handlers.NewArticleHandler(d.DB, likes, comments, resolver, d.Anon, d.Pages)
	interactionHandler := handlers.NewInteractionHandler(likes, comments, resolver, d.Anon, d.Pages)
	adminHandler := handlers.NewAdminHandler(comments, d.Pages)
	seoHandler := handlers.NewSEOHandler(d.DB, d.SiteURL, d.SiteName)

	r.Use(middleware.LoadUser(d.DB))

	// 公共路由 (Public Routes)
	r.GET("/", articleHandler.Home) // 首页
	for _, kind := range models.ContentKinds {
		r.GET("/"+kind, articleHandler.List(kind))                    // 列表
		r.GET("/"+kind+"/:id", articleHandler.Detail(kind))           // 详情
		r.POST("/"+kind+"/:id/comment", articleHandler.Comment(kind)) // 表单评论
	}

	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/feed.xml", seoHandler.NewsFeed)

	r.GET("/login", authHandler.ShowLogin) // 登录页面
	r.POST("/login", authHandler.Login)    // 提交登录
	r.GET("/logout", authHandler.Logout)   // 退出登录

	// 互动 API (like / comment)
	api := r.Group("/api")
	{
		api.POST("/anon-token", interactionHandler.AnonToken)             // 签发匿名令牌
		api.GET("/likes/:type/:id", interactionHandler.LikeState)         // 点赞数 + 是否已点赞
		api.POST("/likes/:type/:id", interactionHandler.ToggleLike)       // 点赞/取消点赞
		api.GET("/comments/:type/:id", interactionHandler.ListComments)   // 评论列表
		api.POST("/comments/:type/:id", interactionHandler.CreateComment) // 发表评论
	}

	// 管理后台 (Admin Routes)
	admin := r.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/comments", adminHandler.ListComments)                  // 评论管理
		admin.DELETE("/comments/:id", adminHandler.DeleteComment)          // 删除评论
		admin.POST("/comments/:id/delete", adminHandler.DeleteCommentForm) // 删除评论（表单）
	}
}

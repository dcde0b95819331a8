package main

import (
	"log"

	"sekolahku/internal/cache"
	"sekolahku/internal/config"
	"sekolahku/internal/db"
	"sekolahku/internal/router"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// Initialize Database
	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.Seed(gdb, cfg)

	// 页面缓存，点赞 / 评论后按路径失效
	pages := cache.New(cfg.PageCacheSize, cfg.PageCacheTTL)

	r := gin.Default()

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 30 * 24 * 3600, HttpOnly: true})
	r.Use(sessions.Sessions("sekolahku_session", store))

	// JSON API 响应很小，不压缩
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/"})))

	r.HTMLRender = router.LoadTemplates("./web/templates")
	r.Static("/static", "./web/static")

	router.RegisterRoutes(r, router.Deps{
		DB:       gdb,
		Pages:    pages,
		SiteURL:  cfg.SiteURL,
		SiteName: cfg.SiteName,
	})

	log.Printf("%s server starting on :%s", cfg.SiteName, cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

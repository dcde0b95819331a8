package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"sekolahku/internal/models"
	"sekolahku/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SEOHandler robots.txt / sitemap.xml / 新闻 RSS
type SEOHandler struct {
	db       *gorm.DB
	siteURL  string
	siteName string
}

func NewSEOHandler(db *gorm.DB, siteURL, siteName string) *SEOHandler {
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}
	if siteName == "" {
		siteName = "SD Negeri Harapan"
	}
	return &SEOHandler{db: db, siteURL: strings.TrimRight(siteURL, "/"), siteName: siteName}
}

// RobotsTxt GET /robots.txt
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

# 管理后台与接口
Disallow: /admin/
Disallow: /api/
Disallow: /login

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

// SitemapXML GET /sitemap.xml
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	now := time.Now().Format("2006-01-02")

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
	writeURL := func(path, lastmod, changefreq string, priority float64) {
		fmt.Fprintf(&b, `  <url>
    <loc>%s%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, h.siteURL, path, lastmod, changefreq, priority)
	}

	writeURL("/", now, "daily", 1.0)
	for _, kind := range models.ContentKinds {
		writeURL("/"+kind, now, "daily", 0.9)
	}

	// 最近 500 篇文章
	var articles []models.Article
	h.db.WithContext(c.Request.Context()).
		Where("published = ?", true).
		Order("created_at DESC").
		Limit(500).
		Find(&articles)
	for _, a := range articles {
		priority := 0.6
		changefreq := "weekly"
		if time.Since(a.CreatedAt) < 7*24*time.Hour {
			priority = 0.8
			changefreq = "daily"
		}
		writeURL(a.Path(), a.UpdatedAt.Format("2006-01-02"), changefreq, priority)
	}

	b.WriteString(`</urlset>`)

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

// NewsFeed GET /feed.xml - 最新 20 条新闻的 RSS 2.0
func (h *SEOHandler) NewsFeed(c *gin.Context) {
	var articles []models.Article
	h.db.WithContext(c.Request.Context()).
		Where("kind = ? AND published = ?", models.KindNews, true).
		Order("created_at DESC").
		Limit(20).
		Find(&articles)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>` + escapeXML(h.siteName) + `</title>
    <link>` + h.siteURL + `</link>
    <description>Berita terbaru ` + escapeXML(h.siteName) + `</description>
    <language>id-ID</language>
    <lastBuildDate>` + time.Now().Format(time.RFC1123Z) + `</lastBuildDate>
    <atom:link href="` + h.siteURL + `/feed.xml" rel="self" type="application/rss+xml"/>
`)

	for _, a := range articles {
		link := h.siteURL + a.Path()
		content := string(utils.RenderMarkdown(a.Body))
		content += fmt.Sprintf(`<p><a href="%s#comments">Baca selengkapnya dan beri komentar →</a></p>`, link)

		b.WriteString(`    <item>
      <title>` + escapeXML(a.Title) + `</title>
      <link>` + link + `</link>
      <description><![CDATA[` + content + `]]></description>
      <pubDate>` + a.CreatedAt.Format(time.RFC1123Z) + `</pubDate>
      <guid isPermaLink="true">` + link + `</guid>
    </item>
`)
	}

	b.WriteString(`  </channel>
</rss>`)

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

// escapeXML 转义XML特殊字符
func escapeXML(s string) string {
	return html.EscapeString(s)
}

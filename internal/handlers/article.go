package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"sekolahku/internal/cache"
	"sekolahku/internal/errs"
	"sekolahku/internal/identity"
	"sekolahku/internal/middleware"
	"sekolahku/internal/models"
	"sekolahku/internal/services"
	"sekolahku/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ArticleHandler 公开站点：首页、新闻 / 垃圾银行列表与详情
type ArticleHandler struct {
	db       *gorm.DB
	likes    *services.LikeService
	comments *services.CommentService
	resolver *identity.Resolver
	anon     identity.AnonymousIdentityProvider
	pages    *cache.PageCache
}

func NewArticleHandler(db *gorm.DB, likes *services.LikeService, comments *services.CommentService, resolver *identity.Resolver, anon identity.AnonymousIdentityProvider, pages *cache.PageCache) *ArticleHandler {
	return &ArticleHandler{
		db:       db,
		likes:    likes,
		comments: comments,
		resolver: resolver,
		anon:     anon,
		pages:    pages,
	}
}

var kindTitles = map[string]string{
	models.KindNews:      "Berita",
	models.KindWasteBank: "Bank Sampah",
}

// fillCounts 批量填充文章的点赞数和评论数
func (h *ArticleHandler) fillCounts(ctx context.Context, kind string, articles []models.Article) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]string, len(articles))
	for i, a := range articles {
		ids[i] = a.ContentID()
	}

	likeCounts, err := h.likes.Counts(ctx, kind, ids)
	if err != nil {
		return err
	}
	commentCounts, err := h.comments.Counts(ctx, kind, ids)
	if err != nil {
		return err
	}
	for i := range articles {
		articles[i].LikeCount = likeCounts[articles[i].ContentID()]
		articles[i].CommentCount = commentCounts[articles[i].ContentID()]
	}
	return nil
}

func (h *ArticleHandler) latest(ctx context.Context, kind string, limit int) ([]models.Article, error) {
	var articles []models.Article
	err := h.db.WithContext(ctx).
		Where("kind = ? AND published = ?", kind, true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	if err := h.fillCounts(ctx, kind, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// renderFailure logs a page load error. Nothing is cached for the page.
func renderFailure(c *gin.Context, what string, err error) {
	log.Printf("[article] %s failed: %v", what, err)
	RenderError(c, http.StatusInternalServerError, "Terjadi kesalahan, silakan coba lagi.")
}

// Home GET /
func (h *ArticleHandler) Home(c *gin.Context) {
	path := c.Request.URL.Path
	if cached, ok := h.pages.Get(path).(gin.H); ok {
		Render(c, http.StatusOK, "article/home.html", cached)
		return
	}

	ctx := c.Request.Context()
	news, err := h.latest(ctx, models.KindNews, 6)
	if err != nil {
		renderFailure(c, "home news", err)
		return
	}
	wasteBank, err := h.latest(ctx, models.KindWasteBank, 3)
	if err != nil {
		renderFailure(c, "home waste-bank", err)
		return
	}

	data := gin.H{
		"Title":     "Beranda",
		"News":      news,
		"WasteBank": wasteBank,
	}
	h.pages.Set(path, data)
	Render(c, http.StatusOK, "article/home.html", data)
}

// List GET /news, /waste-bank
func (h *ArticleHandler) List(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PositiveInt(c.Query("page"), 1)
		// only the first page is cached; it is the one interactions revalidate
		cacheable := page == 1
		if cacheable {
			if cached, ok := h.pages.Get(c.Request.URL.Path).(gin.H); ok {
				Render(c, http.StatusOK, "article/list.html", cached)
				return
			}
		}

		perPage := 12
		ctx := c.Request.Context()
		var total int64
		err := h.db.WithContext(ctx).Model(&models.Article{}).
			Where("kind = ? AND published = ?", kind, true).
			Count(&total).Error
		if err != nil {
			renderFailure(c, "count "+kind, err)
			return
		}

		var articles []models.Article
		err = h.db.WithContext(ctx).
			Where("kind = ? AND published = ?", kind, true).
			Order("created_at DESC, id DESC").
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&articles).Error
		if err == nil {
			err = h.fillCounts(ctx, kind, articles)
		}
		if err != nil {
			renderFailure(c, "list "+kind, err)
			return
		}

		data := gin.H{
			"Title":    kindTitles[kind],
			"Kind":     kind,
			"Articles": articles,
			"Page":     page,
			"HasNext":  int64(page*perPage) < total,
		}
		if cacheable {
			h.pages.Set(c.Request.URL.Path, data)
		}
		Render(c, http.StatusOK, "article/list.html", data)
	}
}

// Detail GET /news/:id, /waste-bank/:id
func (h *ArticleHandler) Detail(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := services.NewContentRef(kind, c.Param("id"))
		h.renderDetail(c, ref, http.StatusOK, gin.H{
			"CommentOK": popFlash(c, flashCommentOK),
		})
	}
}

// renderDetail renders the article page. extra carries per-request state such
// as the comment form's error and the values to put back into it.
func (h *ArticleHandler) renderDetail(c *gin.Context, ref services.ContentRef, code int, extra gin.H) {
	if _, err := strconv.ParseUint(ref.ID, 10, 64); err != nil {
		RenderError(c, http.StatusNotFound, "Artikel tidak ditemukan")
		return
	}
	path := ref.Path()

	data, ok := h.pages.Get(path).(gin.H)
	if !ok {
		var err error
		data, err = h.detailData(c.Request.Context(), ref)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RenderError(c, http.StatusNotFound, "Artikel tidak ditemukan")
			return
		}
		if err != nil {
			renderFailure(c, "load "+ref.String(), err)
			return
		}
		h.pages.Set(path, data)
	}

	// 每个请求的私有状态不进入共享缓存
	view := gin.H{}
	for k, v := range data {
		view[k] = v
	}
	for k, v := range extra {
		view[k] = v
	}
	view["Liked"] = false
	view["Anonymous"] = middleware.CurrentUser(c) == nil
	if who, ok := h.resolver.Optional(c); ok {
		if liked, err := h.likes.HasLiked(c.Request.Context(), who, ref); err == nil {
			view["Liked"] = liked
		}
	}
	if middleware.CurrentUser(c) == nil {
		// form fallback for browsers without JS storage
		view["AnonToken"] = h.anon.Ensure(c)
	}

	Render(c, code, "article/detail.html", view)
}

func (h *ArticleHandler) detailData(ctx context.Context, ref services.ContentRef) (gin.H, error) {
	var article models.Article
	err := h.db.WithContext(ctx).
		Where("id = ? AND kind = ? AND published = ?", ref.ID, ref.Type, true).
		First(&article).Error
	if err != nil {
		return nil, err
	}

	likeCount, err := h.likes.Count(ctx, ref)
	if err != nil {
		return nil, err
	}
	comments, err := h.comments.List(ctx, ref)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"Title":       article.Title,
		"Article":     article,
		"Body":        utils.RenderMarkdown(article.Body),
		"Kind":        ref.Type,
		"KindTitle":   kindTitles[ref.Type],
		"ContentType": ref.Type,
		"ContentID":   ref.ID,
		"LikeCount":   likeCount,
		"Comments":    comments,
	}, nil
}

// Comment POST /news/:id/comment - 无 JS 时的表单提交
func (h *ArticleHandler) Comment(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := services.NewContentRef(kind, c.Param("id"))
		in := services.CommentInput{
			Content:    c.PostForm("content"),
			AuthorName: c.PostForm("author_name"),
		}

		_, err := h.comments.Create(c.Request.Context(), h.resolver.Commenter(c), ref, in)
		if err != nil {
			e := errs.As(err)
			if e.Kind == errs.PersistenceError {
				log.Printf("[article] comment on %s failed: %v", ref, err)
			}
			// 保留表单内容，方便修改后重新提交
			h.renderDetail(c, ref, errs.Status(err), gin.H{
				"CommentError": e.Public(),
				"CommentField": e.Field,
				"CommentInput": in,
			})
			return
		}

		revalidate(c, h.pages, ref)
		addFlash(c, flashCommentOK, "Terima kasih, komentar Anda sudah tampil.")
		c.Redirect(http.StatusFound, ref.Path()+"#comments")
	}
}

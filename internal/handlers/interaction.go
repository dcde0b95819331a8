package handlers

import (
	"net/http"

	"sekolahku/internal/cache"
	"sekolahku/internal/identity"
	"sekolahku/internal/services"

	"github.com/gin-gonic/gin"
)

// InteractionHandler serves the like / comment JSON API.
type InteractionHandler struct {
	likes    *services.LikeService
	comments *services.CommentService
	resolver *identity.Resolver
	anon     identity.AnonymousIdentityProvider
	pages    cache.Revalidator
}

func NewInteractionHandler(likes *services.LikeService, comments *services.CommentService, resolver *identity.Resolver, anon identity.AnonymousIdentityProvider, pages cache.Revalidator) *InteractionHandler {
	return &InteractionHandler{
		likes:    likes,
		comments: comments,
		resolver: resolver,
		anon:     anon,
		pages:    pages,
	}
}

func contentRef(c *gin.Context) services.ContentRef {
	return services.NewContentRef(c.Param("type"), c.Param("id"))
}

// revalidate marks every page showing the content's counts as stale: the
// page the caller came from, the canonical detail page and the lists.
func revalidate(c *gin.Context, pages cache.Revalidator, ref services.ContentRef) {
	if p := safePath(c.PostForm("path")); p != "" {
		pages.Revalidate(p)
	}
	pages.Revalidate(ref.Path())
	pages.Revalidate("/" + ref.Type)
	pages.Revalidate("/")
}

// ToggleLike POST /api/likes/:type/:id
func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	ref := contentRef(c)
	who, err := h.resolver.Resolve(c)
	if err != nil {
		JSONError(c, err)
		return
	}

	res, err := h.likes.Toggle(c.Request.Context(), who, ref)
	if err != nil {
		JSONError(c, err)
		return
	}
	revalidate(c, h.pages, ref)

	// plain form post without JS: back to the page
	if back := safePath(c.PostForm("path")); back != "" && wantsHTML(c) {
		c.Redirect(http.StatusFound, back)
		return
	}
	JSONOK(c, gin.H{"liked": res.Liked, "count": res.Count})
}

// LikeState GET /api/likes/:type/:id - 点赞数及当前身份是否已点赞
func (h *InteractionHandler) LikeState(c *gin.Context) {
	ref := contentRef(c)
	count, err := h.likes.Count(c.Request.Context(), ref)
	if err != nil {
		JSONError(c, err)
		return
	}

	liked := false
	if who, ok := h.resolver.Optional(c); ok {
		liked, err = h.likes.HasLiked(c.Request.Context(), who, ref)
		if err != nil {
			JSONError(c, err)
			return
		}
	}

	JSONOK(c, gin.H{"liked": liked, "count": count})
}

// ListComments GET /api/comments/:type/:id
func (h *InteractionHandler) ListComments(c *gin.Context) {
	list, err := h.comments.List(c.Request.Context(), contentRef(c))
	if err != nil {
		JSONError(c, err)
		return
	}
	JSONOK(c, gin.H{"comments": list})
}

// CreateComment POST /api/comments/:type/:id
func (h *InteractionHandler) CreateComment(c *gin.Context) {
	ref := contentRef(c)
	who := h.resolver.Commenter(c)

	view, err := h.comments.Create(c.Request.Context(), who, ref, services.CommentInput{
		Content:    c.PostForm("content"),
		AuthorName: c.PostForm("author_name"),
	})
	if err != nil {
		JSONError(c, err)
		return
	}
	revalidate(c, h.pages, ref)

	JSONOK(c, gin.H{"comment": view})
}

// AnonToken POST /api/anon-token - 为没有本地令牌的浏览器签发匿名身份
func (h *InteractionHandler) AnonToken(c *gin.Context) {
	JSONOK(c, gin.H{"token": h.anon.Ensure(c)})
}

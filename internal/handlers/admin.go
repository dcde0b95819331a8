package handlers

import (
	"math"
	"net/http"
	"strconv"

	"sekolahku/internal/cache"
	"sekolahku/internal/errs"
	"sekolahku/internal/middleware"
	"sekolahku/internal/models"
	"sekolahku/internal/services"
	"sekolahku/internal/utils"

	"github.com/gin-gonic/gin"
)

const adminCommentsPath = "/admin/comments"

// AdminHandler 管理后台：评论管理
type AdminHandler struct {
	comments *services.CommentService
	pages    cache.Revalidator
}

func NewAdminHandler(comments *services.CommentService, pages cache.Revalidator) *AdminHandler {
	return &AdminHandler{comments: comments, pages: pages}
}

// ListComments GET /admin/comments
func (h *AdminHandler) ListComments(c *gin.Context) {
	page := utils.PositiveInt(c.Query("page"), 1)
	contentType := c.Query("type")
	if contentType != "" && !models.ValidKind(contentType) {
		contentType = ""
	}

	const perPage = 30
	comments, total, err := h.comments.ListAll(c.Request.Context(), services.CommentFilter{
		ContentType: contentType,
		Page:        page,
		PerPage:     perPage,
	})
	if err != nil {
		RenderError(c, http.StatusInternalServerError, errs.As(err).Public())
		return
	}

	Render(c, http.StatusOK, "admin/comments.html", gin.H{
		"Title":      "Kelola Komentar",
		"Comments":   comments,
		"Total":      total,
		"Page":       page,
		"TotalPages": int(math.Ceil(float64(total) / perPage)),
		"Type":       contentType,
		"Kinds":      models.ContentKinds,
		"Flash":      popFlash(c, flashCommentOK),
	})
}

func (h *AdminHandler) deleteComment(c *gin.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errs.Missing("Komentar tidak ditemukan.")
	}

	deleted, err := h.comments.Delete(c.Request.Context(), middleware.CurrentUser(c), uint(id))
	if err != nil {
		return err
	}

	ref := services.NewContentRef(deleted.ContentType, deleted.ContentID)
	h.pages.Revalidate(adminCommentsPath)
	h.pages.Revalidate(ref.Path())
	h.pages.Revalidate("/" + ref.Type)
	h.pages.Revalidate("/")
	return nil
}

// DeleteComment DELETE /admin/comments/:id
func (h *AdminHandler) DeleteComment(c *gin.Context) {
	if err := h.deleteComment(c); err != nil {
		JSONError(c, err)
		return
	}
	JSONOK(c, nil)
}

// DeleteCommentForm POST /admin/comments/:id/delete
func (h *AdminHandler) DeleteCommentForm(c *gin.Context) {
	if err := h.deleteComment(c); err != nil {
		RenderError(c, errs.Status(err), errs.As(err).Public())
		return
	}
	addFlash(c, flashCommentOK, "Komentar dihapus.")
	c.Redirect(http.StatusFound, adminCommentsPath)
}

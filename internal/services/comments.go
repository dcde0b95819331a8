package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"sekolahku/internal/errs"
	"sekolahku/internal/identity"
	"sekolahku/internal/models"

	"gorm.io/gorm"
)

// CommentInput is what a visitor submits.
type CommentInput struct {
	Content    string
	AuthorName string
}

// CommentUser is the public profile joined onto user comments.
type CommentUser struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CommentView 评论展示结构
type CommentView struct {
	ID         uint         `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"created_at"`
	User       *CommentUser `json:"user"`
	AuthorName *string      `json:"author_name"`
}

// DisplayName is the user's name or the self-declared anonymous name.
func (v CommentView) DisplayName() string {
	if v.User != nil {
		return v.User.Name
	}
	if v.AuthorName != nil {
		return *v.AuthorName
	}
	return ""
}

// AdminCommentView adds the annotated content to a comment for moderation.
type AdminCommentView struct {
	CommentView
	ContentType string `json:"content_type"`
	ContentID   string `json:"content_id"`
	Path        string `json:"path"`
}

// CommentService 评论账本
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// Create stores a comment. Authenticated comments are attributed to the user
// and ignore any supplied name; anonymous ones must carry an author name.
func (s *CommentService) Create(ctx context.Context, who identity.Identity, ref ContentRef, in CommentInput) (*CommentView, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	comment := models.Comment{
		Content:     strings.TrimSpace(in.Content),
		ContentType: ref.Type,
		ContentID:   ref.ID,
	}
	if comment.Content == "" {
		return nil, errs.Validation("content", "Komentar tidak boleh kosong.")
	}

	if who.IsAuthenticated() {
		uid := who.UserID
		comment.UserID = &uid
	} else {
		name := strings.TrimSpace(in.AuthorName)
		if name == "" {
			return nil, errs.Validation("author_name", "Nama wajib diisi.")
		}
		if len(name) > 100 {
			return nil, errs.Validation("author_name", "Nama terlalu panjang.")
		}
		comment.AuthorName = &name
	}

	if !comment.Attributed() {
		return nil, errs.Validation("author_name", "Komentar harus memiliki satu penulis.")
	}

	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		log.Printf("[comment] create on %s by %s failed: %v", ref, who.Key(), err)
		return nil, errs.Persistence("create comment", err)
	}

	view := toView(comment)
	if who.User != nil {
		view.User = &CommentUser{Name: who.User.Name, Image: who.User.Image}
	}
	return &view, nil
}

// List 返回内容下的全部评论，最新的在前
func (s *CommentService) List(ctx context.Context, ref ContentRef) ([]CommentView, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.WithContext(ctx).Preload("User").
		Where("content_type = ? AND content_id = ?", ref.Type, ref.ID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		log.Printf("[comment] list %s failed: %v", ref, err)
		return nil, errs.Persistence("list comments", err)
	}

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = toView(c)
	}
	return views, nil
}

func toView(c models.Comment) CommentView {
	v := CommentView{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
	if c.UserID != nil {
		if c.User != nil {
			v.User = &CommentUser{Name: c.User.Name, Image: c.User.Image}
		}
	} else {
		v.AuthorName = c.AuthorName
	}
	return v
}

// Delete hard-deletes a comment. Only admins may delete.
func (s *CommentService) Delete(ctx context.Context, actor *models.User, commentID uint) (*models.Comment, error) {
	if actor == nil {
		return nil, errs.Unauth("Silakan masuk sebagai admin.")
	}
	if !actor.IsAdmin() {
		return nil, errs.Unauth("Hanya admin yang dapat menghapus komentar.")
	}

	var comment models.Comment
	err := s.db.WithContext(ctx).First(&comment, commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.Missing("Komentar tidak ditemukan.")
	}
	if err != nil {
		log.Printf("[comment] load %d failed: %v", commentID, err)
		return nil, errs.Persistence("load comment", err)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Comment{}, comment.ID).Error; err != nil {
		log.Printf("[comment] delete %d failed: %v", commentID, err)
		return nil, errs.Persistence("delete comment", err)
	}
	log.Printf("[comment] %d on %s/%s deleted by admin %d", comment.ID, comment.ContentType, comment.ContentID, actor.ID)
	return &comment, nil
}

// CommentFilter narrows the moderation list.
type CommentFilter struct {
	ContentType string
	Page        int
	PerPage     int
}

// ListAll 管理后台评论列表（分页，最新在前）
func (s *CommentService) ListAll(ctx context.Context, f CommentFilter) ([]AdminCommentView, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = 30
	}

	base := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.Comment{})
		if f.ContentType != "" {
			query = query.Where("content_type = ?", f.ContentType)
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		log.Printf("[comment] admin count failed: %v", err)
		return nil, 0, errs.Persistence("count comments", err)
	}

	var comments []models.Comment
	err := base().Preload("User").
		Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&comments).Error
	if err != nil {
		log.Printf("[comment] admin list failed: %v", err)
		return nil, 0, errs.Persistence("list comments", err)
	}

	views := make([]AdminCommentView, len(comments))
	for i, c := range comments {
		views[i] = AdminCommentView{
			CommentView: toView(c),
			ContentType: c.ContentType,
			ContentID:   c.ContentID,
			Path:        models.ContentPath(c.ContentType, c.ContentID),
		}
	}
	return views, total, nil
}

// Counts 批量统计评论数
func (s *CommentService) Counts(ctx context.Context, contentType string, ids []string) (map[string]int64, error) {
	return countBy(ctx, s.db, &models.Comment{}, contentType, ids)
}

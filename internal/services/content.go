package services

import (
	"strings"

	"sekolahku/internal/errs"
	"sekolahku/internal/models"
)

// ContentRef 被点赞/评论的内容，(类型, ID) 对外部内容不透明
type ContentRef struct {
	Type string `json:"content_type"`
	ID   string `json:"content_id"`
}

func NewContentRef(contentType, contentID string) ContentRef {
	return ContentRef{Type: strings.TrimSpace(contentType), ID: strings.TrimSpace(contentID)}
}

func (r ContentRef) Validate() error {
	if !models.ValidKind(r.Type) {
		return errs.Validation("content_type", "Jenis konten tidak dikenal.")
	}
	if r.ID == "" || len(r.ID) > 64 {
		return errs.Validation("content_id", "ID konten tidak valid.")
	}
	return nil
}

// Path is the public page the content is rendered on.
func (r ContentRef) Path() string {
	return models.ContentPath(r.Type, r.ID)
}

func (r ContentRef) String() string {
	return r.Type + "/" + r.ID
}

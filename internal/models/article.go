package models

import (
	"strconv"
	"time"
)

// 公开站点的内容类型
const (
	KindNews      = "news"
	KindWasteBank = "waste-bank"
)

// Article 新闻 / 垃圾银行文章
type Article struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Kind       string    `gorm:"size:32;not null;index" json:"kind"`
	Title      string    `gorm:"not null" json:"title"`
	Summary    string    `gorm:"size:300" json:"summary"`
	Body       string    `gorm:"type:text" json:"body"` // markdown
	CoverImage string    `json:"cover_image"`
	Published  bool      `gorm:"default:true;index" json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 非数据库字段，用于列表页填充
	LikeCount    int64 `gorm:"-" json:"like_count"`
	CommentCount int64 `gorm:"-" json:"comment_count"`
}

// ContentID is the opaque id interactions use for this article.
func (a Article) ContentID() string {
	return strconv.FormatUint(uint64(a.ID), 10)
}

// Path is the canonical public page of the article.
func (a Article) Path() string {
	return "/" + a.Kind + "/" + a.ContentID()
}

// ContentKinds 可被点赞/评论的内容类型
var ContentKinds = []string{KindNews, KindWasteBank}

// ValidKind reports whether kind is an interactable content type.
func ValidKind(kind string) bool {
	for _, k := range ContentKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ContentPath returns the public page of a content item, "" for unknown kinds.
func ContentPath(kind, contentID string) string {
	if !ValidKind(kind) || contentID == "" {
		return ""
	}
	return "/" + kind + "/" + contentID
}

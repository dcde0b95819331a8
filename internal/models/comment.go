package models

import (
	"strings"
	"time"
)

// Comment 内容评论：要么属于登录用户，要么带匿名昵称，二者有且仅有一个
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	UserID      *uint     `gorm:"index;check:chk_comments_author,(user_id IS NULL) <> (author_name IS NULL)" json:"user_id"`
	User        *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	AuthorName  *string   `gorm:"size:100" json:"author_name"`
	ContentType string    `gorm:"size:32;not null;index:idx_comments_content" json:"content_type"`
	ContentID   string    `gorm:"size:64;not null;index:idx_comments_content" json:"content_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// Attributed reports whether exactly one of UserID / AuthorName is set.
func (c *Comment) Attributed() bool {
	hasUser := c.UserID != nil
	hasName := c.AuthorName != nil && strings.TrimSpace(*c.AuthorName) != ""
	return hasUser != hasName
}

package models

import (
	"time"
)

// Like 点赞记录。IdentityKey 为 "u:<user id>" 或 "a:<anon token>"，
// (identity_key, content_type, content_id) 唯一索引保证同一身份只能点赞一次
type Like struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"index;check:chk_likes_identity,(user_id IS NULL) <> (anon_token IS NULL)" json:"user_id"`
	User        *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AnonToken   *string   `gorm:"size:128" json:"-"`
	IdentityKey string    `gorm:"size:140;not null;uniqueIndex:idx_like_identity_content" json:"-"`
	ContentType string    `gorm:"size:32;not null;uniqueIndex:idx_like_identity_content;index:idx_likes_content" json:"content_type"`
	ContentID   string    `gorm:"size:64;not null;uniqueIndex:idx_like_identity_content;index:idx_likes_content" json:"content_id"`
	CreatedAt   time.Time `json:"created_at"`
}

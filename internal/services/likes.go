package services

import (
	"context"
	"errors"
	"log"

	"sekolahku/internal/errs"
	"sekolahku/internal/identity"
	"sekolahku/internal/models"

	"gorm.io/gorm"
)

// LikeResult is the state after a toggle, never the delta.
type LikeResult struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// LikeService 点赞账本
type LikeService struct {
	db *gorm.DB

	// beforeWrite runs between the lookup and the write of a toggle.
	beforeWrite func()
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

func (s *LikeService) scope(ctx context.Context, who identity.Identity, ref ContentRef) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Like{}).
		Where("identity_key = ? AND content_type = ? AND content_id = ?", who.Key(), ref.Type, ref.ID)
}

// Toggle likes the content if the identity has not liked it yet, otherwise
// removes the like. A concurrent toggle of the same identity that inserted
// first makes our insert hit the unique index; that is reported as liked.
func (s *LikeService) Toggle(ctx context.Context, who identity.Identity, ref ContentRef) (LikeResult, error) {
	if err := ref.Validate(); err != nil {
		return LikeResult{}, err
	}

	var existing models.Like
	err := s.scope(ctx, who, ref).First(&existing).Error

	var liked bool
	switch {
	case err == nil:
		s.hook()
		// 已点赞，取消点赞（行已被并发删除时 RowsAffected 为 0，结果相同）
		if err := s.db.WithContext(ctx).Delete(&models.Like{}, existing.ID).Error; err != nil {
			log.Printf("[like] unlike %s by %s failed: %v", ref, who.Key(), err)
			return LikeResult{}, errs.Persistence("unlike", err)
		}
		liked = false
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.hook()
		like := newLike(who, ref)
		if err := s.db.WithContext(ctx).Create(&like).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				log.Printf("[like] like %s by %s failed: %v", ref, who.Key(), err)
				return LikeResult{}, errs.Persistence("like", err)
			}
			log.Printf("[like] duplicate like %s by %s, keeping existing row", ref, who.Key())
		}
		liked = true
	default:
		log.Printf("[like] lookup %s by %s failed: %v", ref, who.Key(), err)
		return LikeResult{}, errs.Persistence("like lookup", err)
	}

	count, err := s.Count(ctx, ref)
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{Liked: liked, Count: count}, nil
}

func (s *LikeService) hook() {
	if s.beforeWrite != nil {
		s.beforeWrite()
	}
}

func newLike(who identity.Identity, ref ContentRef) models.Like {
	like := models.Like{
		IdentityKey: who.Key(),
		ContentType: ref.Type,
		ContentID:   ref.ID,
	}
	if who.IsAuthenticated() {
		uid := who.UserID
		like.UserID = &uid
	} else {
		token := who.Token
		like.AnonToken = &token
	}
	return like
}

// Count 获取内容的点赞总数
func (s *LikeService) Count(ctx context.Context, ref ContentRef) (int64, error) {
	if err := ref.Validate(); err != nil {
		return 0, err
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("content_type = ? AND content_id = ?", ref.Type, ref.ID).
		Count(&count).Error
	if err != nil {
		log.Printf("[like] count %s failed: %v", ref, err)
		return 0, errs.Persistence("count likes", err)
	}
	return count, nil
}

// HasLiked 检查身份是否已点赞
func (s *LikeService) HasLiked(ctx context.Context, who identity.Identity, ref ContentRef) (bool, error) {
	if err := ref.Validate(); err != nil {
		return false, err
	}
	var count int64
	if err := s.scope(ctx, who, ref).Count(&count).Error; err != nil {
		log.Printf("[like] has-liked %s by %s failed: %v", ref, who.Key(), err)
		return false, errs.Persistence("has liked", err)
	}
	return count > 0, nil
}

// Counts 批量统计同一类型多个内容的点赞数
func (s *LikeService) Counts(ctx context.Context, contentType string, ids []string) (map[string]int64, error) {
	return countBy(ctx, s.db, &models.Like{}, contentType, ids)
}

type countResult struct {
	ContentID string
	Count     int64
}

func countBy(ctx context.Context, db *gorm.DB, model interface{}, contentType string, ids []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var results []countResult
	err := db.WithContext(ctx).Model(model).
		Select("content_id, COUNT(*) as count").
		Where("content_type = ? AND content_id IN ?", contentType, ids).
		Group("content_id").
		Scan(&results).Error
	if err != nil {
		log.Printf("[count] %s counts failed: %v", contentType, err)
		return nil, errs.Persistence("batch count", err)
	}

	for _, r := range results {
		counts[r.ContentID] = r.Count
	}
	return counts, nil
}

package mysql

import (
	"context"

	"Yatube/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Post").Create(c).Error; err != nil {
			return translate(err)
		}
		return insertOutbox(tx, model.EventCommentCreated, c.AuthorID, c.PostID, map[string]any{
			"comment_id": c.ID,
		})
	})
}

// ListByPost returns comments in arrival order.
func (r *CommentRepository) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	if err := r.DB.WithContext(ctx).Preload("Author").First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CommentRepository) CountByPost(ctx context.Context, postID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

package mysql

import (
	"context"

	"Yatube/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func (r *GroupRepository) Create(ctx context.Context, g *model.Group) error {
	return translate(r.DB.WithContext(ctx).Create(g).Error)
}

func (r *GroupRepository) FindByID(ctx context.Context, id uint64) (*model.Group, error) {
	var group model.Group
	if err := r.DB.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (r *GroupRepository) FindBySlug(ctx context.Context, slug string) (*model.Group, error) {
	var group model.Group
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]model.Group, error) {
	var list []model.Group
	err := r.DB.WithContext(ctx).Order("title ASC, id ASC").Find(&list).Error
	return list, err
}

// DeleteBySlug removes the group and detaches its posts in one transaction.
// It returns how many posts lost their group.
func (r *GroupRepository) DeleteBySlug(ctx context.Context, slug string) (int64, error) {
	var detached int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group model.Group
		if err := tx.Where("slug = ?", slug).First(&group).Error; err != nil {
			return translate(err)
		}
		res := tx.Session(&gorm.Session{SkipHooks: true}).
			Model(&model.Post{}).
			Where("group_id = ?", group.ID).
			Update("group_id", nil)
		if res.Error != nil {
			return res.Error
		}
		detached = res.RowsAffected
		if err := tx.Delete(&model.Group{}, group.ID).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventGroupDeleted, 0, group.ID, map[string]any{
			"slug":           group.Slug,
			"detached_posts": detached,
		})
	})
	return detached, err
}

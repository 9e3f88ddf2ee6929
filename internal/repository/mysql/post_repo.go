package mysql

import (
	"context"

	"Yatube/internal/model"
	"Yatube/internal/pkg"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

// PostFilter narrows a listing. A non-nil AuthorIDs restricts to that set,
// so an empty slice matches nothing.
type PostFilter struct {
	GroupID   *uint64
	AuthorID  *uint64
	AuthorIDs []uint64
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Group").Create(post).Error; err != nil {
			return translate(err)
		}
		return insertOutbox(tx, model.EventPostCreated, post.AuthorID, post.ID, nil)
	})
}

// Update writes the editable columns. created_at is never touched.
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(post).
			Select("text", "group_id", "image", "author_id").
			Updates(post).Error
		if err != nil {
			return translate(err)
		}
		return insertOutbox(tx, model.EventPostEdited, post.AuthorID, post.ID, nil)
	})
}

// Delete removes the post and its comments in one transaction.
func (r *PostRepository) Delete(ctx context.Context, postID, actorID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, postID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pkg.ErrNotFound
		}
		return insertOutbox(tx, model.EventPostDeleted, actorID, postID, nil)
	})
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *PostRepository) scoped(ctx context.Context, f PostFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&model.Post{})
	if f.GroupID != nil {
		q = q.Where("group_id = ?", *f.GroupID)
	}
	if f.AuthorID != nil {
		q = q.Where("author_id = ?", *f.AuthorID)
	}
	if f.AuthorIDs != nil {
		q = q.Where("author_id IN ?", f.AuthorIDs)
	}
	return q
}

// List returns one page of posts, newest first. Out-of-range pages clamp to the last page.
func (r *PostRepository) List(ctx context.Context, f PostFilter, page, size int) (pkg.Page[model.Post], error) {
	if f.AuthorIDs != nil && len(f.AuthorIDs) == 0 {
		return pkg.NewPage[model.Post](nil, pkg.ResolvePage(page, 0, size), 0), nil
	}

	var total int64
	if err := r.scoped(ctx, f).Count(&total).Error; err != nil {
		return pkg.Page[model.Post]{}, err
	}
	w := pkg.ResolvePage(page, total, size)

	var list []model.Post
	err := r.scoped(ctx, f).
		Preload("Author").
		Preload("Group").
		Order("created_at DESC, id DESC").
		Offset(w.Offset).
		Limit(w.Limit).
		Find(&list).Error
	if err != nil {
		return pkg.Page[model.Post]{}, err
	}
	return pkg.NewPage(list, w, total), nil
}

func (r *PostRepository) CountByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

package mysql

import (
	"context"
	"errors"
	"fmt"

	"Yatube/internal/model"
	"Yatube/internal/pkg"

	"gorm.io/gorm"
)

type FollowRepository struct {
	DB *gorm.DB
}

var errSelfFollow = fmt.Errorf("%w: follower and followee are the same user", pkg.ErrConstraintViolation)

// Create inserts an edge and rejects duplicates and self-follows with ErrConstraintViolation.
func (r *FollowRepository) Create(ctx context.Context, followerID, followeeID uint64) (*model.Follow, error) {
	if followerID == followeeID {
		return nil, errSelfFollow
	}
	rel := &model.Follow{FollowerID: followerID, FolloweeID: followeeID}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Follow{}).
			Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: follow %d->%d already exists", pkg.ErrConstraintViolation, followerID, followeeID)
		}
		if err := tx.Omit("Follower", "Followee").Create(rel).Error; err != nil {
			return translate(err)
		}
		return insertOutbox(tx, model.EventFollow, followerID, followeeID, nil)
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// Follow is the idempotent form of Create: an existing edge is left alone and reported as unchanged.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	_, err := r.Create(ctx, followerID, followeeID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errSelfFollow):
		return false, err
	case errors.Is(err, pkg.ErrConstraintViolation):
		// lost a race with a concurrent follow of the same pair
		return false, nil
	default:
		return false, err
	}
}

// Unfollow deletes the edge. A missing edge reports changed=false.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return insertOutbox(tx, model.EventUnfollow, followerID, followeeID, nil)
	})
	return changed, err
}

// IsFollowing reports whether the edge follower->followee exists.
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// FolloweeIDs returns every user the follower follows. Never nil.
func (r *FollowRepository) FolloweeIDs(ctx context.Context, followerID uint64) ([]uint64, error) {
	ids := []uint64{}
	err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Order("followee_id ASC").
		Pluck("followee_id", &ids).Error
	return ids, err
}

// Followees returns the followed users ordered by username.
func (r *FollowRepository) Followees(ctx context.Context, followerID uint64) ([]model.User, error) {
	var users []model.User
	db := r.DB.WithContext(ctx)
	sub := db.Model(&model.Follow{}).Select("followee_id").Where("follower_id = ?", followerID)
	err := db.
		Where("id IN (?)", sub).
		Order("username ASC").
		Find(&users).Error
	return users, err
}

// ListFollowings pages the users userID follows, cursor paged by edge id.
func (r *FollowRepository) ListFollowings(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return r.listEdges(ctx, "follower_id", "Followee", userID, cursor, limit)
}

// ListFollowers pages the users following userID.
func (r *FollowRepository) ListFollowers(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return r.listEdges(ctx, "followee_id", "Follower", userID, cursor, limit)
}

func (r *FollowRepository) listEdges(ctx context.Context, column, preload string, userID, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Preload(preload).
		Where(column+" = ?", userID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Follow
	// limit+1 tells us whether another page exists
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

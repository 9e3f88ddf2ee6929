package service

import (
	"context"
	"fmt"

	"Yatube/internal/model"
	"Yatube/internal/pkg"
	"Yatube/internal/pkg/logger"
	"Yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

// Relation is how a viewer stands to a profile owner.
type Relation string

const (
	RelationSelf         Relation = "self"
	RelationFollowing    Relation = "following"
	RelationNotFollowing Relation = "not_following"
)

// FollowService resolves the social graph. Viewer id 0 is an anonymous viewer.
type FollowService struct {
	repo        *mysql.FollowRepository
	users       *mysql.UserRepository
	invalidator Invalidator
}

func NewFollowService(db *gorm.DB, inv Invalidator) *FollowService {
	return &FollowService{
		repo:        &mysql.FollowRepository{DB: db},
		users:       &mysql.UserRepository{DB: db},
		invalidator: inv,
	}
}

func (s *FollowService) IsFollowing(ctx context.Context, viewerID, targetID uint64) (bool, error) {
	if viewerID == 0 || targetID == 0 {
		return false, nil
	}
	return s.repo.IsFollowing(ctx, viewerID, targetID)
}

func (s *FollowService) RelationStatus(ctx context.Context, viewerID, ownerID uint64) (Relation, error) {
	if viewerID != 0 && viewerID == ownerID {
		return RelationSelf, nil
	}
	ok, err := s.IsFollowing(ctx, viewerID, ownerID)
	if err != nil {
		return "", err
	}
	if ok {
		return RelationFollowing, nil
	}
	return RelationNotFollowing, nil
}

// FollowedAuthors is empty, not nil, for anonymous viewers and viewers who follow nobody.
func (s *FollowService) FollowedAuthors(ctx context.Context, viewerID uint64) ([]model.User, error) {
	if viewerID == 0 {
		return []model.User{}, nil
	}
	users, err := s.repo.Followees(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// Follow creates viewer->target. Following yourself or re-following is a no-op.
func (s *FollowService) Follow(ctx context.Context, viewerID, targetID uint64) (bool, error) {
	if viewerID == 0 {
		return false, pkg.ErrUnauthorized
	}
	if targetID == 0 || viewerID == targetID {
		return false, nil
	}
	for _, id := range []uint64{viewerID, targetID} {
		if err := requireUser(ctx, s.users, id); err != nil {
			return false, err
		}
	}
	changed, err := s.repo.Follow(ctx, viewerID, targetID)
	if err != nil {
		return false, err
	}
	if changed {
		invalidate(ctx, s.invalidator, model.EventFollow)
		logger.InfoWithUser(viewerID, "follow", map[string]any{"followee": targetID})
	}
	return changed, nil
}

// Unfollow removes viewer->target. A missing edge is not an error.
func (s *FollowService) Unfollow(ctx context.Context, viewerID, targetID uint64) (bool, error) {
	if viewerID == 0 {
		return false, pkg.ErrUnauthorized
	}
	if targetID == 0 || viewerID == targetID {
		return false, nil
	}
	changed, err := s.repo.Unfollow(ctx, viewerID, targetID)
	if err != nil {
		return false, err
	}
	if changed {
		invalidate(ctx, s.invalidator, model.EventUnfollow)
		logger.InfoWithUser(viewerID, "unfollow", map[string]any{"followee": targetID})
	}
	return changed, nil
}

func (s *FollowService) FollowUsername(ctx context.Context, viewerID uint64, username string) (bool, error) {
	target, err := s.resolve(ctx, viewerID, username)
	if err != nil {
		return false, err
	}
	return s.Follow(ctx, viewerID, target.ID)
}

func (s *FollowService) UnfollowUsername(ctx context.Context, viewerID uint64, username string) (bool, error) {
	target, err := s.resolve(ctx, viewerID, username)
	if err != nil {
		return false, err
	}
	return s.Unfollow(ctx, viewerID, target.ID)
}

func (s *FollowService) resolve(ctx context.Context, viewerID uint64, username string) (*model.User, error) {
	if viewerID == 0 {
		return nil, pkg.ErrUnauthorized
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, err)
	}
	return user, nil
}

// ListFollowings pages the accounts username follows.
func (s *FollowService) ListFollowings(ctx context.Context, username string, cursor uint64, limit int) ([]model.User, uint64, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, 0, fmt.Errorf("user %q: %w", username, err)
	}
	rows, next, err := s.repo.ListFollowings(ctx, user.ID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]model.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Followee)
	}
	return out, next, nil
}

// ListFollowers pages the accounts following username.
func (s *FollowService) ListFollowers(ctx context.Context, username string, cursor uint64, limit int) ([]model.User, uint64, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, 0, fmt.Errorf("user %q: %w", username, err)
	}
	rows, next, err := s.repo.ListFollowers(ctx, user.ID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]model.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Follower)
	}
	return out, next, nil
}

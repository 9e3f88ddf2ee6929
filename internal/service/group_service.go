package service

import (
	"context"
	"fmt"
	"strings"

	"Yatube/internal/model"
	"Yatube/internal/pkg/logger"
	"Yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

// GroupService is the administrator's side of groups.
type GroupService struct {
	repo        *mysql.GroupRepository
	invalidator Invalidator
}

func NewGroupService(db *gorm.DB, inv Invalidator) *GroupService {
	return &GroupService{
		repo:        &mysql.GroupRepository{DB: db},
		invalidator: inv,
	}
}

func (s *GroupService) CreateGroup(ctx context.Context, form GroupForm) (*model.Group, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Slug = strings.TrimSpace(form.Slug)
	if err := validateForm(&form); err != nil {
		return nil, err
	}
	group := &model.Group{
		Title:       form.Title,
		Slug:        form.Slug,
		Description: form.Description,
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("group %q: %w", form.Slug, err)
	}
	logger.Info("group_created", map[string]any{"group_id": group.ID, "slug": group.Slug})
	return group, nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]model.Group, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []model.Group{}
	}
	return groups, nil
}

// DeleteGroup removes the group; its posts stay, without a group.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) (int64, error) {
	detached, err := s.repo.DeleteBySlug(ctx, slug)
	if err != nil {
		return 0, fmt.Errorf("group %q: %w", slug, err)
	}
	invalidate(ctx, s.invalidator, model.EventGroupDeleted)
	logger.Info("group_deleted", map[string]any{"slug": slug, "detached_posts": detached})
	return detached, nil
}

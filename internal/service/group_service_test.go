package service

import (
	"context"
	"errors"
	"testing"

	"Yatube/internal/pkg"
)

func TestGroupLifecycle(t *testing.T) {
	db := setupTestDB(t)
	inv := &countingInvalidator{}
	groups := NewGroupService(db, inv)
	feeds, _ := newFeedService(db)
	ctx := context.Background()

	g, err := groups.CreateGroup(ctx, GroupForm{Title: " Cats ", Slug: "cats", Description: "meow"})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if g.Title != "Cats" {
		t.Fatalf("expected trimmed title, got %q", g.Title)
	}
	if _, err := groups.CreateGroup(ctx, GroupForm{Title: "Again", Slug: "cats"}); !errors.Is(err, pkg.ErrConstraintViolation) {
		t.Fatalf("expected duplicate slug to violate a constraint, got %v", err)
	}

	list, err := groups.ListGroups(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one group, got %d %v", len(list), err)
	}

	seedPosts(t, db, seedUser(t, db, "leo"), g, 3)
	detached, err := groups.DeleteGroup(ctx, "cats")
	if err != nil {
		t.Fatalf("delete group: %v", err)
	}
	if detached != 3 {
		t.Fatalf("expected 3 detached posts, got %d", detached)
	}
	if inv.count() != 1 {
		t.Fatalf("expected one invalidation, got %d", inv.count())
	}

	all, err := feeds.Index(ctx, 0, 1)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if all.Total != 3 {
		t.Fatalf("expected posts to survive group deletion, got %d", all.Total)
	}
	for _, p := range all.Items {
		if p.GroupID != nil || p.Group != nil {
			t.Fatalf("post %d still references a group", p.ID)
		}
	}
	if _, err := groups.DeleteGroup(ctx, "cats"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"Yatube/internal/model"
	"Yatube/internal/pkg"
)

func edgeCount(t *testing.T, svc *FollowService, followerID uint64) int {
	t.Helper()
	ids, err := svc.repo.FolloweeIDs(context.Background(), followerID)
	if err != nil {
		t.Fatalf("followee ids: %v", err)
	}
	return len(ids)
}

func TestFollowSelfIsNoop(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "leo")
	inv := &countingInvalidator{}
	svc := NewFollowService(db, inv)

	changed, err := svc.Follow(context.Background(), u.ID, u.ID)
	if err != nil || changed {
		t.Fatalf("expected silent no-op, got changed=%v err=%v", changed, err)
	}
	if n := edgeCount(t, svc, u.ID); n != 0 {
		t.Fatalf("expected no edge, got %d", n)
	}
	if inv.count() != 0 {
		t.Fatalf("expected no invalidation for a no-op, got %d", inv.count())
	}
}

func TestFollowTwiceKeepsOneEdge(t *testing.T) {
	db := setupTestDB(t)
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	inv := &countingInvalidator{}
	svc := NewFollowService(db, inv)
	ctx := context.Background()

	for i, want := range []bool{true, false} {
		changed, err := svc.Follow(ctx, a.ID, b.ID)
		if err != nil {
			t.Fatalf("follow #%d: %v", i+1, err)
		}
		if changed != want {
			t.Fatalf("follow #%d: expected changed=%v, got %v", i+1, want, changed)
		}
	}
	if n := edgeCount(t, svc, a.ID); n != 1 {
		t.Fatalf("expected exactly one edge, got %d", n)
	}
	if inv.count() != 1 {
		t.Fatalf("expected one invalidation, got %d", inv.count())
	}
}

func TestUnfollowRestoresState(t *testing.T) {
	db := setupTestDB(t)
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	svc := NewFollowService(db, nil)
	ctx := context.Background()

	before, err := svc.IsFollowing(ctx, a.ID, b.ID)
	if err != nil || before {
		t.Fatalf("expected no edge initially, got %v %v", before, err)
	}
	if _, err := svc.Follow(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if ok, _ := svc.IsFollowing(ctx, a.ID, b.ID); !ok {
		t.Fatal("expected edge after follow")
	}
	if ok, _ := svc.IsFollowing(ctx, b.ID, a.ID); ok {
		t.Fatal("follow must be directed")
	}

	changed, err := svc.Unfollow(ctx, a.ID, b.ID)
	if err != nil || !changed {
		t.Fatalf("expected unfollow to change, got %v %v", changed, err)
	}
	after, err := svc.IsFollowing(ctx, a.ID, b.ID)
	if err != nil || after != before {
		t.Fatalf("expected state restored, got %v %v", after, err)
	}

	changed, err = svc.Unfollow(ctx, a.ID, b.ID)
	if err != nil || changed {
		t.Fatalf("expected missing edge unfollow to be a no-op, got %v %v", changed, err)
	}
}

func TestFollowRequiresViewer(t *testing.T) {
	db := setupTestDB(t)
	b := seedUser(t, db, "b")
	svc := NewFollowService(db, nil)
	ctx := context.Background()

	if _, err := svc.Follow(ctx, 0, b.ID); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("expected unauthorized follow, got %v", err)
	}
	if _, err := svc.Unfollow(ctx, 0, b.ID); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("expected unauthorized unfollow, got %v", err)
	}
	if _, err := svc.FollowUsername(ctx, 0, "b"); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("expected unauthorized follow by username, got %v", err)
	}
	if ok, err := svc.IsFollowing(ctx, 0, b.ID); err != nil || ok {
		t.Fatalf("anonymous viewer follows nobody, got %v %v", ok, err)
	}
}

func TestFollowByUsername(t *testing.T) {
	db := setupTestDB(t)
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	svc := NewFollowService(db, nil)
	ctx := context.Background()

	if changed, err := svc.FollowUsername(ctx, a.ID, "b"); err != nil || !changed {
		t.Fatalf("follow by username: %v %v", changed, err)
	}
	if _, err := svc.FollowUsername(ctx, a.ID, "ghost"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if changed, err := svc.UnfollowUsername(ctx, a.ID, "b"); err != nil || !changed {
		t.Fatalf("unfollow by username: %v %v", changed, err)
	}
	if ok, _ := svc.IsFollowing(ctx, a.ID, b.ID); ok {
		t.Fatal("expected edge removed")
	}
}

func TestRelationStatus(t *testing.T) {
	db := setupTestDB(t)
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	svc := NewFollowService(db, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		viewer uint64
		owner  uint64
		want   Relation
	}{
		{"self", a.ID, a.ID, RelationSelf},
		{"anonymous", 0, a.ID, RelationNotFollowing},
		{"stranger", b.ID, a.ID, RelationNotFollowing},
	}
	for _, tc := range cases {
		got, err := svc.RelationStatus(ctx, tc.viewer, tc.owner)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}

	if _, err := svc.Follow(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if got, _ := svc.RelationStatus(ctx, b.ID, a.ID); got != RelationFollowing {
		t.Fatalf("expected following, got %s", got)
	}
}

func TestFollowedAuthorsAndLists(t *testing.T) {
	db := setupTestDB(t)
	viewer := seedUser(t, db, "viewer")
	zed := seedUser(t, db, "zed")
	amy := seedUser(t, db, "amy")
	svc := NewFollowService(db, nil)
	ctx := context.Background()

	authors, err := svc.FollowedAuthors(ctx, 0)
	if err != nil || authors == nil || len(authors) != 0 {
		t.Fatalf("expected empty non-nil list for anonymous, got %v %v", authors, err)
	}
	authors, err = svc.FollowedAuthors(ctx, viewer.ID)
	if err != nil || authors == nil || len(authors) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", authors, err)
	}

	for _, id := range []uint64{zed.ID, amy.ID} {
		if _, err := svc.Follow(ctx, viewer.ID, id); err != nil {
			t.Fatalf("follow: %v", err)
		}
	}
	authors, err = svc.FollowedAuthors(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("followed authors: %v", err)
	}
	if len(authors) != 2 || authors[0].Username != "amy" || authors[1].Username != "zed" {
		t.Fatalf("expected [amy zed], got %v", usernames(authors))
	}

	followings, next, err := svc.ListFollowings(ctx, "viewer", 0, 1)
	if err != nil {
		t.Fatalf("list followings: %v", err)
	}
	if len(followings) != 1 || next == 0 {
		t.Fatalf("expected one row and a cursor, got %d rows cursor=%d", len(followings), next)
	}
	rest, next, err := svc.ListFollowings(ctx, "viewer", next, 1)
	if err != nil {
		t.Fatalf("list followings: %v", err)
	}
	if len(rest) != 1 || next != 0 || rest[0].ID == followings[0].ID {
		t.Fatalf("unexpected second page: %v cursor=%d", usernames(rest), next)
	}

	followers, _, err := svc.ListFollowers(ctx, "amy", 0, 10)
	if err != nil {
		t.Fatalf("list followers: %v", err)
	}
	if len(followers) != 1 || followers[0].ID != viewer.ID {
		t.Fatalf("expected viewer as amy's follower, got %v", usernames(followers))
	}
}

func usernames(users []model.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}

func TestFollowUnknownUsers(t *testing.T) {
	db := setupTestDB(t)
	a := seedUser(t, db, "a")
	svc := NewFollowService(db, nil)
	ctx := context.Background()

	if _, err := svc.Follow(ctx, 999, a.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("unknown follower: expected not found, got %v", err)
	}
	if _, err := svc.Follow(ctx, a.ID, 999); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("unknown followee: expected not found, got %v", err)
	}
	if _, err := svc.FollowUsername(ctx, 999, "a"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("unknown follower by username: expected not found, got %v", err)
	}
	if n := edgeCount(t, svc, 999); n != 0 {
		t.Fatalf("expected no dangling edge, got %d", n)
	}
}

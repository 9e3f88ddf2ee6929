package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"Yatube/internal/model"
	"Yatube/internal/repository/mysql"
)

func TestOutboxRelayerDrains(t *testing.T) {
	db := setupTestDB(t)
	leo := seedUser(t, db, "leo")
	ann := seedUser(t, db, "ann")
	ctx := context.Background()
	if _, err := NewFollowService(db, nil).Follow(ctx, ann.ID, leo.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	seedPosts(t, db, leo, nil, 2)

	var got []string
	relayer := NewOutboxRelayer(db, func(_ context.Context, ev *model.OutboxEvent) error {
		got = append(got, ev.EventType)
		return nil
	}, 0, 10)

	if n := relayer.drainOnce(ctx); n != 3 {
		t.Fatalf("expected 3 events delivered, got %d", n)
	}
	want := []string{model.EventFollow, model.EventPostCreated, model.EventPostCreated}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v in commit order, got %v", want, got)
	}
	if n := relayer.drainOnce(ctx); n != 0 {
		t.Fatalf("expected nothing left, got %d", n)
	}
}

func TestOutboxRelayerRetriesFailures(t *testing.T) {
	db := setupTestDB(t)
	seedPosts(t, db, seedUser(t, db, "leo"), nil, 1)
	ctx := context.Background()

	attempts := 0
	failing := NewOutboxRelayer(db, func(context.Context, *model.OutboxEvent) error {
		attempts++
		return errors.New("broker down")
	}, 0, 10)
	for i := 0; i < mysql.MaxOutboxRetry+2; i++ {
		failing.drainOnce(ctx)
	}
	if attempts != mysql.MaxOutboxRetry {
		t.Fatalf("expected %d attempts before giving up, got %d", mysql.MaxOutboxRetry, attempts)
	}
}

func TestCommentNoticeSender(t *testing.T) {
	db := setupTestDB(t)
	leo := seedUser(t, db, "leo")
	ann := seedUser(t, db, "ann")
	posts := NewPostService(db, nil, nil, PostOptions{EnforceEditOwnership: true})
	ctx := context.Background()

	post, err := posts.CreatePost(ctx, leo.ID, PostForm{Text: "hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := posts.CreateComment(ctx, ann.ID, post.ID, CommentForm{Text: "hi leo"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := posts.CreateComment(ctx, leo.ID, post.ID, CommentForm{Text: "self reply"}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	type mail struct{ to, subject, body string }
	var sent []mail
	sender := Fanout(LogSender, CommentNoticeSender(db, func(to, subject, body string) error {
		sent = append(sent, mail{to, subject, body})
		return nil
	}))
	NewOutboxRelayer(db, sender, 0, 50).drainOnce(ctx)

	if len(sent) != 1 {
		t.Fatalf("expected one notice, got %d", len(sent))
	}
	if sent[0].to != leo.Email || !strings.Contains(sent[0].body, "ann") || !strings.Contains(sent[0].body, "hi leo") {
		t.Fatalf("unexpected notice: %+v", sent[0])
	}
}

func TestFanoutJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	s := Fanout(
		func(context.Context, *model.OutboxEvent) error { calls++; return boom },
		func(context.Context, *model.OutboxEvent) error { calls++; return nil },
	)
	err := s(context.Background(), &model.OutboxEvent{})
	if !errors.Is(err, boom) || calls != 2 {
		t.Fatalf("expected every sender to run and the error to surface, got %v after %d calls", err, calls)
	}
}

func TestFanoutRedeliversAfterPartialFailure(t *testing.T) {
	db := setupTestDB(t)
	seedPosts(t, db, seedUser(t, db, "leo"), nil, 1)
	ctx := context.Background()

	var published []uint64
	mailDown := true
	sender := Fanout(
		func(_ context.Context, ev *model.OutboxEvent) error {
			published = append(published, ev.ID)
			return nil
		},
		func(context.Context, *model.OutboxEvent) error {
			if mailDown {
				return errors.New("smtp down")
			}
			return nil
		},
	)
	relayer := NewOutboxRelayer(db, sender, 0, 10)

	if n := relayer.drainOnce(ctx); n != 0 {
		t.Fatalf("expected nothing marked sent, got %d", n)
	}
	mailDown = false
	if n := relayer.drainOnce(ctx); n != 1 {
		t.Fatalf("expected the retry to succeed, got %d", n)
	}
	if len(published) != 2 || published[0] != published[1] {
		t.Fatalf("expected the same event published twice, got %v", published)
	}
	if n := relayer.drainOnce(ctx); n != 0 {
		t.Fatalf("expected nothing left, got %d", n)
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Yatube/internal/model"
	"Yatube/internal/pkg"
	"Yatube/internal/pkg/logger"
	"Yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

type Sender func(ctx context.Context, ev *model.OutboxEvent) error

// OutboxRelayer drains committed domain events to the configured sender.
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, interval time.Duration, batchSize int) *OutboxRelayer {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: batchSize,
		interval:  interval,
		sender:    sender,
	}
}

// Run drains on every tick until ctx is cancelled.
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce sends one batch and returns how many events were delivered.
func (r *OutboxRelayer) drainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		logger.Error("outbox_query_failed", err, nil)
		return 0
	}
	sent := 0
	for i := range rows {
		ev := rows[i]
		if err := r.sender(ctx, &ev); err != nil {
			logger.Warn("outbox_send_failed", map[string]any{"event_id": ev.ID, "type": ev.EventType, "error": err.Error()})
			if err := r.repo.MarkFailed(ctx, ev.ID); err != nil {
				logger.Error("outbox_mark_failed", err, map[string]any{"event_id": ev.ID})
			}
			continue
		}
		if err := r.repo.MarkSent(ctx, ev.ID); err != nil {
			logger.Error("outbox_mark_sent", err, map[string]any{"event_id": ev.ID})
			continue
		}
		sent++
	}
	return sent
}

// eventMessage is the wire shape published for every event.
type eventMessage struct {
	ID      uint64          `json:"id"`
	Type    string          `json:"type"`
	Actor   uint64          `json:"actor"`
	Target  uint64          `json:"target"`
	Payload json.RawMessage `json:"payload"`
}

// KafkaSender publishes events keyed by actor, keeping one user's events in order.
func KafkaSender(p *pkg.EventProducer) Sender {
	return func(ctx context.Context, ev *model.OutboxEvent) error {
		body, err := json.Marshal(eventMessage{
			ID:      ev.ID,
			Type:    ev.EventType,
			Actor:   ev.ActorID,
			Target:  ev.TargetID,
			Payload: json.RawMessage(ev.Payload),
		})
		if err != nil {
			return err
		}
		return p.Publish(ctx, pkg.PartitionKey(ev.ActorID), ev.EventType, body)
	}
}

// MailFunc delivers one html message.
type MailFunc func(to, subject, htmlBody string) error

// CommentNoticeSender mails a post's author when somebody else comments on it.
// Other event types pass through untouched.
func CommentNoticeSender(db *gorm.DB, mail MailFunc) Sender {
	posts := &mysql.PostRepository{DB: db}
	users := &mysql.UserRepository{DB: db}
	return func(ctx context.Context, ev *model.OutboxEvent) error {
		if ev.EventType != model.EventCommentCreated {
			return nil
		}
		post, err := posts.FindByID(ctx, ev.TargetID)
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if post.AuthorID == ev.ActorID || post.Author.Email == "" {
			return nil
		}
		commenter, err := users.FindByID(ctx, ev.ActorID)
		if err != nil {
			return err
		}
		var payload struct {
			CommentID uint64 `json:"comment_id"`
		}
		_ = json.Unmarshal([]byte(ev.Payload), &payload)
		text := ""
		if payload.CommentID != 0 {
			var c model.Comment
			if err := db.WithContext(ctx).Select("text").First(&c, payload.CommentID).Error; err == nil {
				text = c.Text
			}
		}
		subject := fmt.Sprintf("New comment on your post #%d", post.ID)
		return mail(post.Author.Email, subject, pkg.CommentNoticeHTML(commenter.Username, post.ID, text))
	}
}

// LogSender only logs. It is the sender when no broker is configured.
func LogSender(ctx context.Context, ev *model.OutboxEvent) error {
	logger.Info("outbox_event", map[string]any{
		"event_id": ev.ID,
		"type":     ev.EventType,
		"actor":    ev.ActorID,
		"target":   ev.TargetID,
		"payload":  ev.Payload,
	})
	return nil
}

// Fanout runs every sender and fails if any of them fails. A failed row is
// retried as a whole, so delivery is at-least-once per sender: consumers
// dedupe on the event id carried in every message.
func Fanout(senders ...Sender) Sender {
	return func(ctx context.Context, ev *model.OutboxEvent) error {
		var errs []error
		for _, s := range senders {
			if err := s(ctx, ev); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

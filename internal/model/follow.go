package model

import "time"

// Follow is a directed edge: Follower receives Followee's posts in the following feed.
// Rows are inserted and deleted, never updated.
type Follow struct {
	ID         uint64    `gorm:"primaryKey"`
	FollowerID uint64    `gorm:"not null;uniqueIndex:uk_follow_pair,priority:1;check:chk_follow_no_self,follower_id <> followee_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FolloweeID uint64    `gorm:"not null;uniqueIndex:uk_follow_pair,priority:2;index:idx_followee_id"`
	Followee   User      `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
}

// TableName sets table name for Follow
func (Follow) TableName() string {
	return "follow"
}

const (
	EventFollow         = "follow"
	EventUnfollow       = "unfollow"
	EventPostCreated    = "post_created"
	EventPostEdited     = "post_edited"
	EventPostDeleted    = "post_deleted"
	EventCommentCreated = "comment_created"
	EventGroupDeleted   = "group_deleted"
)

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// OutboxEvent is written in the same transaction as the change it describes
// and relayed asynchronously.
type OutboxEvent struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"`
	ActorID   uint64 `gorm:"not null"`
	TargetID  uint64 `gorm:"not null"`
	Payload   string `gorm:"type:text;not null"`
	Status    int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OutboxEvent) TableName() string { return "social_outbox" }

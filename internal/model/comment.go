package model

import (
	"strings"
	"time"

	"Yatube/internal/pkg"

	"gorm.io/gorm"
)

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index:idx_comment_post_time,priority:1" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint64    `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_comment_post_time,priority:2" json:"created_at"`
}

func (c *Comment) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(c.Text) == "" {
		return pkg.NewValidationError("text", "this field is required")
	}
	return nil
}

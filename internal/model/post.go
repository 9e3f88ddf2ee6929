package model

import (
	"strings"
	"time"

	"Yatube/internal/pkg"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint64    `gorm:"primaryKey;index:idx_post_time_id,priority:2,sort:desc" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint64    `gorm:"not null;index:idx_author_time,priority:1" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint64   `gorm:"index:idx_group_time,priority:1" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_post_time_id,priority:1,sort:desc;index:idx_author_time,priority:2;index:idx_group_time,priority:2" json:"created_at"`
}

// BeforeSave rejects posts without text at the store boundary.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(p.Text) == "" {
		return pkg.NewValidationError("text", "this field is required")
	}
	return nil
}

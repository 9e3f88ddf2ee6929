package model

import "time"

// User mirrors an account owned by the identity provider. The blog core only
// references it.
type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string    `gorm:"size:254" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

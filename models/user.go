package models

import (
	"strings"
	"time"
)

// Roles stored in users.role
const (
	RoleUser      = "USER"
	RoleCommittee = "COMMITTEE"
	RoleAdmin     = "ADMIN"
)

type User struct {
	UserID      uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName   string     `gorm:"column:first_name" json:"first_name"`
	LastName    string     `gorm:"column:last_name" json:"last_name"`
	Email       string     `gorm:"column:email;unique" json:"email"`
	Password    string     `gorm:"column:password" json:"-"`
	Role        string     `gorm:"column:role" json:"role"`
	Institution *string    `gorm:"column:institution" json:"institution,omitempty"`
	Phone       *string    `gorm:"column:phone" json:"phone,omitempty"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns "First Last" with empty parts dropped.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

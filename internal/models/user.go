// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User is an account. Accounts are created at registration and never edited.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:30;uniqueIndex;not null" json:"username"`
	FullName     string     `gorm:"size:100;not null" json:"fullname"`
	Email        string     `gorm:"size:254;uniqueIndex;not null" json:"email,omitempty"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Bio          *string    `gorm:"type:text" json:"bio,omitempty"`
	DateOfBirth  *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// PublicUser strips the private fields before a user is shown to someone else.
func (u User) PublicUser() User {
	u.Email = ""
	u.PasswordHash = ""
	return u
}

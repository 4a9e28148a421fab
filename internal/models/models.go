package models

import (
	"time"
)

type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"not null"                 json:"name"`
	Email          string    `gorm:"unique;not null"          json:"email"`
	PasswordHash   string    `gorm:"not null"                 json:"-"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	Description    string    `gorm:"default:''"               json:"description"`
	ProfilePicture string    `gorm:"default:'/images/default-avatar.png'" json:"profile_picture"`
	Role           string    `gorm:"not null;default:'user'"  json:"role"`
	IsSuspended    bool      `gorm:"default:false"            json:"is_suspended"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type JournalEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null"                 json:"title"`
	Content   string    `gorm:"not null"                 json:"content"`
	Photo     string    `json:"photo,omitempty"`
	AuthorID  uint      `gorm:"index;not null"           json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

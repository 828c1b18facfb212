package auth

import (
	"time"
)

// ============================
// User Model
type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`
	University   string `gorm:"not null" json:"university"`

	// Optional profile fields, filled in after signup
	Major          *string `json:"major,omitempty"`
	GraduationYear *string `json:"graduation_year,omitempty"`
	Bio            *string `json:"bio,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for User
func (User) TableName() string {
	return "users"
}

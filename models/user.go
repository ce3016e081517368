package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Password      *string        `json:"-"` // nil for Google-provisioned accounts
	Department    string         `json:"department"`
	Phone         *string        `json:"phone,omitempty"`
	Avatar        string         `json:"avatar,omitempty"`
	Provider      string         `gorm:"not null;default:'email'" json:"provider"` // "email" or "google"
	GoogleID      *string        `gorm:"unique" json:"-"`
	Items         []Item         `json:"-" gorm:"foreignKey:OwnerID"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
}

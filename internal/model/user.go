// Package model defines database models
package model

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string  `gorm:"size:50" json:"username"`
	Email        string  `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password     string  `gorm:"size:255;not null" json:"-"` // argon2id PHC string
	Avatar       *string `gorm:"size:255" json:"avatar"`
	RefreshToken *string `gorm:"size:512" json:"-"`
	Role         Role    `gorm:"size:16;default:user" json:"role"`
	Confirmed    bool    `gorm:"default:false" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Contacts []Contact `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

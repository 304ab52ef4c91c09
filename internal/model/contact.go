package model

import "time"

type Contact struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"size:50" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`
	// Unique per owner, two users may both know the same person
	Email    string `gorm:"size:100;uniqueIndex:idx_contacts_owner_email" json:"email"`
	Phone    string `gorm:"size:13" json:"phone"`
	BornDate Date   `gorm:"index" json:"born_date"`
	// Soft-delete marker. Flagged rows are hidden from every read and
	// removed for good by the purge job.
	Deleted bool `gorm:"default:false;index" json:"-"`

	UserID uint  `gorm:"uniqueIndex:idx_contacts_owner_email;index;not null" json:"-"`
	User   *User `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

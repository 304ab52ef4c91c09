// Package repository holds the queries behind every endpoint. Each
// function takes the gorm handle it should run on and the authenticated
// user, so contacts are never read or written outside their owner.
package repository

import (
	"bitwise74/contacts-api/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ContactInput carries the user-supplied fields of a contact
type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	BornDate  model.Date
	Deleted   bool
}

// owned limits a query to the visible contacts of u
func owned(u *model.User) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ? AND deleted = ?", u.ID, false)
	}
}

// GetContacts returns a page of the user's contacts in table order
func GetContacts(ctx context.Context, db *gorm.DB, u *model.User, limit, offset int) ([]model.Contact, error) {
	contacts := []model.Contact{}

	err := db.WithContext(ctx).
		Scopes(owned(u)).
		Offset(offset).
		Limit(limit).
		Find(&contacts).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts, %w", err)
	}

	return contacts, nil
}

// GetContact returns the contact with the given ID or nil if the user
// doesn't own one
func GetContact(ctx context.Context, db *gorm.DB, u *model.User, id uint) (*model.Contact, error) {
	var contact model.Contact

	err := db.WithContext(ctx).
		Scopes(owned(u)).
		Where("id = ?", id).
		First(&contact).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch contact, %w", err)
	}

	return &contact, nil
}

func CreateContact(ctx context.Context, db *gorm.DB, u *model.User, in ContactInput) (*model.Contact, error) {
	contact := model.Contact{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		BornDate:  in.BornDate,
		UserID:    u.ID,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearHidden(tx, u, in.Email, 0); err != nil {
			return err
		}

		return tx.Create(&contact).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create contact, %w", err)
	}

	return &contact, nil
}

// clearHidden hard deletes the user's soft-deleted contacts using email
// so they don't hold the per-owner email index. except is never removed.
func clearHidden(tx *gorm.DB, u *model.User, email string, except uint) error {
	return tx.
		Where("user_id = ? AND email = ? AND deleted = ? AND id <> ?", u.ID, email, true, except).
		Delete(&model.Contact{}).
		Error
}

// UpdateContact overwrites every mutable field of an owned contact.
// Returns nil if there's nothing to update.
func UpdateContact(ctx context.Context, db *gorm.DB, u *model.User, id uint, in ContactInput) (*model.Contact, error) {
	contact, err := GetContact(ctx, db, u, id)
	if err != nil || contact == nil {
		return nil, err
	}

	contact.FirstName = in.FirstName
	contact.LastName = in.LastName
	contact.Email = in.Email
	contact.Phone = in.Phone
	contact.BornDate = in.BornDate
	contact.Deleted = in.Deleted

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearHidden(tx, u, in.Email, contact.ID); err != nil {
			return err
		}

		return tx.Save(contact).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update contact, %w", err)
	}

	return contact, nil
}

// DeleteContact permanently removes an owned contact and returns the
// detached row, or nil if the user doesn't own it
func DeleteContact(ctx context.Context, db *gorm.DB, u *model.User, id uint) (*model.Contact, error) {
	contact, err := GetContact(ctx, db, u, id)
	if err != nil || contact == nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Delete(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to delete contact, %w", err)
	}

	return contact, nil
}

// SearchContacts does a case-insensitive substring match on the first
// name, last name and email of the user's contacts
func SearchContacts(ctx context.Context, db *gorm.DB, u *model.User, query string) ([]model.Contact, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	contacts := []model.Contact{}

	err := db.WithContext(ctx).
		Scopes(owned(u)).
		Where(
			db.Where("LOWER(first_name) LIKE ? ESCAPE '\\'", pattern).
				Or("LOWER(last_name) LIKE ? ESCAPE '\\'", pattern).
				Or("LOWER(email) LIKE ? ESCAPE '\\'", pattern),
		).
		Find(&contacts).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts, %w", err)
	}

	return contacts, nil
}

// UpcomingBirthdays returns contacts whose stored born_date lies between
// today and a week from today, both ends included. The comparison is on
// the full date, year included.
func UpcomingBirthdays(ctx context.Context, db *gorm.DB, u *model.User, today model.Date) ([]model.Contact, error) {
	contacts := []model.Contact{}

	err := db.WithContext(ctx).
		Scopes(owned(u)).
		Where("born_date BETWEEN ? AND ?", today, today.AddDays(7)).
		Find(&contacts).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming birthdays, %w", err)
	}

	return contacts, nil
}

// PurgeDeletedContacts hard deletes contacts flagged as deleted that
// haven't been touched since before
func PurgeDeletedContacts(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	r := db.WithContext(ctx).
		Where("deleted = ? AND updated_at < ?", true, before).
		Delete(&model.Contact{})
	if r.Error != nil {
		return 0, fmt.Errorf("failed to purge deleted contacts, %w", r.Error)
	}

	return r.RowsAffected, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package validators

import (
	"bitwise74/contacts-api/internal/model"
	"errors"
)

var (
	ErrBornDateEmpty   = errors.New("no born_date provided")
	ErrBornDateNotPast = errors.New("born_date must be in the past")
)

// ContactSchema is the body accepted when creating a contact
type ContactSchema struct {
	FirstName string     `json:"first_name" binding:"required,max=50"`
	LastName  string     `json:"last_name" binding:"required,max=100"`
	Email     string     `json:"email" binding:"required,email,max=100"`
	Phone     string     `json:"phone" binding:"omitempty,max=13,phone"`
	BornDate  model.Date `json:"born_date"`
}

// ContactUpdateSchema replaces every mutable field, the delete flag included
type ContactUpdateSchema struct {
	ContactSchema
	Delete *bool `json:"delete" binding:"required"`
}

// UserSchema is the signup body
type UserSchema struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email,max=150"`
	Password string `json:"password"`
}

// RequestEmail asks for a new confirmation mail
type RequestEmail struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginForm mirrors the OAuth2 password form, username holds the email
type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// BornDateValidator checks that d is set and lies strictly before today
func BornDateValidator(d model.Date, today model.Date) error {
	if d.IsZero() {
		return ErrBornDateEmpty
	}

	if !d.Before(today.Time) {
		return ErrBornDateNotPast
	}

	return nil
}

// ContactValidator runs the checks gin's binding can't express
func ContactValidator(s *ContactSchema, today model.Date) error {
	return BornDateValidator(s.BornDate, today)
}

func UserValidator(s *UserSchema) error {
	if err := EmailValidator(s.Email); err != nil {
		return err
	}

	return PasswordValidator(s.Password)
}

// ContactsPage is the pagination accepted by the contact list
type ContactsPage struct {
	Limit  int `form:"limit,default=10" json:"limit" binding:"min=10,max=500"`
	Offset int `form:"offset,default=0" json:"offset" binding:"min=0"`
}

// SearchQuery is the query string of a contact search
type SearchQuery struct {
	Query string `form:"query" json:"query" binding:"required,min=1"`
}

package repository

import (
	"bitwise74/contacts-api/internal/model"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AvatarSource looks up a picture for an email address
type AvatarSource interface {
	AvatarURL(ctx context.Context, email string) (string, error)
}

// UserInput is a new account. Password must already be hashed.
type UserInput struct {
	Username string
	Email    string
	Password string
}

// GetUserByEmail returns the user registered with email or nil
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	var user model.User

	err := db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch user, %w", err)
	}

	return &user, nil
}

// CreateUser persists a new account. The avatar lookup is best effort,
// any failure leaves the avatar unset.
func CreateUser(ctx context.Context, db *gorm.DB, in UserInput, avatars AvatarSource) (*model.User, error) {
	user := model.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		Role:      model.RoleUser,
		Confirmed: false,
	}

	if avatars != nil {
		url, err := avatars.AvatarURL(ctx, in.Email)
		if err != nil {
			zap.L().Warn("Failed to fetch avatar", zap.String("email", in.Email), zap.Error(err))
		} else if url != "" {
			user.Avatar = &url
		}
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user, %w", err)
	}

	return &user, nil
}

// UpdateToken stores the user's refresh token. A nil token revokes it.
func UpdateToken(ctx context.Context, db *gorm.DB, u *model.User, token *string) error {
	var value any = gorm.Expr("NULL")
	if token != nil {
		value = *token
	}

	err := db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", u.ID).
		Update("refresh_token", value).
		Error
	if err != nil {
		return fmt.Errorf("failed to update refresh token, %w", err)
	}

	u.RefreshToken = token
	return nil
}

// ConfirmedEmail marks the user owning email as confirmed
func ConfirmedEmail(ctx context.Context, db *gorm.DB, email string) error {
	r := db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Update("confirmed", true)
	if r.Error != nil {
		return fmt.Errorf("failed to confirm email, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return fmt.Errorf("failed to confirm email, %w", gorm.ErrRecordNotFound)
	}

	return nil
}

func UpdateAvatar(ctx context.Context, db *gorm.DB, u *model.User, url string) (*model.User, error) {
	err := db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", u.ID).
		Update("avatar", url).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar, %w", err)
	}

	u.Avatar = &url
	return u, nil
}

package repository

import (
	"bitwise74/contacts-api/db"
	"bitwise74/contacts-api/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	d, err := db.New(db.Options{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := d.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return d
}

func newTestUser(t *testing.T, d *gorm.DB, email string) *model.User {
	t.Helper()

	u, err := CreateUser(context.Background(), d, UserInput{
		Username: "user",
		Email:    email,
		Password: "hashed",
	}, nil)
	require.NoError(t, err)

	return u
}

package db

import (
	"bitwise74/contacts-api/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteMigrates(t *testing.T) {
	d, err := New(Options{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)

	assert.True(t, d.Migrator().HasTable(&model.User{}))
	assert.True(t, d.Migrator().HasTable(&model.Contact{}))
	assert.True(t, d.Migrator().HasIndex(&model.Contact{}, "idx_contacts_owner_email"))
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(Options{Driver: "mysql", DSN: "whatever"})
	assert.Error(t, err)
}

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAvatars struct {
	url string
	err error
}

func (f fakeAvatars) AvatarURL(context.Context, string) (string, error) {
	return f.url, f.err
}

func TestCreateUserWithAvatar(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	u, err := CreateUser(ctx, d, UserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hashed",
	}, fakeAvatars{url: "https://gravatar.example/alice"})
	require.NoError(t, err)

	require.NotNil(t, u.Avatar)
	assert.Equal(t, "https://gravatar.example/alice", *u.Avatar)
	assert.Equal(t, "user", string(u.Role))
	assert.False(t, u.Confirmed)

	got, err := GetUserByEmail(ctx, d, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
}

func TestCreateUserAvatarFailureIgnored(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	u, err := CreateUser(ctx, d, UserInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "hashed",
	}, fakeAvatars{err: errors.New("gravatar down")})
	require.NoError(t, err)
	assert.Nil(t, u.Avatar)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	newTestUser(t, d, "dup@example.com")

	_, err := CreateUser(ctx, d, UserInput{Email: "dup@example.com", Password: "x"}, nil)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestGetUserByEmailMissing(t *testing.T) {
	d := newTestDB(t)

	u, err := GetUserByEmail(context.Background(), d, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUpdateToken(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	u := newTestUser(t, d, "carol@example.com")

	token := "refresh-token"
	require.NoError(t, UpdateToken(ctx, d, u, &token))

	got, err := GetUserByEmail(ctx, d, "carol@example.com")
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, token, *got.RefreshToken)

	require.NoError(t, UpdateToken(ctx, d, u, nil))
	assert.Nil(t, u.RefreshToken)

	got, err = GetUserByEmail(ctx, d, "carol@example.com")
	require.NoError(t, err)
	assert.Nil(t, got.RefreshToken)
}

func TestConfirmedEmail(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	newTestUser(t, d, "dave@example.com")

	require.NoError(t, ConfirmedEmail(ctx, d, "dave@example.com"))

	got, err := GetUserByEmail(ctx, d, "dave@example.com")
	require.NoError(t, err)
	assert.True(t, got.Confirmed)

	err = ConfirmedEmail(ctx, d, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateAvatar(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	u := newTestUser(t, d, "erin@example.com")

	_, err := UpdateAvatar(ctx, d, u, "https://cdn.example/avatars/1")
	require.NoError(t, err)

	got, err := GetUserByEmail(ctx, d, "erin@example.com")
	require.NoError(t, err)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, "https://cdn.example/avatars/1", *got.Avatar)
}

package validators

import (
	"bitwise74/contacts-api/internal/model"
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailValidator(t *testing.T) {
	assert.ErrorIs(t, EmailValidator(""), ErrEmailEmpty)
	assert.ErrorIs(t, EmailValidator("not-an-email"), ErrEmailInvalid)
	assert.NoError(t, EmailValidator("john@example.com"))
}

func TestPasswordValidator(t *testing.T) {
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("short"), ErrPasswordTooShort)
	assert.NoError(t, PasswordValidator("long enough"))
}

func TestBornDateValidator(t *testing.T) {
	today := model.NewDate(2024, time.June, 10)

	assert.ErrorIs(t, BornDateValidator(model.Date{}, today), ErrBornDateEmpty)
	assert.ErrorIs(t, BornDateValidator(today, today), ErrBornDateNotPast)
	assert.ErrorIs(t, BornDateValidator(today.AddDays(1), today), ErrBornDateNotPast)
	assert.NoError(t, BornDateValidator(today.AddDays(-1), today))
}

func TestContactSchemaBinding(t *testing.T) {
	require.NoError(t, Register())

	valid := ContactSchema{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Phone:     "012 234 56 78",
	}
	assert.NoError(t, binding.Validator.ValidateStruct(&valid))

	tests := []struct {
		name   string
		mutate func(*ContactSchema)
		want   string
	}{
		{"missing first name", func(s *ContactSchema) { s.FirstName = "" }, "first_name is required"},
		{"bad email", func(s *ContactSchema) { s.Email = "nope" }, "email must be a valid email address"},
		{"bad phone", func(s *ContactSchema) { s.Phone = "call me" }, "phone must be a phone number"},
		{"long phone", func(s *ContactSchema) { s.Phone = "01234567890123" }, "phone must be at most 13 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			err := binding.Validator.ValidateStruct(&s)
			require.Error(t, err)
			assert.Equal(t, tt.want, Describe(err))
		})
	}
}

func TestContactUpdateSchemaRequiresDelete(t *testing.T) {
	require.NoError(t, Register())

	s := ContactUpdateSchema{ContactSchema: ContactSchema{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
	}}

	err := binding.Validator.ValidateStruct(&s)
	require.Error(t, err)
	assert.Equal(t, "delete is required", Describe(err))
}

func TestContactsPageBinding(t *testing.T) {
	require.NoError(t, Register())

	assert.NoError(t, binding.Validator.ValidateStruct(&ContactsPage{Limit: 10}))
	assert.NoError(t, binding.Validator.ValidateStruct(&ContactsPage{Limit: 500, Offset: 20}))

	err := binding.Validator.ValidateStruct(&ContactsPage{Limit: 9})
	require.Error(t, err)
	assert.Equal(t, "limit must be at least 10", Describe(err))

	err = binding.Validator.ValidateStruct(&ContactsPage{Limit: 10, Offset: -1})
	require.Error(t, err)
	assert.Equal(t, "offset must be at least 0", Describe(err))
}

func fileHeader(t *testing.T, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", "upload")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func TestAvatarValidator(t *testing.T) {
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

	code, _, _, err := AvatarValidator(nil, 1024)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.ErrorIs(t, err, ErrNoFile)

	code, data, mime, err := AvatarValidator(fileHeader(t, gif), 1024)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "image/gif", mime)
	assert.Equal(t, gif, data)

	code, _, _, err = AvatarValidator(fileHeader(t, gif), 4)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	code, _, _, err = AvatarValidator(fileHeader(t, []byte("plain text, not a picture")), 1024)
	assert.Equal(t, http.StatusUnsupportedMediaType, code)
	assert.ErrorIs(t, err, ErrFileTypeUnsupported)
}

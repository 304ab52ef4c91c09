package app

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BornDate  string `json:"born_date"`
}

func contactBody(first, email, born string) string {
	return fmt.Sprintf(`{"first_name":%q,"last_name":"Doe","email":%q,"phone":"012 234 5678","born_date":%q}`, first, email, born)
}

func (ta *testApp) createContact(t *testing.T, token, body string) contactResponse {
	t.Helper()

	w := ta.do(http.MethodPost, "/contacts/", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decode[contactResponse](t, w)
}

func TestContactsRequireAuth(t *testing.T) {
	ta := newTestApp(t)

	for _, path := range []string{"/contacts/", "/contacts/1", "/contacts/search?query=a", "/contacts/birthdays"} {
		w := ta.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestContactCreateAndFetch(t *testing.T) {
	ta := newTestApp(t)
	token := ta.confirmedUser(t, "alice@example.com")

	created := ta.createContact(t, token, contactBody("John", "john@example.com", "1990-05-01"))
	assert.NotZero(t, created.ID)

	w := ta.do(http.MethodGet, fmt.Sprintf("/contacts/%d", created.ID), "", token)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[contactResponse](t, w)
	assert.Equal(t, created, got)
	assert.Equal(t, "John", got.FirstName)
	assert.Equal(t, "Doe", got.LastName)
	assert.Equal(t, "john@example.com", got.Email)
	assert.Equal(t, "012 234 5678", got.Phone)
	assert.Equal(t, "1990-05-01", got.BornDate)

	w = ta.do(http.MethodGet, "/contacts/", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]contactResponse](t, w), 1)
}

func TestContactCreateValidation(t *testing.T) {
	ta := newTestApp(t)
	token := ta.confirmedUser(t, "alice@example.com")

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing first name", contactBody("", "john@example.com", "1990-05-01"), "first_name is required"},
		{"bad email", contactBody("John", "nope", "1990-05-01"), "email must be a valid email address"},
		{"future born date", contactBody("John", "john@example.com", "2030-01-01"), "born_date must be in the past"},
		{"born today", contactBody("John", "john@example.com", "2024-06-10"), "born_date must be in the past"},
		{"bad date", contactBody("John", "john@example.com", "01/05/1990"), "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ta.do(http.MethodPost, "/contacts/", tt.body, token)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.Equal(t, tt.want, decode[map[string]any](t, w)["error"])
		})
	}
}

func TestContactCreateConflict(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.confirmedUser(t, "alice@example.com")
	bob := ta.confirmedUser(t, "bob@example.com")

	ta.createContact(t, alice, contactBody("John", "john@example.com", "1990-05-01"))

	w := ta.do(http.MethodPost, "/contacts/", contactBody("Johnny", "john@example.com", "1990-05-01"), alice)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Another user may know the same person
	ta.createContact(t, bob, contactBody("John", "john@example.com", "1990-05-01"))
}

func TestContactListPagination(t *testing.T) {
	ta := newTestApp(t)
	token := ta.confirmedUser(t, "alice@example.com")

	for i := 0; i < 12; i++ {
		ta.createContact(t, token, contactBody("John", fmt.Sprintf("john%d@example.com", i), "1990-05-01"))
	}

	w := ta.do(http.MethodGet, "/contacts/", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]contactResponse](t, w), 10)

	w = ta.do(http.MethodGet, "/contacts/?limit=10&offset=10", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]contactResponse](t, w), 2)

	w = ta.do(http.MethodGet, "/contacts/?offset=50", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	for _, q := range []string{"limit=5", "limit=501", "offset=-1", "limit=abc"} {
		w = ta.do(http.MethodGet, "/contacts/?"+q, "", token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, q)
	}
}

func TestContactIsolation(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.confirmedUser(t, "alice@example.com")
	bob := ta.confirmedUser(t, "bob@example.com")

	c := ta.createContact(t, alice, contactBody("John", "john@example.com", "1990-05-01"))
	path := fmt.Sprintf("/contacts/%d", c.ID)

	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodGet, path, "", bob).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodPut, path,
		`{"first_name":"Evil","last_name":"Bob","email":"evil@example.com","born_date":"1990-05-01","delete":false}`, bob).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodDelete, path, "", bob).Code)

	w := ta.do(http.MethodGet, "/contacts/", "", bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]contactResponse](t, w))

	w = ta.do(http.MethodGet, path, "", alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "John", decode[contactResponse](t, w).FirstName)
}

func TestContactEdit(t *testing.T) {
	ta := newTestApp(t)
	token := ta.confirmedUser(t, "alice@example.com")

	c := ta.createContact(t, token, contactBody("John", "john@example.com", "1990-05-01"))
	path := fmt.Sprintf("/contacts/%d", c.ID)

	w := ta.do(http.MethodPut, path, contactBody("Jane", "jane@example.com", "1991-02-03"), token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "delete is required", decode[map[string]any](t, w)["error"])

	w = ta.do(http.MethodPut, path,
		`{"first_name":"Jane","last_name":"Roe","email":"jane@example.com","phone":"","born_date":"1991-02-03","delete":false}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[contactResponse](t, w)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "Roe", got.LastName)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Empty(t, got.Phone)
	assert.Equal(t, "1991-02-03", got.BornDate)

	w = ta.do(http.MethodPut, "/contacts/999",
		`{"first_name":"Jane","last_name":"Roe","email":"jane@example.com","born_date":"1991-02-03","delete":false}`, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ta.do(http.MethodPut, "/contacts/abc", "{}", token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestContactSoftDelete(t *testing.T) {
	ta := newTestApp(t)
	token := ta.confirmedUser(t, "alice@example.com")

	c := ta.createContact(t, token, contactBody("John", "john@example.com", "1990-05-01"))
	path := fmt.Sprintf("/contacts/%d", c.ID)

	w := ta.do(http.MethodPut, path,
		`{"first_name":"John","last_name":"Doe","email":"john@example.com","born_date":"1990-05-01","delete":true}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodGet, path, "", token).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodGet, "/contacts/search?query=john", "", token).Code)

	w = ta.do(http.MethodGet, "/contacts/", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]contactResponse](t, w))

	// A hidden contact doesn't keep its email taken
	again := ta.createContact(t, token, contactBody("John", "john@example.com", "1990-05-01"))
	assert.NotEqual(t, c.ID, again.ID)
}

func TestContactDelete(t *testing.T) {
	ta := newTestApp(t)
	token := ta.confirmedUser(t, "alice@example.com")

	c := ta.createContact(t, token, contactBody("John", "john@example.com", "1990-05-01"))
	path := fmt.Sprintf("/contacts/%d", c.ID)

	w := ta.do(http.MethodDelete, path, "", token)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodGet, path, "", token).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodDelete, path, "", token).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, ta.do(http.MethodDelete, "/contacts/0", "", token).Code)
}

func TestContactSearch(t *testing.T) {
	ta := newTestApp(t)
	token := ta.confirmedUser(t, "alice@example.com")

	ta.createContact(t, token, contactBody("John", "a@example.com", "1990-05-01"))
	ta.createContact(t, token, `{"first_name":"Mary","last_name":"Johnson","email":"b@example.com","born_date":"1990-05-01"}`)
	ta.createContact(t, token, `{"first_name":"Bob","last_name":"Smith","email":"JOHN.b@example.com","born_date":"1990-05-01"}`)
	ta.createContact(t, token, `{"first_name":"Eve","last_name":"Adams","email":"eve@example.com","born_date":"1990-05-01"}`)

	w := ta.do(http.MethodGet, "/contacts/search?query=john", "", token)
	require.Equal(t, http.StatusOK, w.Code)

	found := decode[[]contactResponse](t, w)
	require.Len(t, found, 3)
	for _, c := range found {
		assert.NotEqual(t, "Eve", c.FirstName)
	}

	w = ta.do(http.MethodGet, "/contacts/search?query=zzz", "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ta.do(http.MethodGet, "/contacts/search", "", token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestContactBirthdays(t *testing.T) {
	ta := newTestApp(t)
	token := ta.confirmedUser(t, "alice@example.com")

	w := ta.do(http.MethodGet, "/contacts/birthdays", "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Born dates have to be in the past when created
	ta.now = time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)

	ta.createContact(t, token, contactBody("Today", "today@example.com", "2024-06-10"))
	ta.createContact(t, token, contactBody("Edge", "edge@example.com", "2024-06-17"))
	ta.createContact(t, token, contactBody("Late", "late@example.com", "2024-06-18"))
	ta.createContact(t, token, contactBody("Past", "past@example.com", "2024-06-09"))
	ta.createContact(t, token, contactBody("OtherYear", "other@example.com", "1990-06-12"))

	ta.now = time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)

	w = ta.do(http.MethodGet, "/contacts/birthdays", "", token)
	require.Equal(t, http.StatusOK, w.Code)

	var names []string
	for _, c := range decode[[]contactResponse](t, w) {
		names = append(names, c.FirstName)
	}

	assert.ElementsMatch(t, []string{"Today", "Edge"}, names)
}

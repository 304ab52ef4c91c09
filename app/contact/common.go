// Package contact holds the address book endpoints. Every handler runs
// behind the JWT middleware and only touches the current user's contacts.
package contact

import (
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/pkg/validators"
	"strconv"

	"github.com/gin-gonic/gin"
)

// contactID parses the :id path parameter, IDs start at 1
func contactID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		return 0, false
	}

	return uint(id), true
}

func inputOf(s *validators.ContactSchema) repository.ContactInput {
	return repository.ContactInput{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Phone:     s.Phone,
		BornDate:  s.BornDate,
	}
}

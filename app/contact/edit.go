package contact

import (
	"bitwise74/contacts-api/internal"
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/pkg/middleware"
	"bitwise74/contacts-api/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContactEdit replaces every field of a contact. Setting delete hides
// the contact until the purge job removes it.
func ContactEdit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := contactID(c)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "Invalid contact ID",
			"requestID": requestID,
		})
		return
	}

	var body validators.ContactUpdateSchema
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     validators.Describe(err),
			"requestID": requestID,
		})
		return
	}

	if err := validators.ContactValidator(&body.ContactSchema, d.Today()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	in := inputOf(&body.ContactSchema)
	in.Deleted = *body.Delete

	contact, err := repository.UpdateContact(c.Request.Context(), d.DB, middleware.CurrentUser(c), id, in)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "A contact with this email already exists",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update contact", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if contact == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Contact not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, contact)
}

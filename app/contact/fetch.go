package contact

import (
	"bitwise74/contacts-api/internal"
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/pkg/middleware"
	"bitwise74/contacts-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactFetchBulk returns a page of the user's contacts
func ContactFetchBulk(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var page validators.ContactsPage
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     validators.Describe(err),
			"requestID": requestID,
		})
		return
	}

	contacts, err := repository.GetContacts(c.Request.Context(), d.DB, middleware.CurrentUser(c), page.Limit, page.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list contacts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, contacts)
}

func ContactFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := contactID(c)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "Invalid contact ID",
			"requestID": requestID,
		})
		return
	}

	contact, err := repository.GetContact(c.Request.Context(), d.DB, middleware.CurrentUser(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch contact", zap.Error(err), zap.String("requestID", requestID))
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

package contact

import (
	"bitwise74/contacts-api/internal"
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ContactDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := contactID(c)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "Invalid contact ID",
			"requestID": requestID,
		})
		return
	}

	contact, err := repository.DeleteContact(c.Request.Context(), d.DB, middleware.CurrentUser(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete contact", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if contact == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Contact not found",
			"requestID": requestID,
		})
		return
	}

	c.Status(http.StatusNoContent)
}

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

// ContactSearch matches the query against names and email, ignoring case
func ContactSearch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var q validators.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     validators.Describe(err),
			"requestID": requestID,
		})
		return
	}

	contacts, err := repository.SearchContacts(c.Request.Context(), d.DB, middleware.CurrentUser(c), q.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to search contacts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if len(contacts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "No contacts found.",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// ContactBirthdays lists contacts born within the next 7 days
func ContactBirthdays(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	contacts, err := repository.UpcomingBirthdays(c.Request.Context(), d.DB, middleware.CurrentUser(c), d.Today())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch upcoming birthdays", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if len(contacts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "No birthdays in the next 7 days.",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, contacts)
}

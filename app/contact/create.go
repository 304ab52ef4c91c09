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

func ContactCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var body validators.ContactSchema
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     validators.Describe(err),
			"requestID": requestID,
		})
		return
	}

	if err := validators.ContactValidator(&body, d.Today()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	contact, err := repository.CreateContact(c.Request.Context(), d.DB, middleware.CurrentUser(c), inputOf(&body))
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

		zap.L().Error("Failed to create contact", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, contact)
}

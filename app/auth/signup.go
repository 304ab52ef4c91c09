package auth

import (
	"bitwise74/contacts-api/internal"
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Signup(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var body validators.UserSchema
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     validators.Describe(err),
			"requestID": requestID,
		})
		return
	}

	if err := validators.UserValidator(&body); err != nil {
		zap.L().Debug("Invalid signup body", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	ctx := c.Request.Context()

	existing, err := repository.GetUserByEmail(ctx, d.DB, body.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Account already exists",
			"requestID": requestID,
		})
		return
	}

	hash, err := d.Argon.GenerateFromPassword(body.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user, err := repository.CreateUser(ctx, d.DB, repository.UserInput{
		Username: body.Username,
		Email:    body.Email,
		Password: hash,
	}, d.Avatars)
	if err != nil {
		// Lost a race with another signup for the same email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "Account already exists",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	sendConfirmation(c, d, user)

	c.JSON(http.StatusCreated, user)
}

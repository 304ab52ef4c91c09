package auth

import (
	"bitwise74/contacts-api/internal"
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/pkg/middleware"
	"bitwise74/contacts-api/pkg/validators"
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// UpdateAvatar replaces the user's avatar with an uploaded image
func UpdateAvatar(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	user := middleware.CurrentUser(c)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	code, data, mime, err := validators.AvatarValidator(fh, d.MaxAvatarSize)
	if err != nil {
		msg := err.Error()
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to read avatar", zap.Error(err), zap.String("requestID", requestID))
			msg = "Internal server error"
		}

		c.JSON(code, gin.H{
			"error":     msg,
			"requestID": requestID,
		})
		return
	}

	ctx := c.Request.Context()
	key := "avatars/" + strconv.FormatUint(uint64(user.ID), 10)

	url, err := d.Storage.PutAvatar(ctx, key, mime, bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to upload avatar", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user, err = repository.UpdateAvatar(ctx, d.DB, user, url)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save avatar", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, user)
}

package auth

import (
	"bitwise74/contacts-api/internal"
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ConfirmedEmail(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	email, err := d.Tokens.EmailFromToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "Invalid token for email verification",
			"requestID": requestID,
		})

		zap.L().Debug("Rejected email token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ctx := c.Request.Context()

	user, err := repository.GetUserByEmail(ctx, d.DB, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Verification error",
			"requestID": requestID,
		})
		return
	}

	if user.Confirmed {
		c.JSON(http.StatusOK, gin.H{"message": "Your email is already confirmed"})
		return
	}

	if err := repository.ConfirmedEmail(ctx, d.DB, email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to confirm email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email confirmed"})
}

// RequestEmail sends a new confirmation mail. Unknown addresses get the
// same answer as known ones.
func RequestEmail(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var body validators.RequestEmail
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     validators.Describe(err),
			"requestID": requestID,
		})
		return
	}

	user, err := repository.GetUserByEmail(c.Request.Context(), d.DB, body.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user != nil {
		if user.Confirmed {
			c.JSON(http.StatusOK, gin.H{"message": "Your email is already confirmed"})
			return
		}

		sendConfirmation(c, d, user)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Check your email for confirmation."})
}

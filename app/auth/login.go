package auth

import (
	"bitwise74/contacts-api/internal"
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Login(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var form validators.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     validators.Describe(err),
			"requestID": requestID,
		})
		return
	}

	ctx := c.Request.Context()

	user, err := repository.GetUserByEmail(ctx, d.DB, form.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid email",
			"requestID": requestID,
		})
		return
	}

	if !user.Confirmed {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Email not confirmed",
			"requestID": requestID,
		})
		return
	}

	ok, err := d.Argon.VerifyPasswd(form.Password, user.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid password",
			"requestID": requestID,
		})
		return
	}

	pair, err := issueTokens(ctx, d, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue tokens", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, pair)
}

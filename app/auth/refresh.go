package auth

import (
	"bitwise74/contacts-api/internal"
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RefreshToken trades the stored refresh token for a new pair. A token
// that doesn't match the stored one revokes the session.
func RefreshToken(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	token, ok := middleware.BearerToken(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Not authenticated",
			"requestID": requestID,
		})
		return
	}

	email, err := d.Tokens.DecodeRefreshToken(token)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Could not validate credentials",
			"requestID": requestID,
		})

		zap.L().Debug("Rejected refresh token", zap.Error(err), zap.String("requestID", requestID))
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
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Could not validate credentials",
			"requestID": requestID,
		})
		return
	}

	if user.RefreshToken == nil || *user.RefreshToken != token {
		if err := repository.UpdateToken(ctx, d.DB, user, nil); err != nil {
			zap.L().Error("Failed to revoke refresh token", zap.Error(err), zap.String("requestID", requestID))
		}

		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid refresh token",
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

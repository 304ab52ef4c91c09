package middleware

import (
	"bitwise74/contacts-api/internal/model"
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/pkg/security"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(c *gin.Context) (string, bool) {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// NewJWTMiddleware resolves the current user from a bearer access token.
// The user is stored as "user" and its ID as "userID".
func NewJWTMiddleware(d *gorm.DB, tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		tokenStr, ok := BearerToken(c)
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Not authenticated",
				"requestID": requestID,
			})
			return
		}

		email, err := tokens.DecodeAccessToken(tokenStr)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Could not validate credentials",
				"requestID": requestID,
			})

			zap.L().Debug("Rejected access token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		user, err := repository.GetUserByEmail(c.Request.Context(), d, email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to load current user", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		// Token outlived its account
		if user == nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Could not validate credentials",
				"requestID": requestID,
			})
			return
		}

		c.Set("user", user)
		c.Set("userID", strconv.FormatUint(uint64(user.ID), 10))
		c.Next()
	}
}

// CurrentUser returns the user set by the JWT middleware
func CurrentUser(c *gin.Context) *model.User {
	return c.MustGet("user").(*model.User)
}

// Package auth holds the account endpoints: signup, login, token
// refresh, email confirmation and the current user
package auth

import (
	"bitwise74/contacts-api/internal"
	"bitwise74/contacts-api/internal/model"
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/internal/service"
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// issueTokens mints a new token pair and stores the refresh token,
// revoking the previous one
func issueTokens(ctx context.Context, d *internal.Deps, u *model.User) (*tokenPair, error) {
	access, err := d.Tokens.CreateAccessToken(u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token, %w", err)
	}

	refresh, err := d.Tokens.CreateRefreshToken(u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token, %w", err)
	}

	if err := repository.UpdateToken(ctx, d.DB, u, &refresh); err != nil {
		return nil, err
	}

	return &tokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// sendConfirmation queues a confirmation mail for u. Failures are only
// logged, the caller's response doesn't depend on delivery.
func sendConfirmation(c *gin.Context, d *internal.Deps, u *model.User) {
	requestID := c.MustGet("requestID").(string)

	token, err := d.Tokens.CreateEmailToken(u.Email)
	if err != nil {
		zap.L().Warn("Failed to create email token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = d.Mail.Dispatch(c.Request.Context(), service.ConfirmationMail{
		Email:    u.Email,
		Username: u.Username,
		Host:     baseURL(c),
		Token:    token,
	})
	if err != nil {
		zap.L().Warn("Failed to queue confirmation mail", zap.Error(err), zap.String("requestID", requestID))
	}
}

// baseURL is the scheme and host the client reached us through
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	return scheme + "://" + c.Request.Host + "/"
}

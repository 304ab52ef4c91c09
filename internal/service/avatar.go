package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrNoAvatar = errors.New("no avatar registered for this email")

// Gravatar derives avatar URLs from email addresses. With verification
// on it asks the service whether the picture exists before using it.
type Gravatar struct {
	BaseURL string
	Verify  bool
	Client  *http.Client
}

func NewGravatar(verify bool) *Gravatar {
	return &Gravatar{
		BaseURL: "https://www.gravatar.com/avatar/",
		Verify:  verify,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *Gravatar) AvatarURL(ctx context.Context, email string) (string, error) {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	url := strings.TrimSuffix(g.BaseURL, "/") + "/" + hex.EncodeToString(sum[:])

	if !g.Verify {
		return url, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url+"?d=404", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build gravatar request, %w", err)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach gravatar, %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return url, nil
	case http.StatusNotFound:
		return "", ErrNoAvatar
	default:
		return "", fmt.Errorf("unexpected gravatar status %d", resp.StatusCode)
	}
}

// AvatarStore keeps uploaded avatars and tells where they're served from
type AvatarStore interface {
	PutAvatar(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

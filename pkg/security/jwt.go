package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Scope tells apart the three kinds of tokens signed with the same secret
type Scope string

const (
	ScopeAccess  Scope = "access_token"
	ScopeRefresh Scope = "refresh_token"
	ScopeEmail   Scope = "email_token"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidScope = errors.New("invalid token scope")
)

type Claims struct {
	jwt.RegisteredClaims
	Scope Scope `json:"scope"`
}

type TokenOptions struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	EmailTTL   time.Duration
}

// TokenManager issues and verifies HS256 tokens whose subject is the
// user's email
type TokenManager struct {
	secret []byte
	ttls   map[Scope]time.Duration
	now    func() time.Time
}

func NewTokenManager(o TokenOptions) *TokenManager {
	return &TokenManager{
		secret: []byte(o.Secret),
		ttls: map[Scope]time.Duration{
			ScopeAccess:  o.AccessTTL,
			ScopeRefresh: o.RefreshTTL,
			ScopeEmail:   o.EmailTTL,
		},
		now: time.Now,
	}
}

func (m *TokenManager) CreateAccessToken(email string) (string, error) {
	return m.create(email, ScopeAccess)
}

func (m *TokenManager) CreateRefreshToken(email string) (string, error) {
	return m.create(email, ScopeRefresh)
}

func (m *TokenManager) CreateEmailToken(email string) (string, error) {
	return m.create(email, ScopeEmail)
}

// DecodeAccessToken returns the email of a valid access token
func (m *TokenManager) DecodeAccessToken(token string) (string, error) {
	return m.decode(token, ScopeAccess)
}

// DecodeRefreshToken returns the email of a valid refresh token
func (m *TokenManager) DecodeRefreshToken(token string) (string, error) {
	return m.decode(token, ScopeRefresh)
}

// EmailFromToken returns the email a confirmation token was issued for
func (m *TokenManager) EmailFromToken(token string) (string, error) {
	return m.decode(token, ScopeEmail)
}

func (m *TokenManager) create(email string, scope Scope) (string, error) {
	now := m.now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttls[scope])),
		},
		Scope: scope,
	})

	s, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s, %w", scope, err)
	}

	return s, nil
}

func (m *TokenManager) decode(token string, scope Scope) (string, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w, %w", ErrInvalidToken, err)
	}

	if !t.Valid {
		return "", ErrInvalidToken
	}

	if claims.Scope != scope {
		return "", ErrInvalidScope
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

package internal

import (
	"bitwise74/contacts-api/internal/model"
	"bitwise74/contacts-api/internal/repository"
	"bitwise74/contacts-api/internal/service"
	"bitwise74/contacts-api/pkg/ratelimit"
	"bitwise74/contacts-api/pkg/security"
	"time"

	"gorm.io/gorm"
)

// Deps is handed to every handler
type Deps struct {
	DB      *gorm.DB
	Argon   *security.ArgonHash
	Tokens  *security.TokenManager
	Mail    service.MailDispatcher
	Avatars repository.AvatarSource
	Storage service.AvatarStore // nil when avatar uploads are disabled
	Limiter ratelimit.Limiter   // nil disables rate limiting

	MaxAvatarSize int64
	// Now returns the current time, replaced in tests
	Now func() time.Time
}

// Today is the current calendar date
func (d *Deps) Today() model.Date {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}

	return model.DateOf(now())
}

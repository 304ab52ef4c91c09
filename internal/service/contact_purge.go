package service

import (
	"bitwise74/contacts-api/internal/repository"
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContactPurge schedules the hard delete of contacts that were flagged
// as deleted more than after ago. The returned scheduler is running,
// stop it on shutdown.
func ContactPurge(schedule string, after time.Duration, db *gorm.DB) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		PurgeContacts(context.Background(), db, after)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q, %w", schedule, err)
	}

	c.Start()
	zap.L().Debug("Contact purge attached", zap.String("schedule", schedule), zap.Duration("after", after))

	return c, nil
}

func PurgeContacts(ctx context.Context, db *gorm.DB, after time.Duration) int64 {
	n, err := repository.PurgeDeletedContacts(ctx, db, time.Now().Add(-after))
	if err != nil {
		zap.L().Error("Failed to purge deleted contacts", zap.Error(err))
		return 0
	}

	if n > 0 {
		zap.L().Debug("Purged deleted contacts", zap.Int64("count", n))
	}

	return n
}

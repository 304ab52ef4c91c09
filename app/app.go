package app

import (
	"bitwise74/contacts-api/aws"
	"bitwise74/contacts-api/db"
	"bitwise74/contacts-api/internal"
	"bitwise74/contacts-api/internal/service"
	"bitwise74/contacts-api/pkg/ratelimit"
	"bitwise74/contacts-api/pkg/security"
	"bitwise74/contacts-api/pkg/validators"
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

// App owns the router and every long lived collaborator behind it
type App struct {
	Router *gin.Engine
	Deps   *internal.Deps

	redis  *redis.Client
	worker *service.MailWorker
	purge  *cron.Cron
}

// New builds the application from the loaded configuration
func New(ctx context.Context) (*App, error) {
	if err := validators.Register(); err != nil {
		return nil, err
	}

	a := &App{}

	conn, err := db.New(db.Options{
		Driver: v.GetString("database.driver"),
		DSN:    v.GetString("database.dsn"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	d := &internal.Deps{
		DB:    conn,
		Argon: security.New(),
		Tokens: security.NewTokenManager(security.TokenOptions{
			Secret:     v.GetString("jwt.secret"),
			AccessTTL:  v.GetDuration("jwt.access_ttl"),
			RefreshTTL: v.GetDuration("jwt.refresh_ttl"),
			EmailTTL:   v.GetDuration("jwt.email_ttl"),
		}),
		Avatars:       service.NewGravatar(v.GetBool("avatar.verify")),
		MaxAvatarSize: v.GetInt64("storage.max_avatar_size") << 20,
	}
	a.Deps = d

	if addr := v.GetString("redis.addr"); addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		})
	}

	if err := a.setupLimiter(); err != nil {
		a.Close()
		return nil, err
	}

	if err := a.setupMail(); err != nil {
		a.Close()
		return nil, err
	}

	if v.GetBool("storage.enabled") {
		s3, err := aws.NewS3(ctx, aws.S3Options{
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			PublicURL:       v.GetString("storage.public_url"),
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}

		d.Storage = s3
	}

	a.purge, err = service.ContactPurge(
		v.GetString("contacts.purge_schedule"),
		v.GetDuration("contacts.purge_after"),
		conn,
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Router = NewRouter(d, RouterOptions{
		Origins: origins(v.GetStringSlice("host.cors")),
	})

	return a, nil
}

// origins accepts both TOML arrays and comma separated env values
func origins(raw []string) []string {
	var out []string

	for _, r := range raw {
		for _, o := range strings.Split(r, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}

	return out
}

func (a *App) setupLimiter() error {
	requests := v.GetInt("security.rate_limit.requests")
	if requests <= 0 {
		zap.L().Warn("Rate limiting disabled")
		return nil
	}

	period := v.GetDuration("security.rate_limit.period")

	switch v.GetString("security.rate_limit.store") {
	case "redis":
		l, err := ratelimit.NewRedis(a.redis, requests, period)
		if err != nil {
			return err
		}

		a.Deps.Limiter = l
	default:
		l, err := ratelimit.NewMemory(requests, period)
		if err != nil {
			return err
		}

		a.Deps.Limiter = l
	}

	return nil
}

func (a *App) setupMail() error {
	var mailer service.Mailer = service.LogMailer{}
	if host := v.GetString("mail.host"); host != "" {
		mailer = service.NewSMTPMailer(service.SMTPOptions{
			Host:     host,
			Port:     v.GetInt("mail.port"),
			Username: v.GetString("mail.username"),
			Password: v.GetString("mail.password"),
			From:     v.GetString("mail.from"),
			FromName: v.GetString("mail.from_name"),
		})
	}

	if v.GetString("mail.queue") != "redis" {
		a.Deps.Mail = service.NewLocalMailQueue(mailer)
		return nil
	}

	opt := asynq.RedisClientOpt{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}

	a.Deps.Mail = service.NewAsynqMailQueue(opt)

	a.worker = service.NewMailWorker(opt, mailer)
	return a.worker.Start()
}

// Close stops background work and releases connections. Call it after
// the HTTP server has shut down.
func (a *App) Close() {
	if a.purge != nil {
		<-a.purge.Stop().Done()
	}

	if a.worker != nil {
		a.worker.Shutdown()
	}

	d := a.Deps
	if d.Mail != nil {
		if err := d.Mail.Close(); err != nil {
			zap.L().Error("Failed to close mail queue", zap.Error(err))
		}
	}

	if d.Limiter != nil {
		if err := d.Limiter.Close(); err != nil {
			zap.L().Error("Failed to close rate limiter", zap.Error(err))
		}
	}

	if a.redis != nil {
		a.redis.Close()
	}

	if sqlDB, err := d.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

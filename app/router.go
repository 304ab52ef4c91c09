// Package app wires the HTTP surface together
package app

import (
	"bitwise74/contacts-api/app/auth"
	"bitwise74/contacts-api/app/contact"
	"bitwise74/contacts-api/app/root"
	"bitwise74/contacts-api/internal"
	"bitwise74/contacts-api/pkg/middleware"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type RouterOptions struct {
	Origins []string
}

// NewRouter builds the engine serving every endpoint. Optional
// collaborators left nil in d switch their features off.
func NewRouter(d *internal.Deps, o RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     o.Origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(d.DB, d.Tokens)
	rateLimiter := middleware.RateLimiterMiddleware(d.Limiter)
	smallBody := middleware.BodySizeLimiter(1 << 20)

	// HEAD|GET /heartbeat			-> Used to check if the server is alive
	router.HEAD("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })
	router.GET("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })

	a := router.Group("/auth")
	{
		// POST /auth/signup			-> Registers a new user and mails a confirmation link
		a.POST("/signup", smallBody, func(c *gin.Context) { auth.Signup(c, d) })

		// POST /auth/login			-> Returns an access and refresh token pair
		a.POST("/login", smallBody, func(c *gin.Context) { auth.Login(c, d) })

		// GET /auth/refresh_token		-> Trades a refresh token for a new pair
		a.GET("/refresh_token", func(c *gin.Context) { auth.RefreshToken(c, d) })

		// GET /auth/confirmed_email/:token	-> Confirms the email the token was issued for
		a.GET("/confirmed_email/:token", func(c *gin.Context) { auth.ConfirmedEmail(c, d) })

		// POST /auth/request_email		-> Mails a new confirmation link
		a.POST("/request_email", smallBody, func(c *gin.Context) { auth.RequestEmail(c, d) })

		// GET /auth/me				-> Returns the current user
		a.GET("/me", rateLimiter, jwt, jsonContent, cachePerUser(30*time.Second), auth.Me)

		if d.Storage != nil {
			maxSize := d.MaxAvatarSize

			// PATCH /auth/avatar			-> Uploads a new avatar
			a.PATCH("/avatar", jwt, middleware.BodySizeLimiter(maxSize+(1<<20)), func(c *gin.Context) { auth.UpdateAvatar(c, d) })
		}
	}

	ct := router.Group("/contacts", rateLimiter, jwt, smallBody)
	{
		// GET /contacts/			-> Returns a page of the user's contacts
		ct.GET("/", func(c *gin.Context) { contact.ContactFetchBulk(c, d) })

		// GET /contacts/search			-> Searches contacts by name or email
		ct.GET("/search", func(c *gin.Context) { contact.ContactSearch(c, d) })

		// GET /contacts/birthdays		-> Returns contacts born in the next 7 days
		ct.GET("/birthdays", func(c *gin.Context) { contact.ContactBirthdays(c, d) })

		// GET /contacts/:id			-> Returns a contact by its ID
		ct.GET("/:id", func(c *gin.Context) { contact.ContactFetch(c, d) })

		// POST /contacts/			-> Creates a new contact
		ct.POST("/", func(c *gin.Context) { contact.ContactCreate(c, d) })

		// PUT /contacts/:id			-> Replaces a contact
		ct.PUT("/:id", func(c *gin.Context) { contact.ContactEdit(c, d) })

		// DELETE /contacts/:id			-> Deletes a contact for good
		ct.DELETE("/:id", func(c *gin.Context) { contact.ContactDelete(c, d) })
	}

	return router
}

// jsonContent sets the content type up front so cache hits, which don't
// replay headers, still carry it
func jsonContent(c *gin.Context) {
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Next()
}

// cachePerUser caches a response separately for every authenticated user.
// Headers aren't cached so every hit keeps its own X-Request-ID. Must run
// after the JWT middleware.
func cachePerUser(ttl time.Duration) gin.HandlerFunc {
	store := persist.NewMemoryStore(time.Minute)

	return cache.Cache(store, ttl, cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
		userID := c.GetString("userID")
		if userID == "" {
			return false, cache.Strategy{}
		}

		return true, cache.Strategy{
			CacheKey: c.Request.URL.Path + ":" + userID,
		}
	}), cache.WithoutHeader())
}

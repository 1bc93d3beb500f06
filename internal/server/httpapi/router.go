// Package httpapi exposes the user and post services over HTTP using gin.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cryptown/internal/logging"
	"github.com/dmitrijs2005/cryptown/internal/server/models"
	"github.com/dmitrijs2005/cryptown/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// UserService is the part of services.UserService the handlers use.
type UserService interface {
	Login(ctx context.Context, email, password string, meta services.LoginMeta) (*models.User, error)
	Signup(ctx context.Context, email, userName, password, confirmPassword string) (*models.User, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, userName, password, confirmPassword string) (*models.User, error)
	Logout(ctx context.Context, userID, token string) error
	IssueSession(ctx context.Context, userID string) (string, error)
	Authenticate(ctx context.Context, token string) (string, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// PostService is the part of services.PostService the handlers use.
type PostService interface {
	GetPosts(ctx context.Context, userID string) (models.PostTree, error)
	AddPost(ctx context.Context, userID, body string, datetime time.Time) (*models.Post, error)
	AddSubPost(ctx context.Context, userID, postID, body string, datetime time.Time) (*models.SubPost, error)
}

type Options struct {
	CORSOrigins []string
	// AuthRateLimit is requests per second per client IP on signup and
	// login. Zero disables the limiter.
	AuthRateLimit int
}

type API struct {
	users UserService
	posts PostService
	log   logging.Logger
}

// NewRouter builds the gin engine. ctx bounds the background cleanup of the
// rate limiter.
func NewRouter(ctx context.Context, users UserService, posts PostService, log logging.Logger, opts Options) *gin.Engine {
	a := &API{users: users, posts: posts, log: log}

	router := gin.New()
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.Use(
		gin.Recovery(),
		NewRequestIDMiddleware(),
		NewRequestLogMiddleware(log),
	)
	router.HandleMethodNotAllowed = true

	bearer := NewBearerAuthMiddleware(users)
	authLimit := func(c *gin.Context) { c.Next() }
	if opts.AuthRateLimit > 0 {
		authLimit = NewRateLimiter(ctx, RateLimiterConfig{
			RequestsPerSecond: opts.AuthRateLimit,
			Burst:             opts.AuthRateLimit * 2,
		}).Middleware()
	}

	m := router.Group("/api")
	{
		// HEAD /api/heartbeat		-> liveness probe
		m.HEAD("/heartbeat", a.Heartbeat)

		// GET /api/stats		-> user and session counts
		m.GET("/stats", a.Stats)
	}

	u := m.Group("/users")
	{
		// POST /api/users		-> signup
		u.POST("", authLimit, a.Signup)

		// POST /api/users/login	-> login, returns a session token
		u.POST("/login", authLimit, a.Login)

		// GET /api/users/profile	-> current user
		u.GET("/profile", bearer, a.Profile)

		// PATCH /api/users/profile	-> change username and/or password
		u.PATCH("/profile", bearer, a.UpdateProfile)

		// POST /api/users/logout	-> revoke the presented token
		u.POST("/logout", bearer, a.Logout)
	}

	p := m.Group("/posts", bearer)
	{
		// GET /api/posts		-> every post with its replies
		p.GET("", a.GetPosts)

		// POST /api/posts		-> new post
		p.POST("", a.AddPost)

		// POST /api/posts/replies	-> reply to a post
		p.POST("/replies", a.AddSubPost)
	}

	return router
}

func (a *API) Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (a *API) Stats(c *gin.Context) {
	stats, err := a.users.Stats(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reseau-local/reseau/internal/activity"
	"github.com/reseau-local/reseau/internal/feed"
	"github.com/reseau-local/reseau/internal/models"
	"github.com/reseau-local/reseau/internal/notify"
	"github.com/reseau-local/reseau/pkg/logging"
)

// FeedRanker builds feed pages
type FeedRanker interface {
	Rank(ctx context.Context, req feed.Request) (*feed.Page, error)
}

// ActivityService applies the viewer's social actions
type ActivityService interface {
	Follow(ctx context.Context, followerID, followedID string) error
	Unfollow(ctx context.Context, followerID, followedID string) error
	Followers(ctx context.Context, userID string, limit, offset int) ([]*models.User, error)
	Following(ctx context.Context, userID string, limit, offset int) ([]*models.User, error)
	RecordView(ctx context.Context, postID, viewerID string) error
	Like(ctx context.Context, postID, userID string) error
	Unlike(ctx context.Context, postID, userID string) error
	CreateComment(ctx context.Context, authorID string, in activity.CommentInput) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, actorID string) error
}

// NotificationService reads and updates the viewer's notifications
type NotificationService interface {
	List(ctx context.Context, recipientID string, limit int) ([]notify.Notification, error)
	Unread(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}

// HealthCheck pings one dependency
type HealthCheck func(ctx context.Context) error

// Deps are the services the router exposes
type Deps struct {
	Feed            FeedRanker
	Activity        ActivityService
	Notifications   NotificationService
	Checks          map[string]HealthCheck
	JWTSecret       string
	DefaultPageSize int
}

// Router sets up API routes
type Router struct {
	handler *JSONRPCHandler
	deps    Deps
	logger  *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(deps Deps) *Router {
	if deps.DefaultPageSize <= 0 {
		deps.DefaultPageSize = 10
	}
	router := &Router{
		handler: NewJSONRPCHandler(),
		deps:    deps,
		logger:  logging.WithComponent("api-router"),
	}

	// Register all API methods
	router.registerMethods()

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// JSON-RPC endpoint
	engine.POST("/rpc", r.viewerMiddleware, r.handler.Handle)

	api := engine.Group("/api", r.viewerMiddleware)
	api.GET("/posts/get", r.getPosts)

	authed := api.Group("", r.requireViewer)
	authed.POST("/posts/:id/view", r.recordView)
	authed.POST("/posts/:id/like", r.like)
	authed.DELETE("/posts/:id/like", r.unlike)

	authed.POST("/users/:id/follow", r.follow)
	authed.DELETE("/users/:id/follow", r.unfollow)
	api.GET("/users/:id/followers", r.listFollowers)
	api.GET("/users/:id/following", r.listFollowing)

	authed.POST("/comments", r.createComment)
	authed.DELETE("/comments/:id", r.deleteComment)

	authed.GET("/notifications", r.listNotifications)
	authed.GET("/notifications/unread", r.unreadNotifications)
	authed.POST("/notifications/:id/read", r.markNotificationRead)
}

// registerMethods registers all API methods
func (r *Router) registerMethods() {
	r.handler.RegisterMethod("feed.get_posts", r.rpcGetPosts)

	r.handler.RegisterMethod("follow.get_followers", r.rpcGetFollowers)
	r.handler.RegisterMethod("follow.get_following", r.rpcGetFollowing)

	r.handler.RegisterMethod("notify.account_notifications", r.rpcAccountNotifications)
	r.handler.RegisterMethod("notify.unread_notifications", r.rpcUnreadNotifications)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(r.deps.Checks))
	for name := range r.deps.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "OK"
	code := http.StatusOK
	checks := gin.H{}
	for _, name := range names {
		if err := r.deps.Checks[name](ctx); err != nil {
			r.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "DOWN"
			status = "DEGRADED"
			code = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "UP"
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": "reseau-api",
		"checks":  checks,
	})
}

// respondError writes the client-facing error and logs it once
func (r *Router) respondError(c *gin.Context, err error) {
	status, msg := classify(err)
	logger := logging.WithSpan(c.Request.Context(), r.logger).With(
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err))

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("Request failed")
	default:
		logger.Debug("Request rejected")
	}

	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}
	c.JSON(status, gin.H{"error": msg})
}

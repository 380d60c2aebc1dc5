package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reseau-local/reseau/internal/activity"
	"github.com/reseau-local/reseau/internal/db"
	"github.com/reseau-local/reseau/internal/feed"
	"github.com/reseau-local/reseau/internal/models"
)

// Listing bounds for follower and following lists
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (r *Router) recordView(c *gin.Context) {
	if err := r.deps.Activity.RecordView(c.Request.Context(), c.Param("id"), viewerID(c)); err != nil {
		r.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) like(c *gin.Context) {
	if err := r.deps.Activity.Like(c.Request.Context(), c.Param("id"), viewerID(c)); err != nil {
		r.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) unlike(c *gin.Context) {
	if err := r.deps.Activity.Unlike(c.Request.Context(), c.Param("id"), viewerID(c)); err != nil {
		r.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) follow(c *gin.Context) {
	if err := r.deps.Activity.Follow(c.Request.Context(), viewerID(c), c.Param("id")); err != nil {
		r.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) unfollow(c *gin.Context) {
	if err := r.deps.Activity.Unfollow(c.Request.Context(), viewerID(c), c.Param("id")); err != nil {
		r.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) listFollowers(c *gin.Context) {
	limit, offset, err := listBounds(c)
	if err != nil {
		r.respondError(c, err)
		return
	}
	users, err := r.deps.Activity.Followers(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": summaries(users)})
}

func (r *Router) listFollowing(c *gin.Context) {
	limit, offset, err := listBounds(c)
	if err != nil {
		r.respondError(c, err)
		return
	}
	users, err := r.deps.Activity.Following(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": summaries(users)})
}

func (r *Router) createComment(c *gin.Context) {
	var in activity.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		r.respondError(c, NewError(http.StatusBadRequest, "Corps de requête invalide"))
		return
	}
	comment, err := r.deps.Activity.CreateComment(c.Request.Context(), viewerID(c), in)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":          comment.ID,
		"authorId":    comment.AuthorID,
		"contentType": comment.ContentType,
		"contentId":   comment.ContentID,
		"text":        comment.Text,
		"createdAt":   comment.CreatedAt,
	})
}

func (r *Router) deleteComment(c *gin.Context) {
	if err := r.deps.Activity.DeleteComment(c.Request.Context(), c.Param("id"), viewerID(c)); err != nil {
		r.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type followListParams struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

func (p *followListParams) normalize() error {
	if p.UserID == "" {
		return NewError(http.StatusBadRequest, "Paramètre userId manquant")
	}
	if p.Limit <= 0 || p.Limit > maxListLimit {
		p.Limit = defaultListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return nil
}

// rpcGetFollowers handles follow.get_followers
func (r *Router) rpcGetFollowers(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p followListParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := p.normalize(); err != nil {
		return nil, err
	}
	users, err := r.deps.Activity.Followers(c.Request.Context(), p.UserID, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// rpcGetFollowing handles follow.get_following
func (r *Router) rpcGetFollowing(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p followListParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := p.normalize(); err != nil {
		return nil, err
	}
	users, err := r.deps.Activity.Following(c.Request.Context(), p.UserID, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func listBounds(c *gin.Context) (int, int, error) {
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		return 0, 0, err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return 0, 0, err
	}
	if limit <= 0 || limit > maxListLimit || offset < 0 {
		return 0, 0, NewError(http.StatusBadRequest, "Pagination invalide")
	}
	return limit, offset, nil
}

func summaries(users []*models.User) []feed.UserSummary {
	out := make([]feed.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, db.ToUserSummary(u))
	}
	return out
}

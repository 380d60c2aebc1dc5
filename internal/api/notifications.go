package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reseau-local/reseau/internal/notify"
)

func (r *Router) listNotifications(c *gin.Context) {
	limit, err := queryInt(c, "limit", notify.MaxLimit)
	if err != nil {
		r.respondError(c, err)
		return
	}
	if limit <= 0 || limit > notify.MaxLimit {
		r.respondError(c, NewError(http.StatusBadRequest, "Limite invalide"))
		return
	}
	items, err := r.deps.Notifications.List(c.Request.Context(), viewerID(c), limit)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (r *Router) unreadNotifications(c *gin.Context) {
	n, err := r.deps.Notifications.Unread(c.Request.Context(), viewerID(c))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (r *Router) markNotificationRead(c *gin.Context) {
	if err := r.deps.Notifications.MarkRead(c.Request.Context(), c.Param("id"), viewerID(c)); err != nil {
		r.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type notificationParams struct {
	Limit int `json:"limit"`
}

// rpcAccountNotifications handles notify.account_notifications for the viewer
func (r *Router) rpcAccountNotifications(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer := viewerID(c)
	if viewer == "" {
		return nil, errUnauthenticated
	}
	var p notificationParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Limit <= 0 || p.Limit > notify.MaxLimit {
		p.Limit = notify.MaxLimit
	}
	return r.deps.Notifications.List(c.Request.Context(), viewer, p.Limit)
}

// rpcUnreadNotifications handles notify.unread_notifications for the viewer
func (r *Router) rpcUnreadNotifications(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer := viewerID(c)
	if viewer == "" {
		return nil, errUnauthenticated
	}
	n, err := r.deps.Notifications.Unread(c.Request.Context(), viewer)
	if err != nil {
		return nil, err
	}
	return gin.H{"unread": n}, nil
}

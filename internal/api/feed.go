package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reseau-local/reseau/internal/feed"
)

// getPosts handles GET /api/posts/get
func (r *Router) getPosts(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		r.respondError(c, err)
		return
	}
	pageSize, err := queryInt(c, "pageSize", r.deps.DefaultPageSize)
	if err != nil {
		r.respondError(c, err)
		return
	}

	result, err := r.deps.Feed.Rank(c.Request.Context(), feed.Request{
		ViewerID: viewerID(c),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type getPostsParams struct {
	Page     *int `json:"page"`
	PageSize *int `json:"pageSize"`
}

// rpcGetPosts handles feed.get_posts
func (r *Router) rpcGetPosts(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p getPostsParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	req := feed.Request{ViewerID: viewerID(c), Page: 1, PageSize: r.deps.DefaultPageSize}
	if p.Page != nil {
		req.Page = *p.Page
	}
	if p.PageSize != nil {
		req.PageSize = *p.PageSize
	}
	return r.deps.Feed.Rank(c.Request.Context(), req)
}

// queryInt reads an integer query parameter. Absent means def; present
// but not an integer is a bad request. Range checks belong to the callee.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewError(http.StatusBadRequest, "Le paramètre "+name+" doit être un entier")
	}
	return v, nil
}

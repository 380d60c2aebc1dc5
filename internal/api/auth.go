package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const viewerKey = "viewerID"

// IssueToken signs an HS256 token identifying userID
func IssueToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(secret, raw string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

// viewerMiddleware identifies the viewer from a bearer token. Requests
// without a token proceed anonymously; a bad token is rejected.
func (r *Router) viewerMiddleware(c *gin.Context) {
	h := c.GetHeader("Authorization")
	if h == "" {
		c.Next()
		return
	}
	if !strings.HasPrefix(h, "Bearer ") {
		r.abort(c, errUnauthenticated)
		return
	}
	viewer, err := parseToken(r.deps.JWTSecret, strings.TrimSpace(h[len("Bearer "):]))
	if err != nil {
		r.logger.Debug("Rejected viewer token", zap.Error(err))
		r.abort(c, errUnauthenticated)
		return
	}
	c.Set(viewerKey, viewer)
	c.Next()
}

// requireViewer rejects anonymous requests
func (r *Router) requireViewer(c *gin.Context) {
	if viewerID(c) == "" {
		r.abort(c, errUnauthenticated)
		return
	}
	c.Next()
}

func viewerID(c *gin.Context) string {
	return c.GetString(viewerKey)
}

func (r *Router) abort(c *gin.Context, err error) {
	r.respondError(c, err)
	c.Abort()
}

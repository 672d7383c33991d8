package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userCtxKey = "user"

	// accessTokenParam carries the token on /ws, where browsers cannot set headers.
	accessTokenParam = "access_token"
)

var (
	errNoToken       = errors.New("missing Authorization header")
	errBadAuthHeader = errors.New("invalid Authorization header format")
)

// userMiddleware guards the REST API with a Bearer token.
func (h *Handler) userMiddleware(c *gin.Context) {
	token, err := bearerToken(c)
	h.authenticate(c, token, err)
}

// streamMiddleware guards /ws. It takes the Authorization header when the
// client can send one and the access_token query parameter otherwise.
func (h *Handler) streamMiddleware(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		if tok := c.Query(accessTokenParam); tok != "" {
			h.authenticate(c, tok, nil)
			return
		}
	}
	token, err := bearerToken(c)
	h.authenticate(c, token, err)
}

func (h *Handler) authenticate(c *gin.Context, token string, err error) {
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	username, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}
	c.Set(userCtxKey, username)
	c.Next()
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errNoToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", errBadAuthHeader
	}
	return token, nil
}

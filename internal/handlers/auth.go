package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/middleware"
	"github.com/kovin-ide/kovin/internal/services"
)

// AuthHandler exchanges a backend session for a dashboard session token
type AuthHandler struct {
	auth      *services.AuthStore
	jwtConfig middleware.JWTConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthStore, jwtSecret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		jwtConfig: middleware.JWTConfig{
			Secret:     jwtSecret,
			Expiration: ttl,
		},
	}
}

// CreateSessionRequest optionally carries the backend session cookie
type CreateSessionRequest struct {
	SessionCookie string `json:"sessionCookie"`
}

// CreateSession checks the backend session and issues a dashboard token
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	if req.SessionCookie != "" {
		h.auth.SetSessionCookie(req.SessionCookie)
	}

	if !h.auth.CheckAuth(c.Request.Context()) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    "Not authenticated",
			"code":     apperr.CodeNotAuthenticated,
			"loginUrl": h.auth.LoginURL(),
		})
		return
	}

	user := h.auth.User()
	resp := gin.H{"authenticated": true, "user": user}

	if h.jwtConfig.Secret != "" {
		token, err := middleware.GenerateToken(user.Sub, user.Email, h.jwtConfig)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
			return
		}
		c.SetCookie(middleware.SessionCookie, token, int(h.jwtConfig.Expiration.Seconds()), "/", "", false, true)
		resp["token"] = token
	}

	c.JSON(http.StatusOK, resp)
}

// Profile returns the cached backend user
func (h *AuthHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": h.auth.IsAuthenticated(),
		"user":          h.auth.User(),
	})
}

// DeleteSession signs out and returns the backend logout page
func (h *AuthHandler) DeleteSession(c *gin.Context) {
	logoutURL := h.auth.Logout()
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"logoutUrl": logoutURL})
}

// LoginURL returns the backend login page
func (h *AuthHandler) LoginURL(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"loginUrl": h.auth.LoginURL()})
}

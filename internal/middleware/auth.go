package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"trademind/internal/domain"
	"trademind/internal/modules/auth"
	"trademind/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID      = "user_id"
	ctxEmail       = "email"
	ctxAccessToken = "access_token"
	ctxProfile     = "profile"
	ctxRole        = "role"
)

// SessionValidator resolves a bearer token into a live session.
type SessionValidator interface {
	Session(ctx context.Context, token string) (*domain.Session, error)
}

type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
}

// Authenticate requires a bearer token naming a live session.
func Authenticate(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		session, err := sessions.Session(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrSessionExpired) {
				response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			} else {
				response.FromError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(ctxUserID, session.User.ID)
		c.Set(ctxEmail, session.User.Email)
		c.Set(ctxAccessToken, token)
		c.Next()
	}
}

// LoadProfile attaches the caller's profile and role. It must run after
// Authenticate.
func LoadProfile(profiles ProfileReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := profiles.GetProfile(c.Request.Context(), UserID(c))
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}
		if profile == nil {
			response.Error(c, http.StatusForbidden, "PROFILE_MISSING", "No profile for this account")
			c.Abort()
			return
		}
		c.Set(ctxProfile, profile)
		c.Set(ctxRole, string(profile.Role))
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func Email(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

func AccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}

// Profile returns the profile set by LoadProfile, or nil.
func Profile(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxProfile)
	if !ok {
		return nil
	}
	p, _ := v.(*domain.User)
	return p
}

func isUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

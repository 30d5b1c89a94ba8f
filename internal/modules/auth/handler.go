package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"trademind/internal/domain"
	"trademind/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RegistrationStore saves the extra signup form fields.
type RegistrationStore interface {
	SaveRegistrationDetails(ctx context.Context, userID string, d domain.RegistrationDetails) error
}

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service       *Service
	registrations RegistrationStore
}

func NewHandler(service *Service, registrations RegistrationStore) *Handler {
	return &Handler{
		service:       service,
		registrations: registrations,
	}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/session", h.Session)
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func toSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		AccessToken: s.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   s.ExpiresAt.Unix(),
		User:        toAccountPublic(&s.User),
	}
}

func toAccountPublic(a *domain.Account) AccountPublic {
	return AccountPublic{ID: a.ID, Email: a.Email, Metadata: a.Metadata}
}

func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	account, session, err := h.service.SignUp(c.Request.Context(), SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Metadata: map[string]string{domain.MetadataFullName: req.Name},
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.registrations != nil {
		details := domain.RegistrationDetails{
			Mobile:            req.Mobile,
			TradingExperience: req.TradingExperience,
			PreferredMarket:   req.PreferredMarket,
			CapitalSize:       req.CapitalSize,
		}
		if err := h.registrations.SaveRegistrationDetails(c.Request.Context(), account.ID, details); err != nil {
			log.Warn().Err(err).Str("user_id", account.ID).Msg("registration details failed to save")
		}
	}

	body := gin.H{"user": toAccountPublic(account)}
	if session != nil {
		body["session"] = toSessionResponse(session)
	} else {
		body["confirmation_required"] = true
	}
	response.Success(c, http.StatusCreated, body)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	session, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), BearerToken(c)); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Signed out"})
}

func (h *Handler) Session(c *gin.Context) {
	token := BearerToken(c)
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
		return
	}
	session, err := h.service.Session(c.Request.Context(), token)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
	case errors.Is(err, ErrEmailNotConfirmed):
		response.Error(c, http.StatusForbidden, "EMAIL_NOT_CONFIRMED", "Email not confirmed")
	case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Session expired or invalid")
	default:
		response.FromError(c, err)
	}
}

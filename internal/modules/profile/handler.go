package profile

import (
	"context"
	"net/http"

	"trademind/internal/domain"
	"trademind/internal/middleware"
	"trademind/internal/pkg/response"
	"trademind/internal/pkg/validator"
	"trademind/internal/repository"
	"trademind/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const defaultName = "Trader"

type Store interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	CreateProfile(ctx context.Context, userID, name, email string) (*domain.User, error)
	SaveRegistrationDetails(ctx context.Context, userID string, d domain.RegistrationDetails) error
}

var _ Store = (*repository.ProfileRepository)(nil)

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

type GateResponse struct {
	Profile    *domain.User   `json:"profile"`
	Screen     session.Screen `json:"screen"`
	View       session.View   `json:"view,omitempty"`
	Navigation []session.View `json:"navigation,omitempty"`
}

type RegistrationRequest struct {
	Mobile            string `json:"mobile" validate:"omitempty,min=7,max=20"`
	TradingExperience string `json:"tradingExperience" validate:"max=64"`
	PreferredMarket   string `json:"preferredMarket" validate:"max=64"`
	CapitalSize       string `json:"capitalSize" validate:"max=64"`
}

// RegisterRoutes expects Authenticate on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.GET("/me/gate", h.Me)
	rg.PUT("/me/registration", h.SaveRegistration)
}

// Me returns the caller's profile together with the access gate decision.
// A missing profile is created on the spot, as the login flow does.
func (h *Handler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	user, err := h.store.GetProfile(ctx, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if user == nil {
		log.Info().Str("user_id", userID).Msg("profile missing, creating")
		user, err = h.store.CreateProfile(ctx, userID, defaultName, middleware.Email(c))
		if err != nil {
			response.FromError(c, err)
			return
		}
	}

	decision := session.Decide(user, session.View(c.Query("view")))
	resp := GateResponse{Profile: user, Screen: decision.Screen, View: decision.View}
	if decision.Screen == session.ScreenApp {
		resp.Navigation = session.Navigation(user)
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) SaveRegistration(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid registration details", errs)
		return
	}

	d := domain.RegistrationDetails(req)
	if err := h.store.SaveRegistrationDetails(c.Request.Context(), middleware.UserID(c), d); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

package payment

import (
	"errors"
	"net/http"

	"trademind/internal/middleware"
	"trademind/internal/pkg/response"
	"trademind/internal/pkg/validator"
	"trademind/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes expects Authenticate and LoadProfile on rg. The
// payment wall sits in front of the app, so RequireApp must not be used here.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments/proof", h.GetProof)
	rg.POST("/payments/proof", h.SubmitProof)
}

func (h *Handler) SubmitProof(c *gin.Context) {
	var req SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid payment proof", errs)
		return
	}

	resp, err := h.service.SubmitProof(c.Request.Context(), middleware.Profile(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

func (h *Handler) GetProof(c *gin.Context) {
	resp, err := h.service.GetProof(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		response.Error(c, http.StatusNotFound, "PROFILE_MISSING", "No profile for this account")
	case errors.Is(err, ErrAlreadyActive), errors.Is(err, ErrAdminAccount):
		response.Error(c, http.StatusConflict, "PAYMENT_NOT_REQUIRED", err.Error())
	default:
		response.FromError(c, err)
	}
}

package admin

import (
	"errors"
	"net/http"

	"trademind/internal/middleware"
	"trademind/internal/pkg/response"
	"trademind/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group already guarded by Authenticate, LoadProfile
// and AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/profiles", h.ListProfiles)
	admin.GET("/profiles/:id", h.GetProfile)
	admin.POST("/profiles/:id/approve", h.Approve)
	admin.POST("/profiles/:id/reject", h.Reject)

	admin.GET("/stats", h.GetStats)
	// alias
	admin.GET("/statistics", h.GetStats)
}

func (h *Handler) ListProfiles(c *gin.Context) {
	var f ProfileListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if f.Status != "" && !f.Status.Valid() {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status filter")
		return
	}

	profiles := h.service.ListProfiles(c.Request.Context(), f)
	response.Success(c, http.StatusOK, gin.H{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	detail, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

func (h *Handler) Approve(c *gin.Context) {
	adminID := middleware.UserID(c)
	if adminID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.service.Approve(c.Request.Context(), c.Param("id"), adminID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Profile approved"})
}

func (h *Handler) Reject(c *gin.Context) {
	adminID := middleware.UserID(c)
	if adminID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req RejectProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "reason is required")
		return
	}

	if err := h.service.Reject(c.Request.Context(), c.Param("id"), adminID, req.Reason); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Profile rejected"})
}

func (h *Handler) GetStats(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.GetStatistics(c.Request.Context()))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Profile not found")
	case errors.Is(err, ErrReasonRequired):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrAlreadyActive), errors.Is(err, ErrAdminProfile):
		response.Error(c, http.StatusConflict, "REVIEW_ERROR", err.Error())
	default:
		response.FromError(c, err)
	}
}

package upload

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

// RegisterRoutes expects Authenticate on rg. Screenshots are needed before
// approval (payment proof), so the app gate is not applied.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.Upload)
	rg.GET("/uploads", h.List)
	rg.GET("/uploads/:id", h.Get)
	rg.DELETE("/uploads/:id", h.Delete)
}

// RegisterStatic serves stored files under the service's URL prefix.
func (h *Handler) RegisterStatic(r *gin.Engine) {
	r.Static(h.service.URLPrefix(), h.service.BaseDir())
}

func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "multipart field 'file' is required")
		return
	}

	u, err := h.service.Upload(c.Request.Context(), middleware.UserID(c), fh)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	u, err := h.service.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidMimeType):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, repository.ErrUploadNotFound), errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Upload not found")
	default:
		response.FromError(c, err)
	}
}

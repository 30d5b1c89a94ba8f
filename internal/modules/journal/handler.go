package journal

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"trademind/internal/middleware"
	"trademind/internal/pkg/response"
	"trademind/internal/pkg/validator"
	"trademind/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects Authenticate, LoadProfile and RequireApp on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	trades := rg.Group("/trades")
	{
		trades.GET("", h.ListTrades)
		trades.POST("", h.CreateTrade)
		trades.GET("/summary", h.Summary)
		trades.GET("/export", h.Export)
	}

	strategies := rg.Group("/strategies")
	{
		strategies.GET("", h.ListStrategies)
		strategies.POST("", h.CreateStrategy)
		strategies.DELETE("/:id", h.DeleteStrategy)
	}

	rg.GET("/risk", h.GetRiskRules)
	rg.PUT("/risk", h.SaveRiskRules)
}

func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid request", errs)
		return false
	}
	return true
}

func (h *Handler) ListTrades(c *gin.Context) {
	trades := h.service.ListTrades(c.Request.Context(), middleware.UserID(c))
	response.Success(c, http.StatusOK, gin.H{"trades": trades, "count": len(trades)})
}

func (h *Handler) CreateTrade(c *gin.Context) {
	var req CreateTradeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	trade, err := h.service.CreateTrade(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, trade)
}

func (h *Handler) Summary(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Summarize(c.Request.Context(), middleware.UserID(c)))
}

// Export streams the caller's journal as an xlsx workbook.
func (h *Handler) Export(c *gin.Context) {
	trades := h.service.ListTrades(c.Request.Context(), middleware.UserID(c))
	f, err := BuildWorkbook(trades)
	if err != nil {
		log.Error().Err(err).Msg("building trade export failed")
		response.Error(c, http.StatusInternalServerError, "EXPORT_FAILED", "Could not build export")
		return
	}
	defer f.Close()

	name := fmt.Sprintf("TradeMind_Journal_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Header("Content-Transfer-Encoding", "binary")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("writing trade export failed")
	}
}

func (h *Handler) ListStrategies(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.ListStrategies(c.Request.Context(), middleware.UserID(c)))
}

func (h *Handler) CreateStrategy(c *gin.Context) {
	var req CreateStrategyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	st, err := h.service.CreateStrategy(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, st)
}

func (h *Handler) DeleteStrategy(c *gin.Context) {
	err := h.service.DeleteStrategy(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if errors.Is(err, repository.ErrStrategyNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Strategy not found")
		return
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Strategy deleted"})
}

func (h *Handler) GetRiskRules(c *gin.Context) {
	rules, err := h.service.GetRiskRules(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rules)
}

func (h *Handler) SaveRiskRules(c *gin.Context) {
	var req RiskRulesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rules, err := h.service.SaveRiskRules(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rules)
}

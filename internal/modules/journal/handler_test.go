package journal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("", func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Next()
	})
	NewHandler(newTestService(t)).RegisterRoutes(g)
	return r
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateTradeValidation(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodPost, "/trades", `{"assetType":"CRYPTO","instrument":"BTC","side":"BUY","qty":1,"entryPrice":1,"marketType":"SWING"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"assetType":"oneof"`)

	w = send(r, http.MethodPost, "/trades", `{"assetType":"STOCK","instrument":"TCS","side":"BUY","qty":1,"entryPrice":3500,"exitPrice":3550,"marketType":"SWING"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = send(r, http.MethodGet, "/trades", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestHandler_Export(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodGet, "/trades/export", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "TradeMind_Journal_")
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}

func TestHandler_StrategyNotFound(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodDelete, "/strategies/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_RiskRules(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodPut, "/risk", `{"max_risk_per_trade":0,"max_daily_loss":5,"max_trades_per_day":3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = send(r, http.MethodPut, "/risk", `{"max_risk_per_trade":1.5,"max_daily_loss":5,"max_trades_per_day":3}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"max_risk_per_trade":1.5`)
}

package journal

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"trademind/internal/database"
	"trademind/internal/domain"
	"trademind/internal/repository"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewService(repository.NewJournalRepository(db))
}

func tradeReq(side domain.Side, entry, exit float64) CreateTradeRequest {
	return CreateTradeRequest{
		AssetType:  domain.AssetStock,
		Instrument: " reliance ",
		Side:       side,
		Qty:        10,
		EntryPrice: entry,
		ExitPrice:  exit,
		StopLoss:   entry - 10,
		Target:     entry + 20,
		MarketType: domain.MarketIntraday,
	}
}

func TestCreateTrade_Defaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	trade, err := svc.CreateTrade(ctx, "u1", tradeReq(domain.SideBuy, 100, 120))
	require.NoError(t, err)

	assert.NotEmpty(t, trade.ID)
	assert.Equal(t, "RELIANCE", trade.Instrument)
	assert.Equal(t, 2.0, trade.RiskReward)
	assert.Equal(t, []string{}, trade.Mistakes)
	assert.Equal(t, domain.DefaultPsychology(), trade.Psychology)
	assert.False(t, trade.Timestamp.IsZero())

	list := svc.ListTrades(ctx, "u1")
	require.Len(t, list, 1)
	assert.Equal(t, trade.ID, list[0].ID)
	assert.Empty(t, svc.ListTrades(ctx, "someone-else"))
}

func TestRiskReward(t *testing.T) {
	assert.Equal(t, 0.0, riskReward(100, 0, 120))
	assert.Equal(t, 0.0, riskReward(100, 100, 120))
	assert.Equal(t, 1.5, riskReward(100, 90, 115))
	assert.Equal(t, 2.0, riskReward(100, 110, 80))
}

func TestSummarize(t *testing.T) {
	trades := []domain.Trade{
		{Side: domain.SideBuy, Qty: 10, EntryPrice: 100, ExitPrice: 120, RiskReward: 2},
		{Side: domain.SideSell, Qty: 5, EntryPrice: 200, ExitPrice: 210, RiskReward: 1},
		{Side: domain.SideBuy, Qty: 1, EntryPrice: 50, ExitPrice: 50},
	}
	sum := summarize(trades)

	assert.Equal(t, 3, sum.TotalTrades)
	assert.Equal(t, 1, sum.Wins)
	assert.Equal(t, 1, sum.Losses)
	assert.InDelta(t, 150.0, sum.NetPnL, 0.0001)
	assert.Equal(t, 33.33, sum.WinRate)
	assert.Equal(t, 1.0, sum.AvgRR)

	assert.Equal(t, Summary{}, summarize(nil))
}

func TestStrategies(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	st, err := svc.CreateStrategy(ctx, "u1", CreateStrategyRequest{Name: "  ORB  ", Timeframe: "5m"})
	require.NoError(t, err)
	assert.Equal(t, "ORB", st.Name)

	require.Len(t, svc.ListStrategies(ctx, "u1"), 1)
	assert.ErrorIs(t, svc.DeleteStrategy(ctx, "u2", st.ID), repository.ErrStrategyNotFound)
	require.NoError(t, svc.DeleteStrategy(ctx, "u1", st.ID))
	assert.Empty(t, svc.ListStrategies(ctx, "u1"))
}

func TestRiskRules_DefaultThenSaved(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rules, err := svc.GetRiskRules(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRiskRules("u1"), *rules)

	saved, err := svc.SaveRiskRules(ctx, "u1", RiskRulesRequest{MaxRiskPerTrade: 2, MaxDailyLoss: 6, MaxTradesPerDay: 4})
	require.NoError(t, err)
	assert.Equal(t, 2.0, saved.MaxRiskPerTrade)
	assert.Equal(t, 4, saved.MaxTradesPerDay)
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestBuildWorkbook(t *testing.T) {
	ts := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	trades := []domain.Trade{
		{Instrument: "NIFTY", AssetType: domain.AssetIndex, Side: domain.SideSell, MarketType: domain.MarketIntraday,
			Qty: 50, EntryPrice: 22000, ExitPrice: 21950, Timestamp: ts, Mistakes: []string{"Early exit", "Late entry"}},
	}

	f, err := BuildWorkbook(trades)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	back, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer back.Close()

	rows, err := back.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "15-01-2026", rows[1][1])
	assert.Equal(t, "NIFTY", rows[1][3])
	assert.Equal(t, "2500", rows[1][13])
	assert.Equal(t, "Early exit, Late entry", rows[1][14])
}

package journal

import (
	"time"

	"trademind/internal/domain"
)

type CreateTradeRequest struct {
	AssetType     domain.AssetType   `json:"assetType" validate:"required,oneof=STOCK OPTION INDEX"`
	Instrument    string             `json:"instrument" validate:"required,max=64"`
	Side          domain.Side        `json:"side" validate:"required,oneof=BUY SELL"`
	Qty           float64            `json:"qty" validate:"gt=0"`
	EntryPrice    float64            `json:"entryPrice" validate:"gt=0"`
	ExitPrice     float64            `json:"exitPrice" validate:"gte=0"`
	StopLoss      float64            `json:"stopLoss" validate:"gte=0"`
	Target        float64            `json:"target" validate:"gte=0"`
	Timestamp     time.Time          `json:"timestamp"`
	MarketType    domain.MarketType  `json:"marketType" validate:"required,oneof=INTRADAY SWING POSITIONAL"`
	ScreenshotURL string             `json:"screenshotUrl" validate:"omitempty,uri"`
	Notes         string             `json:"notes" validate:"max=2000"`
	Mistakes      []string           `json:"mistakes"`
	Psychology    *domain.Psychology `json:"psychology"`
	StrategyID    string             `json:"strategyId"`
}

type CreateStrategyRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	EntryRules string `json:"entryRules"`
	ExitRules  string `json:"exitRules"`
	Timeframe  string `json:"timeframe" validate:"max=32"`
	Instrument string `json:"instrument" validate:"max=64"`
	RiskRules  string `json:"riskRules"`
}

type RiskRulesRequest struct {
	MaxRiskPerTrade float64 `json:"max_risk_per_trade" validate:"gt=0,lte=100"`
	MaxDailyLoss    float64 `json:"max_daily_loss" validate:"gt=0,lte=100"`
	MaxTradesPerDay int     `json:"max_trades_per_day" validate:"gte=1,lte=100"`
}

type Summary struct {
	TotalTrades int     `json:"totalTrades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"winRate"`
	NetPnL      float64 `json:"netPnl"`
	AvgRR       float64 `json:"avgRiskReward"`
}

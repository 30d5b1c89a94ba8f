package domain

import "time"

type AssetType string

const (
	AssetStock  AssetType = "STOCK"
	AssetOption AssetType = "OPTION"
	AssetIndex  AssetType = "INDEX"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type MarketType string

const (
	MarketIntraday   MarketType = "INTRADAY"
	MarketSwing      MarketType = "SWING"
	MarketPositional MarketType = "POSITIONAL"
)

type Emotion string

const (
	EmotionCalm      Emotion = "CALM"
	EmotionAnxious   Emotion = "ANXIOUS"
	EmotionGreedy    Emotion = "GREEDY"
	EmotionFearful   Emotion = "FEARFUL"
	EmotionConfident Emotion = "CONFIDENT"
	EmotionRevenge   Emotion = "REVENGE"
)

type Psychology struct {
	EmotionBefore Emotion `json:"emotionBefore"`
	EmotionDuring Emotion `json:"emotionDuring"`
	EmotionAfter  Emotion `json:"emotionAfter"`
	Confidence    int     `json:"confidence"`
	Stress        int     `json:"stress"`
}

// DefaultPsychology is used for trades logged without a psychology block.
func DefaultPsychology() Psychology {
	return Psychology{
		EmotionBefore: EmotionCalm,
		EmotionDuring: EmotionCalm,
		EmotionAfter:  EmotionCalm,
		Confidence:    3,
		Stress:        1,
	}
}

type Trade struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	AssetType     AssetType  `json:"assetType"`
	Instrument    string     `json:"instrument"`
	Side          Side       `json:"side"`
	Qty           float64    `json:"qty"`
	EntryPrice    float64    `json:"entryPrice"`
	ExitPrice     float64    `json:"exitPrice"`
	StopLoss      float64    `json:"stopLoss"`
	Target        float64    `json:"target"`
	RiskReward    float64    `json:"riskReward"`
	Timestamp     time.Time  `json:"timestamp"`
	MarketType    MarketType `json:"marketType"`
	ScreenshotURL string     `json:"screenshotUrl,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Mistakes      []string   `json:"mistakes"`
	Psychology    Psychology `json:"psychology"`
	StrategyID    string     `json:"strategyId"`
}

// PnL is the realised profit or loss of a closed trade.
func (t Trade) PnL() float64 {
	diff := t.ExitPrice - t.EntryPrice
	if t.Side == SideSell {
		diff = -diff
	}
	return diff * t.Qty
}

type Strategy struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	EntryRules string `json:"entryRules"`
	ExitRules  string `json:"exitRules"`
	Timeframe  string `json:"timeframe"`
	Instrument string `json:"instrument"`
	RiskRules  string `json:"riskRules"`
}

// RiskRules holds a user's hard limits. Loss and risk are percentages of
// capital.
type RiskRules struct {
	UserID          string    `json:"userId"`
	MaxRiskPerTrade float64   `json:"max_risk_per_trade"`
	MaxDailyLoss    float64   `json:"max_daily_loss"`
	MaxTradesPerDay int       `json:"max_trades_per_day"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func DefaultRiskRules(userID string) RiskRules {
	return RiskRules{
		UserID:          userID,
		MaxRiskPerTrade: 1,
		MaxDailyLoss:    5,
		MaxTradesPerDay: 3,
	}
}

var CommonMistakes = []string{
	"Overtrading",
	"Revenge trading",
	"No stop loss",
	"Early exit",
	"Late entry",
	"Emotional trade",
	"News based trade",
	"Breaking rules",
}
